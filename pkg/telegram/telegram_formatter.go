package telegram

import (
	"fmt"
	"strings"

	"golang-news-analyzer/internal/entity"
)

// FormatAssetSummariesForTelegram formats the summaries produced by one
// aggregation pass into Markdown messages for Telegram, splitting so no
// message exceeds the Telegram length limit.
func FormatAssetSummariesForTelegram(summaries []entity.NewsSummary) []string {
	if len(summaries) == 0 {
		return []string{"No asset class summaries were generated for this window."}
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		var header string
		if part == 1 {
			header = "📰 *Market News Digest* 📰\n\n"
		} else {
			header = fmt.Sprintf("---*Market News Digest Part %d*---\n\n", part)
		}
		currentMessage.WriteString(header)
	}

	startNewPart()

	for _, s := range summaries {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", s.AssetClass))
		entryBuilder.WriteString(fmt.Sprintf("💬 %s\n", s.SummaryText))
		entryBuilder.WriteString(fmt.Sprintf("🗞 *Articles:* %d\n", s.NewsCount))
		entryBuilder.WriteString(fmt.Sprintf("🕑 *Window:* %s → %s\n\n",
			s.WindowStart.Format("2006-01-02 15:04"),
			s.WindowEnd.Format("2006-01-02 15:04")))

		entryString := entryBuilder.String()

		if currentMessage.Len()+len(entryString) > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}

		currentMessage.WriteString(entryString)
	}

	messages = append(messages, currentMessage.String())

	return messages
}
