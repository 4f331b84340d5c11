package repository

import (
	"fmt"
	"strings"
	"time"

	"golang-news-analyzer/internal/entity"
)

// EnrichNewsSystemPrompt is the fixed instruction for the enrichment call. It
// pins the output contract: a single JSON object with exactly the structured
// field set, numeric fields in range, unknown fields filled with "Unknown".
const EnrichNewsSystemPrompt = `# Role
You are a senior quantitative financial analyst. Your task is to parse fragmented news text into structured JSON data for downstream quantitative analysis.

# Rules
1. **sentiment_score**: range [-1.0, 1.0]. Extremely bearish events (crashes, defaults, war damage) are -1.0. Extremely bullish events (surges, earnings beats, major policy support) are 1.0. Neutral or offsetting news is 0.
2. **impact_weight**: integer 1-5. 5 is an event capable of changing the medium-to-long-term market trend (e.g. a Fed rate decision).
3. **trend_signal**: 1 bullish, 0 neutral, -1 bearish.
4. **asset_class**: choose strictly from (Commodities, Equities, Bonds, Rates, FX, Crypto, Real Estate, Derivatives, Other). Do not invent other classes.
5. **Field discipline**: if the news does not state a field, infer it from context or fill in the literal string "Unknown". Never omit a field.
6. **Output format**: output a single standard JSON object only, with no extra explanatory text.

# Keys
- fingerprint: echo the fingerprint from the input unchanged.
- source: originating outlet or agency.
- region: affected country/region code (US, CN, EU, Global, ...).
- subject: the core instrument or entity (e.g. natural gas, S&P 500, Tesla, gold).
- asset_class: one of the fixed classes above.
- sector: industry sector (energy, technology, financials, ...).
- sentiment_score: float in [-1, 1].
- impact_weight: integer 1-5.
- trend_signal: -1, 0 or 1.
- event_type: event category (policy, earnings, macro, supply-demand, ...).
- driver_factor: keywords for the core driving logic.
- key_metrics: the key figures or historical levels mentioned in the text.`

// BuildEnrichNewsInput serializes one item into the deterministic user content
// for the enrichment call.
func BuildEnrichNewsInput(item *entity.NewsItem) string {
	publishDate := "N/A"
	if item.PublishDate != nil {
		publishDate = time.Time(*item.PublishDate).Format("2006-01-02")
	}
	publishTime := "N/A"
	if item.PublishTime != nil {
		publishTime = item.PublishTime.String()
	}
	return fmt.Sprintf("fingerprint: %s\ntitle: %s\ncontent: %s\npublish_date: %s\npublish_time: %s",
		item.Fingerprint, item.Title, item.Content, publishDate, publishTime)
}

// SummarySystemPrompt is the fixed instruction for per-class aggregation.
const SummarySystemPrompt = "You are a financial analysis assistant."

// BuildAssetSummaryPrompt formats the items of one asset class into the
// aggregation prompt. Content is truncated per item so large windows stay
// within context limits.
func BuildAssetSummaryPrompt(assetClass string, items []entity.NewsItem) string {
	var newsBuilder strings.Builder
	for i, item := range items {
		content := item.Content
		if len(content) > 150 {
			content = content[:150] + "..."
		}
		newsBuilder.WriteString(fmt.Sprintf("%d. Title: %s\n   Content: %s\n\n", i+1, item.Title, content))
	}

	promptTemplate := `# Role
You are a senior macroeconomic and financial strategy analyst.

# Task
Based on the news items below, write a concise market review for the "%s" asset class.

# Required content
1. **Core trend**: one sentence capturing the overall performance or dominant driver for the period.
2. **Key driver events**: the 2-3 most significant news events for this asset class, with the logic behind each.
3. **Sentiment posture**: an overall judgement of current market sentiment (bullish, bearish, or wait-and-see).

# Constraints
- Summarize only from the provided news; do not invent facts.
- Professional, objective, concise language.
- If the provided news is empty or insufficient, reply "No significant events in this period."
- Keep the total length between 200 and 400 characters.

# News items:
%s`

	return fmt.Sprintf(promptTemplate, assetClass, newsBuilder.String())
}
