package repository

import (
	"strings"
	"testing"

	"golang-news-analyzer/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnrichNewsInput_MissingTimestampsBecomeNA(t *testing.T) {
	item := &entity.NewsItem{
		Fingerprint: "abc123",
		Title:       "Gold rallies",
		Content:     "Gold rose 2%.",
	}

	input := BuildEnrichNewsInput(item)

	assert.Contains(t, input, "fingerprint: abc123")
	assert.Contains(t, input, "publish_date: N/A")
	assert.Contains(t, input, "publish_time: N/A")
}

func TestBuildAssetSummaryPrompt_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 500)
	prompt := BuildAssetSummaryPrompt(entity.AssetClassEquities, []entity.NewsItem{
		{Title: "Long item", Content: long},
		{Title: "Short item", Content: "brief"},
	})

	assert.Contains(t, prompt, entity.AssetClassEquities)
	assert.Contains(t, prompt, strings.Repeat("x", 150)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 151))
	assert.Contains(t, prompt, "2. Title: Short item")
	assert.Contains(t, prompt, "brief")
}
