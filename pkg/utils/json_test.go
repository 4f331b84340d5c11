package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Table string `json:"table"`
	SQL   string `json:"sql"`
}

func TestExtractJSONObject_PlainObject(t *testing.T) {
	var p payload
	require.True(t, ExtractJSONObject(`{"table":"news_items","sql":"SELECT 1"}`, &p))
	assert.Equal(t, "news_items", p.Table)
	assert.Equal(t, "SELECT 1", p.SQL)
}

func TestExtractJSONObject_MarkdownFence(t *testing.T) {
	text := "Here is the result:\n```json\n{\"table\": \"news_summaries\", \"sql\": \"SELECT summary_text FROM news_summaries\"}\n```\nLet me know if you need anything else."

	var p payload
	require.True(t, ExtractJSONObject(text, &p))
	assert.Equal(t, "news_summaries", p.Table)
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	text := `{"table":"news_items","sql":"SELECT title FROM news_items WHERE content LIKE '%{gold}%'"}`

	var p payload
	require.True(t, ExtractJSONObject(text, &p))
	assert.Contains(t, p.SQL, "{gold}")
}

func TestExtractJSONObject_SkipsLeadingGarbageObject(t *testing.T) {
	// The first balanced block is not valid JSON; the scanner must move on to
	// the next candidate instead of giving up.
	text := `{not json} {"table":"news_items","sql":"SELECT 1"}`

	var p payload
	require.True(t, ExtractJSONObject(text, &p))
	assert.Equal(t, "news_items", p.Table)
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	var p payload
	assert.False(t, ExtractJSONObject("I cannot answer that question.", &p))
	assert.False(t, ExtractJSONObject("", &p))
	assert.False(t, ExtractJSONObject("{unclosed", &p))
}
