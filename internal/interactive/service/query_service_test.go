package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-news-analyzer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

type fakeLLMRepo struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeLLMRepo) ChatCompletion(ctx context.Context, systemPrompt, userContent string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, systemPrompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("unexpected call")
}

type fakeQueryRepo struct {
	rows    []map[string]interface{}
	err     error
	lastSQL string
}

func (f *fakeQueryRepo) ExecuteReadOnly(ctx context.Context, sql string, maxRows int) ([]map[string]interface{}, error) {
	f.lastSQL = sql
	return f.rows, f.err
}

func TestAsk_HappyPath(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{
		`{"table":"news_items","sql":"SELECT title FROM news_items WHERE content LIKE '%gold%'"}`,
		"Gold rallied on rate cut expectations; sentiment is bullish.",
	}}
	queryRepo := &fakeQueryRepo{rows: []map[string]interface{}{
		{"title": "Gold rallies", "sentiment_score": 0.8},
	}}

	svc := NewQueryService(llm, queryRepo, newTestLogger(t), time.Minute, 100)

	answer := svc.Ask(context.Background(), "any recent gold news?")
	assert.Equal(t, "Gold rallied on rate cut expectations; sentiment is bullish.", answer)
	assert.Contains(t, queryRepo.lastSQL, "LIKE '%gold%'")
	assert.Equal(t, 2, llm.calls)
}

func TestAsk_DeclinesOnUnparseablePlan(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{"I am not sure what you mean."}}
	queryRepo := &fakeQueryRepo{}

	svc := NewQueryService(llm, queryRepo, newTestLogger(t), time.Minute, 100)

	answer := svc.Ask(context.Background(), "asdfgh")
	assert.Equal(t, DeclineMessage, answer)
	// The store is never touched on a declined question.
	assert.Empty(t, queryRepo.lastSQL)
}

func TestAsk_DeclinesOnMissingSQL(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{`{"table":"news_items"}`}}
	svc := NewQueryService(llm, &fakeQueryRepo{}, newTestLogger(t), time.Minute, 100)

	assert.Equal(t, DeclineMessage, svc.Ask(context.Background(), "hm"))
}

func TestAsk_DeclinesOnStageOneFailure(t *testing.T) {
	llm := &fakeLLMRepo{errs: []error{errors.New("model unavailable")}}
	svc := NewQueryService(llm, &fakeQueryRepo{}, newTestLogger(t), time.Minute, 100)

	assert.Equal(t, DeclineMessage, svc.Ask(context.Background(), "gold news"))
}

func TestAsk_QueryFailureBecomesMessage(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{
		`{"table":"news_items","sql":"SELECT title FROM news_items"}`,
	}}
	queryRepo := &fakeQueryRepo{err: errors.New("relation does not exist")}

	svc := NewQueryService(llm, queryRepo, newTestLogger(t), time.Minute, 100)

	answer := svc.Ask(context.Background(), "gold news")
	assert.Contains(t, answer, "An error occurred while querying the data")
	assert.Equal(t, 1, llm.calls)
}

func TestAsk_SummarizationFailureBecomesMessage(t *testing.T) {
	llm := &fakeLLMRepo{
		responses: []string{`{"table":"news_items","sql":"SELECT 1"}`, ""},
		errs:      []error{nil, errors.New("model timeout")},
	}
	svc := NewQueryService(llm, &fakeQueryRepo{}, newTestLogger(t), time.Minute, 100)

	answer := svc.Ask(context.Background(), "gold news")
	assert.Contains(t, answer, "An error occurred while generating the answer")
}

func TestAsk_RepeatedQuestionIsCached(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{
		`{"table":"news_summaries","sql":"SELECT summary_text FROM news_summaries"}`,
		"Commodities were firm this week.",
	}}
	svc := NewQueryService(llm, &fakeQueryRepo{}, newTestLogger(t), time.Minute, 100)

	first := svc.Ask(context.Background(), "commodities review")
	second := svc.Ask(context.Background(), "commodities review")

	assert.Equal(t, first, second)
	// The second ask is served from the answer cache without model calls.
	assert.Equal(t, 2, llm.calls)
}

func TestAsk_DeclinedAnswersAreNotCached(t *testing.T) {
	llm := &fakeLLMRepo{responses: []string{
		"no json here",
		`{"table":"news_items","sql":"SELECT title FROM news_items"}`,
		"Second try worked.",
	}}
	svc := NewQueryService(llm, &fakeQueryRepo{}, newTestLogger(t), time.Minute, 100)

	assert.Equal(t, DeclineMessage, svc.Ask(context.Background(), "gold news"))
	assert.Equal(t, "Second try worked.", svc.Ask(context.Background(), "gold news"))
}
