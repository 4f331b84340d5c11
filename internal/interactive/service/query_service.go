package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-news-analyzer/internal/interactive/dto"
	"golang-news-analyzer/internal/interactive/repository"
	"golang-news-analyzer/pkg/logger"
	"golang-news-analyzer/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// DeclineMessage is returned when the SQL-generation agent's output cannot be
// used. It is the only response for that case; the store is never touched.
const DeclineMessage = "Sorry, I could not understand your question. Please try asking in a different way."

// QueryService answers free-text questions with the two-stage agent pair.
// Every failure becomes a natural-language message; the caller never sees a
// raw error.
type QueryService interface {
	Ask(ctx context.Context, question string) string
}

// NewQueryService creates a new QueryService.
func NewQueryService(
	llmRepo repository.LLMRepository,
	queryRepo repository.QueryRepository,
	log *logger.Logger,
	answerCacheTTL time.Duration,
	maxResultRows int,
) QueryService {
	if answerCacheTTL <= 0 {
		answerCacheTTL = 5 * time.Minute
	}
	return &queryService{
		llmRepo:     llmRepo,
		queryRepo:   queryRepo,
		logger:      log,
		answerCache: cache.New(answerCacheTTL, 2*answerCacheTTL),
		maxRows:     maxResultRows,
		now:         time.Now,
	}
}

type queryService struct {
	llmRepo     repository.LLMRepository
	queryRepo   repository.QueryRepository
	logger      *logger.Logger
	answerCache *cache.Cache
	maxRows     int
	now         func() time.Time
}

// Ask runs the request through the agent pair: SQL generation, read-only
// execution, result summarization. Stateless per request; no retries, the
// caller may simply re-ask.
func (s *queryService) Ask(ctx context.Context, question string) string {
	if answer, found := s.answerCache.Get(question); found {
		return answer.(string)
	}

	// Stage 1: map the question to a table and a SQL statement.
	raw, err := s.llmRepo.ChatCompletion(ctx, repository.BuildSQLAgentPrompt(s.now()), question)
	if err != nil {
		s.logger.Error("SQL-generation agent call failed", logger.ErrorField(err))
		return DeclineMessage
	}

	var plan dto.SQLPlan
	if !utils.ExtractJSONObject(raw, &plan) || plan.SQL == "" {
		s.logger.Warn("SQL-generation agent returned no usable plan", logger.StringField("response", raw))
		return DeclineMessage
	}

	s.logger.Info("Generated SQL plan",
		logger.StringField("table", plan.Table),
		logger.StringField("sql", plan.SQL))

	// Stage 2: execute read-only and serialize the rows.
	rows, err := s.queryRepo.ExecuteReadOnly(ctx, plan.SQL, s.maxRows)
	if err != nil {
		s.logger.Error("Query execution failed", logger.ErrorField(err), logger.StringField("sql", plan.SQL))
		return fmt.Sprintf("An error occurred while querying the data: %v", err)
	}

	dataContext, err := json.Marshal(rows)
	if err != nil {
		s.logger.Error("Failed to serialize query result", logger.ErrorField(err))
		return fmt.Sprintf("An error occurred while preparing the query result: %v", err)
	}

	// Stage 3: narrate the result.
	answer, err := s.llmRepo.ChatCompletion(ctx, repository.AnswerAgentSystemPrompt,
		repository.BuildAnswerAgentInput(question, string(dataContext)))
	if err != nil {
		s.logger.Error("Summarization agent call failed", logger.ErrorField(err))
		return fmt.Sprintf("An error occurred while generating the answer: %v", err)
	}

	s.answerCache.SetDefault(question, answer)
	return answer
}
