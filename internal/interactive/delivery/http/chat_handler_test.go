package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-news-analyzer/internal/interactive/dto"
	"golang-news-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueryService struct {
	answer       string
	lastQuestion string
}

func (f *fakeQueryService) Ask(ctx context.Context, question string) string {
	f.lastQuestion = question
	return f.answer
}

func newTestServer(t *testing.T, svc *fakeQueryService) *echo.Echo {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)

	e := echo.New()
	NewChatHandler(svc, log).RegisterRoutes(e)
	return e
}

func TestChat_ReturnsAnswer(t *testing.T) {
	svc := &fakeQueryService{answer: "Gold was firm today."}
	e := newTestServer(t, svc)

	body := `{"user_input": "  any gold news?  "}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Gold was firm today.", res.Answer)
	assert.Equal(t, "any gold news?", svc.lastQuestion)
}

func TestChat_RejectsEmptyInput(t *testing.T) {
	e := newTestServer(t, &fakeQueryService{})

	for _, body := range []string{`{}`, `{"user_input": "   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &fakeQueryService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
