package http

import (
	"net/http"
	"strings"

	"golang-news-analyzer/internal/interactive/dto"
	"golang-news-analyzer/internal/interactive/service"
	"golang-news-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChatHandler handles HTTP requests for the question-answering agent.
type ChatHandler struct {
	queryService service.QueryService
	logger       *logger.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(queryService service.QueryService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{queryService: queryService, logger: logger}
}

// RegisterRoutes registers the chat routes to the Echo instance.
func (h *ChatHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.GET("/", h.Health)
	e.GET("/health", h.Health)
}

// Chat accepts a free-text question and returns the agent's answer.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	question := strings.TrimSpace(req.UserInput)
	if question == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_input must not be empty"})
	}

	answer := h.queryService.Ask(c.Request().Context(), question)
	return c.JSON(http.StatusOK, dto.ChatResponse{Answer: answer})
}

// Health is a liveness probe.
func (h *ChatHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
