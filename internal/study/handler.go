package study

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"study-backend/internal/llm"
	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summary", h.summary)
	rg.POST("/quiz", h.quiz)
}

type documentRequest struct {
	Filename string `json:"filename"`
}

func (h *Handler) bind(c *gin.Context, operation string) (string, bool) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return "", false
	}
	filename := strings.TrimSpace(req.Filename)
	c.Set(middleware.DocumentKey, filename)
	c.Set(middleware.OperationKey, operation)
	return filename, true
}

func (h *Handler) summary(c *gin.Context) {
	filename, ok := h.bind(c, llm.OperationSummary)
	if !ok {
		return
	}
	summary, err := h.Svc.Summarize(c.Request.Context(), middleware.UserEmailFromContext(c), filename)
	if err != nil {
		writeError(c, err, "Failed to generate summary")
		return
	}
	respond.OK(c, gin.H{"summary": summary})
}

func (h *Handler) quiz(c *gin.Context) {
	filename, ok := h.bind(c, llm.OperationQuiz)
	if !ok {
		return
	}
	quiz, err := h.Svc.GenerateQuiz(c.Request.Context(), middleware.UserEmailFromContext(c), filename)
	if err != nil {
		writeError(c, err, "Quiz generation failed")
		return
	}
	respond.OK(c, gin.H{"quiz": quiz})
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
	case errors.Is(err, ErrUpstream):
		respond.ErrorWithCause(c, http.StatusInternalServerError, "upstream_error", message, err)
	default:
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", message, err)
	}
}
