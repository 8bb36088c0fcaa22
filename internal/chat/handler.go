package chat

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
	rg.POST("/chat", h.ask)
	rg.POST("/chat-history", h.history)
}

type askRequest struct {
	Filename string `json:"filename"`
	Question string `json:"question"`
}

type historyRequest struct {
	Filename string `json:"filename"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Filename = strings.TrimSpace(req.Filename)
	c.Set(middleware.DocumentKey, req.Filename)
	c.Set(middleware.OperationKey, llm.OperationChat)

	answer, err := h.Svc.Ask(c.Request.Context(), middleware.UserEmailFromContext(c), req.Filename, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		case errors.Is(err, ErrUpstream):
			respond.ErrorWithCause(c, http.StatusInternalServerError, "upstream_error", "AI request failed", err)
		default:
			respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "AI request failed", err)
		}
		return
	}
	respond.OK(c, gin.H{"answer": answer})
}

func (h *Handler) history(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.OK(c, gin.H{"messages": []Message{}})
		return
	}
	req.Filename = strings.TrimSpace(req.Filename)
	c.Set(middleware.DocumentKey, req.Filename)

	messages := h.Svc.History(c.Request.Context(), middleware.UserEmailFromContext(c), req.Filename)
	respond.OK(c, gin.H{"messages": messages})
}
