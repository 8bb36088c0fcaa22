package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the unauthenticated account routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if _, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			respond.Error(c, http.StatusBadRequest, "validation_error", "User already exists", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "registration failed", err)
		}
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	token, user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid credentials", nil)
			return
		}
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "login failed", err)
		return
	}
	respond.OK(c, gin.H{"token": token, "email": user.Email})
}

func (h *Handler) me(c *gin.Context) {
	email := middleware.UserEmailFromContext(c)
	profile, err := h.Svc.Me(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.ErrorWithCause(c, http.StatusInternalServerError, "internal_error", "failed to load user", err)
		return
	}
	respond.OK(c, profile)
}
