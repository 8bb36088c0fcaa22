package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-backend/internal/chat"
	"study-backend/internal/documents"
	"study-backend/internal/services/health"
	"study-backend/internal/shared/config"
	"study-backend/internal/shared/metrics"
	"study-backend/internal/shared/server/middleware"
	"study-backend/internal/shared/server/respond"
	"study-backend/internal/study"
	"study-backend/internal/users"
)

// RouterDeps carries the handlers mounted under /api.
type RouterDeps struct {
	Config          config.Config
	Tokens          middleware.TokenVerifier
	Health          *health.Service
	UserHandler     *users.Handler
	DocumentHandler *documents.Handler
	ChatHandler     *chat.Handler
	StudyHandler    *study.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		body, ok := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, body)
	})
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Tokens))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(protected)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(protected)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(protected)
	}
	if deps.StudyHandler != nil {
		deps.StudyHandler.RegisterRoutes(protected)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
