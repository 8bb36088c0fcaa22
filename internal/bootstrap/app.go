package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"study-backend/internal/chat"
	"study-backend/internal/documents"
	"study-backend/internal/llm"
	openai "study-backend/internal/llm/openai"
	"study-backend/internal/services/health"
	"study-backend/internal/shared/auth"
	"study-backend/internal/shared/config"
	"study-backend/internal/shared/server"
	"study-backend/internal/shared/storage/db"
	"study-backend/internal/shared/storage/object"
	localstore "study-backend/internal/shared/storage/object/local"
	miniostore "study-backend/internal/shared/storage/object/minio"
	s3store "study-backend/internal/shared/storage/object/s3"
	"study-backend/internal/shared/telemetry"
	"study-backend/internal/study"
	"study-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Tokens           *auth.TokenService
	LLM              llm.Client
	DocumentsRepo    documents.DocumentsRepo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	UsersService     *users.Service
	ChatService      *chat.Service
	StudyService     *study.Service
	DocumentsHandler *documents.Handler
	UsersHandler     *users.Handler
	ChatHandler      *chat.Handler
	StudyHandler     *study.Handler
}

// Option adjusts an App before services are wired.
type Option func(*App)

// WithLLM replaces the inference client built from config.
func WithLLM(client llm.Client) Option {
	return func(a *App) { a.LLM = client }
}

// WithStore replaces the object store built from config.
func WithStore(store object.ObjectStore) Option {
	return func(a *App) { a.Store = store }
}

// Build opens the database and object store, wires every service and
// mounts the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	secret, err := auth.ResolveSecret(cfg.Env, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	app.Tokens = auth.NewTokenService(secret, cfg.TokenTTL)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	if app.Store == nil {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Store = store
	}

	if app.LLM == nil {
		client, err := buildLLM(cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.LLM = client
	}
	app.LLM = llm.WithMetrics(app.LLM)

	if err := buildServices(app); err != nil {
		app.Close()
		return nil, err
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Tokens:          app.Tokens,
		Health:          health.NewService(pinger),
		UserHandler:     app.UsersHandler,
		DocumentHandler: app.DocumentsHandler,
		ChatHandler:     app.ChatHandler,
		StudyHandler:    app.StudyHandler,
	})

	return app, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "LLM_API_KEY empty"})
			return llm.PlaceholderClient{}, nil
		}
		return nil, errors.New("LLM_API_KEY is required")
	}
	client, err := openai.NewClient(openai.Options{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := documents.NewService(app.Store, docRepo, app.Config.MaxUploadBytes)
	userSvc := users.NewService(userRepo, app.Tokens, docSvc)
	chatSvc := chat.NewService(docRepo, app.LLM)
	studySvc := study.NewService(docRepo, app.LLM, app.Config.SummaryTimeout)

	app.DocumentsRepo = docRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.UsersService = userSvc
	app.ChatService = chatSvc
	app.StudyService = studySvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.ChatHandler = chat.NewHandler(chatSvc)
	app.StudyHandler = study.NewHandler(studySvc)

	if app.DocumentsHandler == nil || app.UsersHandler == nil || app.ChatHandler == nil || app.StudyHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
