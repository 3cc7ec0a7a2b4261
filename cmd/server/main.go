package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/keyaccount/backend/internal/cache"
	"github.com/keyaccount/backend/internal/config"
	"github.com/keyaccount/backend/internal/handler"
	"github.com/keyaccount/backend/internal/logging"
	"github.com/keyaccount/backend/internal/repository"
	"github.com/keyaccount/backend/internal/service"
	"github.com/keyaccount/backend/pkg/airtable"
	"github.com/keyaccount/backend/pkg/auth"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logging.Setup("server", "INFO")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup("server", cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		logging.Fatal("invalid timezone", "error", err)
	}

	ctx := context.Background()
	checks := map[string]repository.DB{}

	// Airtable クライアント（REDIS_URL があれば読み取りキャッシュを挟む）
	var client airtable.Client = airtable.NewClient(cfg.AirtableBaseID, cfg.AirtablePAT).WithAPIURL(cfg.AirtableAPIURL)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.Fatal("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		client = cache.NewCachedClient(client, rdb, cfg.CacheTTL).WithLinks(repository.InverseLinks)
		checks["cache"] = cache.HealthCheck{Client: rdb}
		slog.Info("airtable cache enabled", "ttl", cfg.CacheTTL)
	}

	// セッションストア（DATABASE_URL が無ければプロセス内メモリ）
	var sessionRepo repository.SessionRepository
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		defer pool.Close()
		sessionRepo = repository.NewPgSessionRepository(pool)
		checks["database"] = pool
	} else {
		slog.Warn("DATABASE_URL not set; sessions are kept in memory")
		sessionRepo = repository.NewMemorySessionRepository()
	}

	userRepo := repository.NewAirtableUserRepository(client)
	accountRepo := repository.NewAirtableAccountRepository(client)
	projectRepo := repository.NewAirtableProjectRepository(client)
	updateRepo := repository.NewAirtableUpdateRepository(client)

	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessionService)
	accountService := service.NewAccountService(accountRepo, projectRepo, sessionService)
	projectService := service.NewProjectService(projectRepo, updateRepo, sessionService, loc)
	updateService := service.NewUpdateService(updateRepo, projectRepo, sessionService, loc)

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)

	h := handler.New(checks, cfg.FrontendURL)
	authHandler := handler.NewAuthHandler(authService, sessionService, handler.AuthConfig{
		SessionSecret: sessionSecret,
		CookieSecure:  cfg.CookieSecure,
	})
	accountHandler := handler.NewAccountHandler(accountService)
	projectHandler := handler.NewProjectHandler(projectService)
	updateHandler := handler.NewUpdateHandler(updateService)

	loginLimiter := handler.NewRateLimiter(cfg.LoginRateLimit)
	defer loginLimiter.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// 認証必要エンドポイント
	requireSession := auth.RequireSession(sessionSecret, sessionService)
	mux.Handle("GET /api/me", requireSession(http.HandlerFunc(authHandler.Me)))

	mux.Handle("GET /api/accounts", requireSession(http.HandlerFunc(accountHandler.List)))
	mux.Handle("POST /api/accounts", requireSession(http.HandlerFunc(accountHandler.Create)))
	mux.Handle("GET /api/accounts/{id}", requireSession(http.HandlerFunc(accountHandler.Get)))

	mux.Handle("GET /api/projects", requireSession(http.HandlerFunc(projectHandler.List)))
	mux.Handle("POST /api/projects", requireSession(http.HandlerFunc(projectHandler.Create)))
	mux.Handle("GET /api/projects/{id}", requireSession(http.HandlerFunc(projectHandler.Get)))
	mux.Handle("POST /api/projects/{id}/updates", requireSession(http.HandlerFunc(updateHandler.CreateForProject)))

	mux.Handle("GET /api/updates", requireSession(http.HandlerFunc(updateHandler.List)))
	mux.Handle("POST /api/updates", requireSession(http.HandlerFunc(updateHandler.Create)))
	mux.Handle("GET /api/updates/{id}", requireSession(http.HandlerFunc(updateHandler.Get)))
	mux.Handle("DELETE /api/updates/{id}", requireSession(http.HandlerFunc(updateHandler.Delete)))
	mux.Handle("GET /api/daily-updates", requireSession(http.HandlerFunc(updateHandler.Daily)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Recoverer(middleware.RequestID(handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
