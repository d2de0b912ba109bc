package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirei/backend/internal/config"
	"github.com/kirei/backend/internal/handler"
	"github.com/kirei/backend/internal/logging"
	"github.com/kirei/backend/internal/metrics"
	"github.com/kirei/backend/internal/ratelimit"
	"github.com/kirei/backend/internal/repository"
	"github.com/kirei/backend/internal/service"
	"github.com/kirei/backend/pkg/auth"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	// 初回起動でも手動マイグレーション不要にするための遅延スキーマ作成。
	// 失敗してもリクエスト時に再試行されるため警告に留める。
	if err := repository.EnsureSchema(context.Background(), pool); err != nil {
		slog.Warn("schema initialization failed; will retry lazily", "error", err)
	}

	messageRepo := repository.NewPgMessageRepository(pool)
	messageService := service.NewMessageService(messageRepo)
	exportService := service.NewExportService(messageRepo)
	authService := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash)

	limiter := ratelimit.NewLoginLimiter()
	defer limiter.Stop()

	throttle := handler.NewContactThrottle(cfg.ContactRatePerMin, cfg.ContactBurst, cfg.TrustedProxies)
	defer throttle.Stop()

	collector := metrics.NewCollector(prometheus.NewRegistry())

	h := handler.New(pool, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(messageService, collector, cfg.TrustedProxies)
	messageHandler := handler.NewMessageHandler(messageService)
	exportHandler := handler.NewExportHandler(exportService, collector)
	statsHandler := handler.NewStatsHandler(messageService)
	authHandler := handler.NewAuthHandler(authService, limiter, collector, handler.AuthConfig{
		SessionSecret:  cfg.SessionSecret,
		CookieSecure:   cfg.CookieSecure,
		TrustedProxies: cfg.TrustedProxies,
	})

	sessionSecret := auth.SessionSecretBytes(cfg.SessionSecret)
	requireAuth := auth.RequireAuth(sessionSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", collector.Handler())

	// 公開エンドポイント（問い合わせフォームは IP 単位でスロットル）
	mux.Handle("POST /contact", throttle.Middleware(http.HandlerFunc(contactHandler.Submit)))

	// ログインは公開だが試行回数制限つき。GET はセッションプローブ
	mux.HandleFunc("POST /admin/login", authHandler.Login)
	mux.HandleFunc("GET /admin/login", authHandler.Session)
	mux.HandleFunc("DELETE /admin/login", authHandler.Logout)

	// 管理エンドポイント（セッション必須）
	mux.Handle("GET /admin/messages", requireAuth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("PATCH /admin/messages", requireAuth(http.HandlerFunc(messageHandler.UpdateStatus)))
	mux.Handle("DELETE /admin/messages", requireAuth(http.HandlerFunc(messageHandler.Delete)))
	mux.Handle("GET /admin/export", requireAuth(http.HandlerFunc(exportHandler.Export)))
	mux.Handle("GET /admin/stats", requireAuth(http.HandlerFunc(statsHandler.Stats)))

	chain := h.CORS(handler.SecurityHeaders(collector.Middleware(handler.RequestLogger(mux))))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      chain,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
