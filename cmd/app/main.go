package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-aroma-oracle/internal/application"
	"telegram-aroma-oracle/internal/config"
	"telegram-aroma-oracle/internal/domain/ports/adapter"
	tele "telegram-aroma-oracle/internal/infra/adapters/telegram"
	catalogload "telegram-aroma-oracle/internal/infra/catalog"
	pg "telegram-aroma-oracle/internal/infra/db/postgres"
	"telegram-aroma-oracle/internal/infra/logging"
	"telegram-aroma-oracle/internal/infra/metrics"
	red "telegram-aroma-oracle/internal/infra/redis"
	"telegram-aroma-oracle/internal/infra/web"
	"telegram-aroma-oracle/internal/usecase"
)

// telegramBot is what cmd/app needs from either bot adapter.
type telegramBot interface {
	adapter.TelegramBotAdapter
	StartPolling(ctx context.Context) error
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop-friendly)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Content catalog (startup-fatal when missing or empty) ----
	catalog, err := catalogload.LoadFile(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	logger.Info().Int("oils", catalog.Len()).Str("path", cfg.Catalog.Path).Msg("catalog loaded")

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Metrics ----
	metrics.MustRegister()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	savedRepo := pg.NewPostgresSavedOilRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, tm, logger)
	drawUC := usecase.NewDrawUseCase(userRepo, tm, catalog, logger)
	savedUC := usecase.NewSavedOilUseCase(userRepo, savedRepo, catalog, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, savedRepo, catalog, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(userUC, drawUC, savedUC, cfg.Oracle.SavedListLimit)

	// ---- Telegram ----
	var botAdapter telegramBot
	if cfg.Runtime.Dev && cfg.Bot.Token == "" {
		logger.Warn().Msg("no bot token configured; using noop telegram adapter")
		botAdapter = tele.NewNoopBotAdapter()
	} else {
		real, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, cfg.Bot.Workers, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		if strings.ToLower(cfg.Bot.Mode) != "polling" {
			logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
		}
		botAdapter = real
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- HTTP server (health, metrics, admin stats) ----
	srv := web.NewServer(statsUC, cfg.HTTP.AdminKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTP.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
