// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-dns-assistant/internal/application"
	"telegram-dns-assistant/internal/config"
	"telegram-dns-assistant/internal/domain/ports/adapter"
	aiAdapters "telegram-dns-assistant/internal/infra/adapters/ai"
	tele "telegram-dns-assistant/internal/infra/adapters/telegram"
	"telegram-dns-assistant/internal/infra/adapters/ultradns"
	pg "telegram-dns-assistant/internal/infra/db/postgres"
	"telegram-dns-assistant/internal/infra/logging"
	"telegram-dns-assistant/internal/infra/metrics"
	red "telegram-dns-assistant/internal/infra/redis"
	"telegram-dns-assistant/internal/infra/web"
	"telegram-dns-assistant/internal/infra/worker"
	"telegram-dns-assistant/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	recordRepo := pg.NewAnalysisRecordRepo(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	payloadCache := red.NewPayloadCache(redisClient, cfg.Redis.TTL)

	// ---- Assistants ----
	assistant, err := aiAdapters.NewOpenAIAssistantAdapter(cfg.AI.OpenAIKey, logger)
	if err != nil {
		log.Fatalf("openai adapter: %v", err)
	}
	registry := usecase.NewAssistantRegistry(cfg.AI.Assistants)

	// ---- Use cases ----
	analysisUC := usecase.NewAnalysisUseCase(assistant, registry, payloadCache, logger)

	batchPool := worker.NewPool(cfg.Batch.Workers)
	batchPool.Start(ctx)
	defer batchPool.Stop()
	batchUC := usecase.NewBatchUseCase(batchPool, logger)

	// One UltraDNS session per command invocation.
	newProvider := func(ctx context.Context) (adapter.ZoneDataProvider, error) {
		return ultradns.NewClient(ctx, &cfg.UltraDNS, logger)
	}

	// ---- Facade ----
	facade := application.NewBotFacade(analysisUC, batchUC, recordRepo, newProvider, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil {
			logger.Info().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin server ----
	auth := web.NewAuthManager(cfg.Admin.Secret, cfg.Admin.APIKey, 30*time.Minute)
	adminSrv := web.NewServer(recordRepo, auth, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminSrv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	botAdapter.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
