package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/config"
	"github.com/Xenn-00/organisation-meister/internal/db"
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	"github.com/Xenn-00/organisation-meister/internal/worker"
	worker_handler "github.com/Xenn-00/organisation-meister/internal/worker/handlers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.LoadConfig()
	if cfg == nil {
		log.Fatal().Msg("Konfiguration fehlt oder ist ungültig")
	}
	if lvl, err := zerolog.ParseLevel(cfg.APP.LogLevel); err == nil && cfg.APP.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}

	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, cfg.DATABASE.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis nicht erreichbar")
	}
	defer redisPool.Close()

	deliveryQueue := queue.NewRedisDeliveryQueue(redisPool, cfg.DISPATCHER.BlockTimeout)
	dispatcher := worker.NewDispatcher(
		cfg,
		deliveryQueue,
		cache.NewRedisInvitationCache(redisPool),
		mail.NewMailer(cfg),
	)
	handler := worker_handler.NewWorkerHandler(deliveryQueue, cfg.DISPATCHER.VisibilityTimeout)

	// Zustellungen eines abgestürzten Vorgängers sofort zurückholen, nicht erst beim nächsten Cron-Lauf
	if err := queue.NewMaintenanceClient(redisPool).EnqueueReclaim("startup", cfg.DISPATCHER.VisibilityTimeout); err != nil {
		log.Warn().Err(err).Msg("reclaim task could not be enqueued at startup")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("workers", cfg.DISPATCHER.Workers).Msg("Starting worker server...")
	if err := worker.RunWorker(ctx, redisPool, dispatcher, handler, worker.RunOptions{
		ReclaimSpec: cfg.DISPATCHER.ReclaimSpec,
		MetricsAddr: cfg.DISPATCHER.MetricsAddr,
	}); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("worker crashed")
		stop()
		redisPool.Close()
		os.Exit(1)
	}
	log.Info().Msg("worker shutdown complete")
}
