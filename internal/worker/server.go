package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	worker_handler "github.com/Xenn-00/organisation-meister/internal/worker/handlers"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type RunOptions struct {
	ReclaimSpec string
	MetricsAddr string
}

// RunWorker startet Dispatcher, Wartungs-Server, Scheduler und Stats-Server und blockiert bis ctx endet.
func RunWorker(ctx context.Context, redis *redis.Client, dispatcher *Dispatcher, handler *worker_handler.WorkerHandler, opts RunOptions) error {
	srv := NewMaintenanceServer(redis)
	scheduler := NewScheduler(redis)

	mux := asynq.NewServeMux()
	RegisterWorkerHandlers(mux, handler)

	if err := RegisterCronJobs(scheduler, opts.ReclaimSpec); err != nil {
		return fmt.Errorf("failed to register scheduler: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("scheduler start: %w", err)
	}
	if err := srv.Start(mux); err != nil {
		scheduler.Shutdown()
		return fmt.Errorf("maintenance server start: %w", err)
	}

	var stats *StatsServer
	if opts.MetricsAddr != "" {
		stats = NewStatsServer(opts.MetricsAddr)
		go func() {
			log.Info().Str("addr", opts.MetricsAddr).Msg("stats server listening")
			if err := stats.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("stats server error")
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})

	<-gctx.Done()
	log.Info().Msg("shutting down worker...")

	err := g.Wait()

	scheduler.Shutdown()
	srv.Shutdown()
	if stats != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = stats.Shutdown(shutdownCtx)
	}

	return err
}
