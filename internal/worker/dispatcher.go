package worker

import (
	"context"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/config"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/metrics"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const popErrorPause = time.Second

// Dispatcher leert die Delivery-Queue mit mehreren Workern und übergibt die Jobs dem Mail-Transport.
// Ein Job wird erst nach SENT bestätigt; bricht der Prozess vorher ab, holt Reclaim ihn zurück.
type Dispatcher struct {
	queue     queue.DeliveryQueue
	cache     cache.InvitationCache
	transport mail.Transport

	workers        int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func NewDispatcher(cfg *config.AppConfig, q queue.DeliveryQueue, c cache.InvitationCache, t mail.Transport) *Dispatcher {
	d := &Dispatcher{
		queue:          q,
		cache:          c,
		transport:      t,
		workers:        cfg.DISPATCHER.Workers,
		maxAttempts:    cfg.DISPATCHER.MaxAttempts,
		initialBackoff: cfg.DISPATCHER.InitialBackoff,
		maxBackoff:     cfg.DISPATCHER.MaxBackoff,
	}
	if d.workers <= 0 {
		d.workers = 1
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = 5
	}
	if d.initialBackoff <= 0 {
		d.initialBackoff = 500 * time.Millisecond
	}
	if d.maxBackoff < d.initialBackoff {
		d.maxBackoff = 30 * time.Second
	}
	return d
}

// Run blockiert, bis ctx beendet ist. Laufende Jobs werden noch zu Ende gebracht.
func (d *Dispatcher) Run(ctx context.Context) error {
	log.Info().Int("workers", d.workers).Int("max_attempts", d.maxAttempts).Msg("Dispatcher started")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		workerID := i
		g.Go(func() error {
			return d.work(ctx, workerID)
		})
	}

	err := g.Wait()
	log.Info().Msg("Dispatcher stopped")
	return err
}

func (d *Dispatcher) work(ctx context.Context, workerID int) error {
	for {
		delivery, err := d.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Int("worker", workerID).Msg("Dispatcher: pop failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(popErrorPause):
			}
			continue
		}

		// Einmal entnommen läuft der Job bis SENT oder FAILED, auch beim Shutdown.
		d.Process(context.WithoutCancel(ctx), delivery)
	}
}

// Process führt einen Job durch QUEUED -> SENDING -> {SENT | FAILED}.
func (d *Dispatcher) Process(ctx context.Context, delivery *queue.Delivery) entity.DeliveryState {
	job := delivery.Job
	kind := string(job.Kind)
	logger := log.With().Str("job_id", job.ID).Str("kind", kind).Str("token", job.Token).Logger()
	logger.Debug().Str("state", string(entity.SENDING)).Dur("queued_for", time.Since(job.EnqueuedAt)).Msg("Delivery state changed")

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		if err := d.queue.Touch(ctx, delivery); err != nil {
			logger.Warn().Err(err).Msg("Could not extend lease")
		}

		err := d.transport.Send(ctx, mail.Envelope{
			To:       job.Recipient,
			Subject:  job.Subject,
			HTMLBody: job.Content,
		})
		if err != nil && mail.IsPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(d.newBackOff()),
		backoff.WithMaxTries(uint(d.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.DeliveryRetries.WithLabelValues(kind).Inc()
			logger.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", next).Msg("Transient send failure, retrying")
		}),
	)

	if err == nil {
		if ackErr := d.queue.Ack(ctx, delivery); ackErr != nil {
			// Job bleibt in processing und wird nach dem Visibility-Timeout erneut zugestellt.
			logger.Error().Err(ackErr).Msg("Ack failed after successful send")
		}
		metrics.DeliveriesSent.WithLabelValues(kind).Inc()
		logger.Info().Str("state", string(entity.SENT)).Int("attempts", attempts).Msg("Delivery state changed")
		return entity.SENT
	}

	reason := mail.FailureReason(err)
	logger.Error().Err(err).Str("state", string(entity.DELIVERY_FAILED)).Str("reason", reason).Int("attempts", attempts).Msg("Delivery state changed")

	if dlErr := d.queue.DeadLetter(ctx, delivery, reason, attempts); dlErr != nil {
		logger.Error().Err(dlErr).Msg("Could not move job to dead letters")
	}
	metrics.DeadLettered.WithLabelValues(kind, reason).Inc()

	if job.Kind == entity.DeliveryInvitation && job.Token != "" {
		found, setErr := d.cache.SetStatus(ctx, job.Token, entity.FAILED)
		switch {
		case setErr != nil:
			logger.Error().Err(setErr).Msg("Could not mark invitation as FAILED")
		case !found:
			logger.Info().Msg("Invitation already gone, status not updated")
		}
	}
	return entity.DELIVERY_FAILED
}

func (d *Dispatcher) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialBackoff
	b.MaxInterval = d.maxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	return b
}
