package worker_handler

import (
	"context"

	"github.com/Xenn-00/organisation-meister/internal/metrics"
	worker_task "github.com/Xenn-00/organisation-meister/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ReclaimDeliveries legt Jobs zurück, die ein abgestürzter Worker nie bestätigt hat,
// und aktualisiert die Queue-Tiefe.
func (wh *WorkerHandler) ReclaimDeliveries() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p worker_task.ReclaimDeliveriesPayload
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &p); err != nil {
				log.Error().Err(err).Msg("Worker handler: Error occured when trying to unmarshal task payload.")
				return err
			}
		}

		olderThan := wh.visibilityTimeout
		if p.OlderThan > 0 {
			olderThan = p.OlderThan
		}

		n, err := wh.queue.Reclaim(ctx, olderThan)
		if err != nil {
			log.Error().Err(err).Msg("Worker handler: Reclaim failed")
			return err
		}
		if n > 0 {
			metrics.Reclaimed.Add(float64(n))
			log.Info().Int("reclaimed", n).Str("trigger", p.Trigger).Msg("Worker handler: Requeued unacknowledged deliveries")
		}

		depth, err := wh.queue.Len(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Worker handler: Could not read queue depth")
			return nil
		}
		metrics.QueueDepth.Set(float64(depth))
		return nil
	}
}
