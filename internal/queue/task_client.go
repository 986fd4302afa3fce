package queue

import (
	"errors"
	"time"

	worker_task "github.com/Xenn-00/organisation-meister/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaintenanceClientContract reiht Wartungsaufgaben für den Worker-Prozess ein.
type MaintenanceClientContract interface {
	EnqueueReclaim(trigger string, olderThan time.Duration) error
}

// MaintenanceClient teilt sich die Redis-Verbindung mit dem Aufrufer und wird daher nicht separat geschlossen.
type MaintenanceClient struct {
	client *asynq.Client
}

func NewMaintenanceClient(redis *redis.Client) *MaintenanceClient {
	return &MaintenanceClient{
		client: asynq.NewClientFromRedisClient(redis),
	}
}

// EnqueueReclaim ist dedupliziert: solange ein Reclaim aussteht, wird kein zweiter eingereiht.
func (c *MaintenanceClient) EnqueueReclaim(trigger string, olderThan time.Duration) error {
	p, err := json.Marshal(worker_task.ReclaimDeliveriesPayload{
		Trigger:     trigger,
		RequestedAt: time.Now().UTC(),
		OlderThan:   olderThan,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(worker_task.TaskReclaimDeliveries, p, asynq.Queue("low"), asynq.MaxRetry(3), asynq.Unique(time.Minute))
	if _, err := c.client.Enqueue(task); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			log.Debug().Str("trigger", trigger).Msg("Reclaim already pending, skipping.")
			return nil
		}
		return err
	}
	log.Info().Str("trigger", trigger).Msg("Reclaim task enqueued.")
	return nil
}
