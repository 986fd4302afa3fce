package worker

import (
	"fmt"

	worker_handler "github.com/Xenn-00/organisation-meister/internal/worker/handlers"
	worker_task "github.com/Xenn-00/organisation-meister/internal/worker/tasks"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func RegisterWorkerHandlers(mux *asynq.ServeMux, h *worker_handler.WorkerHandler) {
	mux.HandleFunc(worker_task.TaskReclaimDeliveries, h.ReclaimDeliveries())
}

func RegisterCronJobs(s *asynq.Scheduler, reclaimSpec string) error {
	if reclaimSpec == "" {
		reclaimSpec = "*/1 * * * *"
	}

	jobs := []struct {
		spec  string
		task  *asynq.Task
		queue string
		desc  string
	}{
		{
			spec:  reclaimSpec,
			task:  asynq.NewTask(worker_task.TaskReclaimDeliveries, []byte(`{"trigger":"cron"}`)),
			queue: "low",
			desc:  "reclaim unacknowledged deliveries",
		},
	}

	for _, job := range jobs {
		if _, err := s.Register(job.spec, job.task, asynq.Queue(job.queue)); err != nil {
			return fmt.Errorf("register %s failed: %w", job.desc, err)
		}
		log.Info().Msgf("scheduled: %s (%s)", job.desc, job.spec)
	}

	return nil
}
