package worker_handler

import (
	"time"

	"github.com/Xenn-00/organisation-meister/internal/queue"
)

type WorkerHandler struct {
	queue             queue.DeliveryQueue
	visibilityTimeout time.Duration
}

func NewWorkerHandler(q queue.DeliveryQueue, visibilityTimeout time.Duration) *WorkerHandler {
	if visibilityTimeout <= 0 {
		visibilityTimeout = 5 * time.Minute
	}
	return &WorkerHandler{
		queue:             q,
		visibilityTimeout: visibilityTimeout,
	}
}
