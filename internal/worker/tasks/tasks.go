package worker_task

import "time"

// TaskReclaimDeliveries holt Jobs aus invitation:queue:processing zurück, deren Lease abgelaufen ist,
// und aktualisiert dabei die Queue-Metriken.
const TaskReclaimDeliveries = "low:reclaim_deliveries"

type ReclaimDeliveriesPayload struct {
	// Trigger ist "cron" oder "startup", nur für Logs.
	Trigger     string        `json:"trigger"`
	RequestedAt time.Time     `json:"requested_at"`
	OlderThan   time.Duration `json:"older_than,omitempty"`
}
