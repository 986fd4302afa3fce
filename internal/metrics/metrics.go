// Package metrics enthält die Delivery-Metriken, registriert in der Default-Registry von Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveriesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organisation_meister",
		Subsystem: "delivery",
		Name:      "sent_total",
		Help:      "The total number of emails handed to the mail transport",
	}, []string{"kind"})

	DeliveryRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organisation_meister",
		Subsystem: "delivery",
		Name:      "retries_total",
		Help:      "The total number of transient send failures that were retried",
	}, []string{"kind"})

	DeadLettered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organisation_meister",
		Subsystem: "delivery",
		Name:      "dead_lettered_total",
		Help:      "The total number of jobs moved to the dead-letter sink",
	}, []string{"kind", "reason"})

	Reclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "organisation_meister",
		Subsystem: "delivery",
		Name:      "reclaimed_total",
		Help:      "The total number of unacknowledged jobs returned to the queue",
	})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "organisation_meister",
		Subsystem: "delivery",
		Name:      "queue_depth",
		Help:      "Number of jobs waiting in invitation:queue",
	})
)
