package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	quotesComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "quotes",
			Name:      "computed_total",
			Help:      "Total number of quote computations by result",
		},
		[]string{"result"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total number of orders created",
		},
	)

	stageTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "orders",
			Name:      "stage_transitions_total",
			Help:      "Total number of stage transitions by target stage",
		},
		[]string{"stage"},
	)

	assignmentResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "assignments",
			Name:      "responses_total",
			Help:      "Total number of assignment responses by outcome",
		},
		[]string{"outcome"},
	)

	certificationsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "certifications",
			Name:      "issued_total",
			Help:      "Total number of certifications issued",
		},
	)

	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "certifications",
			Name:      "verifications_total",
			Help:      "Total number of certification verifications by result",
		},
		[]string{"result"},
	)
)

var (
	paymentEventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "kafka_consumer",
			Name:      "payment_events_total",
			Help:      "Total number of processed payment events by status",
		},
		[]string{"status"},
	)

	paymentEventsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "kafka_consumer",
			Name:      "payment_events_failed_total",
			Help:      "Total number of failed payment event handling attempts",
		},
	)

	paymentEventsDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "translation_orders",
			Subsystem: "kafka_consumer",
			Name:      "payment_events_dlq_total",
			Help:      "Total number of payment events written to DLQ",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		quotesComputed,
		ordersCreated,
		stageTransitions,
		assignmentResponses,
		certificationsIssued,
		verifications,

		paymentEventsProcessed,
		paymentEventsFailed,
		paymentEventsDLQ,
	)
}
