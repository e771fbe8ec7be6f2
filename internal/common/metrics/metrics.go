// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_pages_fetched_total",
			Help: "Total number of source pages fetched successfully",
		},
	)

	ItemsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_items_extracted_total",
			Help: "Total number of source items extracted",
		},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_deliveries_total",
			Help: "Total number of delivered items by outcome status",
		},
		[]string{"status"},
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "pipeline_delivery_duration_seconds",
			Help: "Duration of a single item delivery including retries",
		},
	)

	WebhookDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_dispatches_total",
			Help: "Total number of webhook posts by event type and result",
		},
		[]string{"event_type", "result"},
	)

	EventQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_queue_depth",
			Help: "Number of events waiting for webhook dispatch",
		},
	)

	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_queue_dropped_total",
			Help: "Events dropped because the dispatch queue was full or closed",
		},
	)
)
