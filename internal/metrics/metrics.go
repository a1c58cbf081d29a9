// Package metrics holds the Prometheus collectors of the pipeline. Collectors
// register with the default registry on package init; record through the
// helper functions so label values stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Queue
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_enqueued_total",
			Help: "Webhook jobs inserted into the queue",
		},
		[]string{"category"},
	)

	JobsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_duplicate_total",
			Help: "Enqueue calls dropped because the idempotency key already existed",
		},
	)

	JobsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_claimed_total",
			Help: "Jobs moved from pending to processing",
		},
	)

	JobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_completed_total",
			Help: "Jobs completed, by outcome (processed, discarded)",
		},
		[]string{"outcome"},
	)

	JobsRetried = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_retried_total",
			Help: "Failed attempts rescheduled with backoff",
		},
	)

	JobsAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_abandoned_total",
			Help: "Jobs marked failed after exhausting retries",
		},
	)

	JobsReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_reclaimed_total",
			Help: "Stale processing jobs released by the reclaimer",
		},
	)

	JobsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_jobs_swept_total",
			Help: "Terminal jobs deleted by the retention sweep",
		},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storewatch_job_duration_seconds",
			Help:    "Time spent handling one job",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storewatch_queue_jobs",
			Help: "Jobs in the queue by status",
		},
		[]string{"status"},
	)

	// Detection
	EventsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_events_created_total",
			Help: "Change events written",
		},
		[]string{"event_type", "importance"},
	)

	EventsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_events_suppressed_total",
			Help: "Detected changes not written, by reason (plan, dedup)",
		},
		[]string{"reason"},
	)

	InventoryPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storewatch_inventory_pages",
			Help:    "Inventory level pages fetched per aggregation",
			Buckets: []float64{1, 2, 3, 5, 10, 20},
		},
	)

	InventoryTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_inventory_truncated_total",
			Help: "Aggregations that hit the page cap",
		},
	)

	// Catalog API
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_catalog_requests_total",
			Help: "Requests to the catalog platform API",
		},
		[]string{"operation", "result"},
	)

	CatalogDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storewatch_catalog_request_duration_seconds",
			Help:    "Catalog platform API latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Intake
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storewatch_webhooks_received_total",
			Help: "Webhook deliveries by result (queued, duplicate, ignored, rejected, error)",
		},
		[]string{"result"},
	)

	// Digest
	DigestEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storewatch_digest_events_total",
			Help: "Events handed off in digests",
		},
	)
)

// RecordEnqueue counts an enqueue attempt.
func RecordEnqueue(category string, created bool) {
	if created {
		JobsEnqueued.WithLabelValues(category).Inc()
		return
	}
	JobsDuplicate.Inc()
}

// RecordJob observes a handled job.
func RecordJob(category string, d time.Duration) {
	JobDuration.WithLabelValues(category).Observe(d.Seconds())
}

// RecordEvent counts a written change event.
func RecordEvent(eventType, importance string) {
	EventsCreated.WithLabelValues(eventType, importance).Inc()
}

// RecordSuppressed counts a change that produced no event.
func RecordSuppressed(reason string) {
	EventsSuppressed.WithLabelValues(reason).Inc()
}

// RecordCatalogRequest observes one catalog API call.
func RecordCatalogRequest(operation string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CatalogRequests.WithLabelValues(operation, result).Inc()
	CatalogDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordAggregation observes an inventory aggregation.
func RecordAggregation(pages int, truncated bool) {
	InventoryPages.Observe(float64(pages))
	if truncated {
		InventoryTruncated.Inc()
	}
}

// SetQueueDepth publishes queue counts by status.
func SetQueueDepth(pending, processing, completed, failed int) {
	QueueDepth.WithLabelValues("pending").Set(float64(pending))
	QueueDepth.WithLabelValues("processing").Set(float64(processing))
	QueueDepth.WithLabelValues("completed").Set(float64(completed))
	QueueDepth.WithLabelValues("failed").Set(float64(failed))
}
