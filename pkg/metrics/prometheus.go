// Package metrics provides Prometheus metrics for the alumnet career service.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine
	scoresComputed    *prometheus.CounterVec
	scoreValue        *prometheus.HistogramVec
	extractions       *prometheus.CounterVec
	extractionLatency prometheus.Histogram
	extractedItems    *prometheus.CounterVec
	badgesAwarded     *prometheus.CounterVec
	historyAppends    prometheus.Counter

	// Boards
	referralApplications *prometheus.CounterVec
	sessionBookings      *prometheus.CounterVec
	leaderboardSize      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec
	idempotentReplays   prometheus.Counter

	// Queue
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueued   prometheus.Counter
	queueDequeued   prometheus.Counter
	queueDropped    prometheus.Counter
	queueWaitMillis prometheus.Histogram

	// Workers and sinks
	workerCount          prometheus.Gauge
	workerActive         prometheus.Gauge
	workerLatency        prometheus.Histogram
	notificationsSent    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec

	// Realtime
	onlineUsers      prometheus.Gauge
	realtimeMessages *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "alumnet",
		subsystem:        "career",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: m.customLabels,
		Buckets: buckets,
	}, labels)
}

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

func (m *Manager) initializeMetrics() {
	m.scoresComputed = m.counterVec("scores_computed_total", "Scores computed by kind", "kind")
	m.scoreValue = m.histogramVec("score_value", "Distribution of computed scores by kind", scoreBuckets, "kind")
	m.extractions = m.counterVec("cv_extractions_total", "Résumé extractions by outcome", "outcome")
	m.extractionLatency = m.histogram("cv_extraction_latency_milliseconds", "Résumé parse latency in milliseconds", m.histogramBuckets)
	m.extractedItems = m.counterVec("cv_extracted_items_total", "Items extracted from résumés by section", "section")
	m.badgesAwarded = m.counterVec("badges_awarded_total", "Badges awarded by name", "badge")
	m.historyAppends = m.counter("score_history_appends_total", "Daily score history entries appended")

	m.referralApplications = m.counterVec("referral_applications_total", "Referral applications by outcome", "outcome")
	m.sessionBookings = m.counterVec("session_bookings_total", "Session bookings by outcome", "outcome")
	m.leaderboardSize = m.gauge("leaderboard_size", "Students tracked on the leaderboard")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")
	m.rateLimited = m.counterVec("rate_limited_total", "Requests rejected by the rate limiter", "endpoint")
	m.idempotentReplays = m.counter("idempotent_replays_total", "Mutating requests short-circuited by an idempotency key")

	m.queueSize = m.gauge("queue_size", "Notifications waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Notification queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Notifications enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Notifications dequeued")
	m.queueDropped = m.counter("queue_dropped_total", "Notifications dropped on a full queue")
	m.queueWaitMillis = m.histogram("queue_wait_milliseconds", "Time notifications spend queued", m.histogramBuckets)

	m.workerCount = m.gauge("worker_count", "Notification workers started")
	m.workerActive = m.gauge("worker_active", "Notification workers currently dispatching")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Notification dispatch latency", m.histogramBuckets)
	m.notificationsSent = m.counterVec("notifications_sent_total", "Notifications delivered by sink and kind", "sink", "kind")
	m.notificationFailures = m.counterVec("notification_failures_total", "Notification delivery failures by sink", "sink")

	m.onlineUsers = m.gauge("online_users", "Users with an open realtime connection")
	m.realtimeMessages = m.counterVec("realtime_messages_total", "Realtime relay messages by event", "event")

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Document store latency by operation", m.histogramBuckets, "op")
	m.storeErrors = m.counterVec("store_errors_total", "Document store errors by operation", "op")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

func on() bool { return globalManager != nil && globalManager.enabled }

// RecordScore counts one computed score of kind and observes its value.
func RecordScore(kind string, value int) {
	if !on() {
		return
	}
	globalManager.scoresComputed.WithLabelValues(kind).Inc()
	globalManager.scoreValue.WithLabelValues(kind).Observe(float64(value))
}

// RecordExtraction records a résumé parse outcome and its latency.
func RecordExtraction(outcome string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.extractions.WithLabelValues(outcome).Inc()
	globalManager.extractionLatency.Observe(latencyMs)
}

// RecordExtractedItems adds n items extracted for section.
func RecordExtractedItems(section string, n int) {
	if !on() || n <= 0 {
		return
	}
	globalManager.extractedItems.WithLabelValues(section).Add(float64(n))
}

// RecordBadgeAwarded counts an awarded badge.
func RecordBadgeAwarded(badge string) {
	if !on() {
		return
	}
	globalManager.badgesAwarded.WithLabelValues(badge).Inc()
}

// RecordHistoryAppend counts an appended history entry.
func RecordHistoryAppend() {
	if !on() {
		return
	}
	globalManager.historyAppends.Inc()
}

// RecordReferralApplication counts a referral application by outcome.
func RecordReferralApplication(outcome string) {
	if !on() {
		return
	}
	globalManager.referralApplications.WithLabelValues(outcome).Inc()
}

// RecordSessionBooking counts a session booking by outcome.
func RecordSessionBooking(outcome string) {
	if !on() {
		return
	}
	globalManager.sessionBookings.WithLabelValues(outcome).Inc()
}

// UpdateLeaderboardSize sets the number of ranked students.
func UpdateLeaderboardSize(n int) {
	if !on() {
		return
	}
	globalManager.leaderboardSize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !on() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !on() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	if !on() {
		return
	}
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordIdempotentReplay counts a replayed mutating request.
func RecordIdempotentReplay() {
	if !on() {
		return
	}
	globalManager.idempotentReplays.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if !on() {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !on() {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if !on() {
		return
	}
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter and observes queue wait.
func RecordQueueDequeue(waitMs float64) {
	if !on() {
		return
	}
	globalManager.queueDequeued.Inc()
	globalManager.queueWaitMillis.Observe(waitMs)
}

// RecordQueueDropped counts a notification dropped on backpressure.
func RecordQueueDropped() {
	if !on() {
		return
	}
	globalManager.queueDropped.Inc()
}

// UpdateWorkerCount sets the number of started workers.
func UpdateWorkerCount(count int) {
	if !on() {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount adjusts the number of busy workers by delta.
func UpdateWorkerActiveCount(delta int) {
	if !on() {
		return
	}
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerProcessingLatency records notification dispatch latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !on() {
		return
	}
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordNotificationSent counts a delivered notification.
func RecordNotificationSent(sink, kind string) {
	if !on() {
		return
	}
	globalManager.notificationsSent.WithLabelValues(sink, kind).Inc()
}

// RecordNotificationFailure counts a failed delivery.
func RecordNotificationFailure(sink string) {
	if !on() {
		return
	}
	globalManager.notificationFailures.WithLabelValues(sink).Inc()
}

// UpdateOnlineUsers sets the number of connected users.
func UpdateOnlineUsers(n int) {
	if !on() {
		return
	}
	globalManager.onlineUsers.Set(float64(n))
}

// RecordRealtimeMessage counts a relayed realtime event.
func RecordRealtimeMessage(event string) {
	if !on() {
		return
	}
	globalManager.realtimeMessages.WithLabelValues(event).Inc()
}

// RecordStoreLatency records a document store operation latency.
func RecordStoreLatency(op string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed document store operation.
func RecordStoreError(op string) {
	if !on() {
		return
	}
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !on() {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMetrics samples memory and goroutine gauges.
func UpdateSystemMetrics() {
	if !on() {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// SetEnabled turns recording on or off for the global manager.
func SetEnabled(enabled bool) {
	if globalManager != nil {
		globalManager.enabled = enabled
	}
}

// RefreshInterval is how often callers should sample system gauges.
func RefreshInterval() time.Duration {
	if globalManager == nil {
		return defaultRefreshInterval
	}
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
