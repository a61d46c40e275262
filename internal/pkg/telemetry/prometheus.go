package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for HTTP requests
var (
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Prometheus metrics for ledger operations
var (
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transactions_total",
			Help: "Total number of processed ledger events",
		},
		[]string{"type", "result"}, // type: deposit..chargeback; result: accepted or an error code
	)

	TransactionAmountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_transaction_amount",
			Help:    "Distribution of accepted deposit/withdrawal amounts",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	ActiveAccountsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_accounts_active_total",
			Help: "Current number of accounts known to the engine",
		},
	)

	ClaimedTransactionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_transactions_claimed_total",
			Help: "Transaction IDs claimed by the deduplication registry",
		},
	)

	AccountsLockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_accounts_locked_total",
			Help: "Accounts frozen by a chargeback",
		},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_events_dropped_total",
			Help: "Outbound events dropped before reaching the broker",
		},
		[]string{"reason"},
	)

	EventPublishingErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_event_publishing_errors_total",
			Help: "Errors returned by the event broker",
		},
		[]string{"reason"},
	)
)

// System metrics
var (
	GoroutinesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "go_goroutines_current",
			Help: "Current number of goroutines",
		},
	)

	MemoryUsageGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "go_memory_usage_bytes",
			Help: "Memory usage in bytes",
		},
		[]string{"type"}, // type: heap, stack, sys
	)

	UptimeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "application_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

var startTime = time.Now()

// UpdateSystemMetrics refreshes runtime-level gauges.
func UpdateSystemMetrics() {
	GoroutinesGauge.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsageGauge.WithLabelValues("heap").Set(float64(m.HeapInuse))
	MemoryUsageGauge.WithLabelValues("stack").Set(float64(m.StackInuse))
	MemoryUsageGauge.WithLabelValues("sys").Set(float64(m.Sys))

	UptimeGauge.Set(time.Since(startTime).Seconds())
}

// RecordTransaction records the outcome of one processed event.
// result is "accepted" or the taxonomy error code.
func RecordTransaction(eventType, result string) {
	TransactionsTotal.WithLabelValues(eventType, result).Inc()
}

// RecordTransactionAmount records an accepted monetary amount for
// distribution analysis.
func RecordTransactionAmount(amount float64) {
	TransactionAmountHistogram.Observe(amount)
}

// UpdateEngineGauges refreshes engine population gauges.
func UpdateEngineGauges(accounts, claimed float64) {
	ActiveAccountsGauge.Set(accounts)
	ClaimedTransactionsGauge.Set(claimed)
}

// RecordAccountLocked counts a chargeback freeze.
func RecordAccountLocked() {
	AccountsLockedTotal.Inc()
}

// RecordEventDropped counts an outbound event lost before publishing.
func RecordEventDropped(reason string) {
	EventsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordEventPublishingError counts a broker-side publishing failure.
func RecordEventPublishingError(reason string) {
	EventPublishingErrorsTotal.WithLabelValues(reason).Inc()
}
