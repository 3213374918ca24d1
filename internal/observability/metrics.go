package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	requestsTotal           *prometheus.CounterVec
	requestLatencySeconds   *prometheus.HistogramVec
	checkinsTotal           *prometheus.CounterVec
	sessionsStartedTotal    prometheus.Counter
	sessionsEndedTotal      prometheus.Counter
	historyLatencySeconds   prometheus.Histogram
	realtimeConnectionsOpen prometheus.Gauge
	realtimeEventsTotal     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendly_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		checkinsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendly_checkins_total",
			Help: "Check-in attempts by outcome.",
		}, []string{"outcome"})

		sessionsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_sessions_started_total",
			Help: "Total number of attendance sessions opened.",
		})

		sessionsEndedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_sessions_ended_total",
			Help: "Total number of attendance sessions closed.",
		})

		historyLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendly_history_latency_seconds",
			Help:    "Latency distribution for history report builds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		realtimeConnectionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attendly_realtime_connections",
			Help: "Currently open realtime observer connections.",
		})

		realtimeEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendly_realtime_events_published_total",
			Help: "Total number of realtime check-in events published.",
		})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			checkinsTotal,
			sessionsStartedTotal,
			sessionsEndedTotal,
			historyLatencySeconds,
			realtimeConnectionsOpen,
			realtimeEventsTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// CheckinsTotal exposes the check-in outcome counter.
func CheckinsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return checkinsTotal
}

// SessionsStarted exposes the opened-session counter.
func SessionsStarted() prometheus.Counter {
	RegisterMetrics()
	return sessionsStartedTotal
}

// SessionsEnded exposes the closed-session counter.
func SessionsEnded() prometheus.Counter {
	RegisterMetrics()
	return sessionsEndedTotal
}

// HistoryLatency exposes the history build histogram.
func HistoryLatency() prometheus.Histogram {
	RegisterMetrics()
	return historyLatencySeconds
}

// RealtimeConnections exposes the open-connection gauge.
func RealtimeConnections() prometheus.Gauge {
	RegisterMetrics()
	return realtimeConnectionsOpen
}

// RealtimeEventsPublished exposes the published-event counter.
func RealtimeEventsPublished() prometheus.Counter {
	RegisterMetrics()
	return realtimeEventsTotal
}
