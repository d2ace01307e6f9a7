package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	changeEventsApplied *prometheus.CounterVec
	changeEventsDropped *prometheus.CounterVec
	remoteWrites        *prometheus.CounterVec
	outboxEnqueued      prometheus.Counter
	outboxDiscarded     *prometheus.CounterVec
	drainPasses         *prometheus.CounterVec
	drainDuration       prometheus.Histogram
	initialLoadDuration prometheus.Histogram
	outboxDepth         prometheus.Gauge
	canonicalSetSize    prometheus.Gauge
	connectivityState   prometheus.Gauge
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		changeEventsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_change_events_applied_total",
				Help: "Total number of push feed events applied to the canonical set",
			},
			[]string{"type"},
		),
		changeEventsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_change_events_dropped_total",
				Help: "Total number of push feed events dropped before application",
			},
			[]string{"reason"},
		),
		remoteWrites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sync_remote_writes_total",
				Help: "Total number of remote write attempts",
			},
			[]string{"result"},
		),
		outboxEnqueued: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "outbox_enqueued_total",
				Help: "Total number of transactions queued to the durable outbox",
			},
		),
		outboxDiscarded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbox_discarded_total",
				Help: "Total number of outbox entries discarded without confirmation",
			},
			[]string{"reason"},
		),
		drainPasses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbox_drain_passes_total",
				Help: "Total number of outbox drain passes",
			},
			[]string{"trigger"},
		),
		drainDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "outbox_drain_duration_milliseconds",
				Help:    "Outbox drain pass duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		initialLoadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sync_initial_load_duration_milliseconds",
				Help:    "Initial load duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		outboxDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "outbox_depth",
				Help: "Current number of pending outbox entries",
			},
		),
		canonicalSetSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sync_canonical_set_size",
				Help: "Current number of confirmed transactions in the canonical set",
			},
		),
		connectivityState: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sync_connectivity_online",
				Help: "Connectivity state as seen by the engine (1=online, 0=offline)",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "sync.event.applied":
		m.changeEventsApplied.WithLabelValues(tags["type"]).Inc()
	case "sync.event.dropped":
		m.changeEventsDropped.WithLabelValues(tags["reason"]).Inc()
	case "sync.remote_write":
		m.remoteWrites.WithLabelValues(tags["result"]).Inc()
	case "outbox.enqueued":
		m.outboxEnqueued.Inc()
	case "outbox.discarded":
		m.outboxDiscarded.WithLabelValues(tags["reason"]).Inc()
	case "outbox.drain":
		m.drainPasses.WithLabelValues(tags["trigger"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "outbox.drain":
		m.drainDuration.Observe(float64(duration.Milliseconds()))
	case "sync.initial_load":
		m.initialLoadDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "outbox.depth":
		m.outboxDepth.Set(value)
	case "sync.canonical_size":
		m.canonicalSetSize.Set(value)
	case "sync.connectivity":
		m.connectivityState.Set(value)
	}
}
