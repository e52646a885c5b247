package fleetarchiver

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	CyclesTotal    *prometheus.CounterVec
	FetchFailures  prometheus.Counter
	RecordsFetched prometheus.Counter
	FlowFailures   *prometheus.CounterVec
	SinkFallbacks  prometheus.Counter
	CycleSeconds   prometheus.Histogram
}

// NewMetrics builds the instruments and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_cycles_total",
			Help: "Completed fetch cycles by outcome.",
		}, []string{"outcome"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_fetch_failures_total",
			Help: "Fetches that exhausted their retry budget.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_records_fetched_total",
			Help: "Train records retrieved from the upstream feed.",
		}),
		FlowFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_flow_failures_total",
			Help: "Flow outputs that could not be persisted to any backend.",
		}, []string{"flow"}),
		SinkFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_sink_fallbacks_total",
			Help: "Artifact writes recovered by a fallback backend.",
		}),
		CycleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_cycle_duration_seconds",
			Help:    "End-to-end duration of one fetch cycle.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	reg.MustRegister(
		m.CyclesTotal,
		m.FetchFailures,
		m.RecordsFetched,
		m.FlowFailures,
		m.SinkFallbacks,
		m.CycleSeconds,
	)
	return m
}
