package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect-run duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the effect-duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Observer exporting engine activity as Prometheus
// metrics.
//
// Metrics collected:
//   - reactive_writes_total: counter of accepted cell writes
//   - reactive_write_fanout: histogram of subscribers replayed per write
//   - reactive_effect_runs_total: counter of effect invocations
//   - reactive_effect_duration_seconds: histogram of effect run duration
//   - reactive_runaway_trips_total: counter of runaway-guard trips
type Metrics struct {
	writesTotal    prometheus.Counter
	writeFanout    prometheus.Histogram
	effectRuns     prometheus.Counter
	effectDuration prometheus.Histogram
	runawayTrips   prometheus.Counter
}

// NewMetrics creates and registers the Prometheus observer.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		writesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of accepted cell writes",
			ConstLabels: config.ConstLabels,
		}),

		writeFanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "write_fanout",
			Help:        "Subscribers replayed per accepted write",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 100, 1000},
		}),

		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect invocations",
			ConstLabels: config.ConstLabels,
		}),

		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		runawayTrips: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "runaway_trips_total",
			Help:        "Total number of runaway-guard trips",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// CellWrote implements reactive.Observer.
func (m *Metrics) CellWrote(cellID, version uint64, subscribers int) {
	m.writesTotal.Inc()
	m.writeFanout.Observe(float64(subscribers))
}

// EffectRan implements reactive.Observer.
func (m *Metrics) EffectRan(effect reactive.EffectInfo, elapsed time.Duration) {
	m.effectRuns.Inc()
	m.effectDuration.Observe(elapsed.Seconds())
}

// RunawayTripped implements reactive.Observer.
func (m *Metrics) RunawayTripped(cellID uint64, rounds int) {
	m.runawayTrips.Inc()
}

var _ reactive.Observer = (*Metrics)(nil)
