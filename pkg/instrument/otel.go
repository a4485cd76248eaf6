package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Default tracer name for reactive engines.
const defaultTracerName = "reactive"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.TracerProvider = tp
	}
}

// Tracer is a reactive.Observer emitting OpenTelemetry spans: one span per
// effect invocation (with its real start and end time), one instantaneous
// span per accepted write, and an error span per runaway-guard trip.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates the OpenTelemetry observer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{tracer: tracer}
}

// CellWrote implements reactive.Observer.
func (t *Tracer) CellWrote(cellID, version uint64, subscribers int) {
	_, span := t.tracer.Start(context.Background(), "reactive.write",
		trace.WithAttributes(
			attribute.Int64("reactive.cell.id", int64(cellID)),
			attribute.Int64("reactive.cell.version", int64(version)),
			attribute.Int("reactive.write.fanout", subscribers),
		))
	span.End()
}

// EffectRan implements reactive.Observer.
func (t *Tracer) EffectRan(effect reactive.EffectInfo, elapsed time.Duration) {
	end := time.Now()
	_, span := t.tracer.Start(context.Background(), "reactive.effect",
		trace.WithTimestamp(end.Add(-elapsed)),
		trace.WithAttributes(
			attribute.Int64("reactive.effect.id", int64(effect.ID)),
			attribute.String("reactive.effect.name", effect.Name),
		))
	span.End(trace.WithTimestamp(end))
}

// RunawayTripped implements reactive.Observer.
func (t *Tracer) RunawayTripped(cellID uint64, rounds int) {
	_, span := t.tracer.Start(context.Background(), "reactive.runaway",
		trace.WithAttributes(
			attribute.Int64("reactive.cell.id", int64(cellID)),
			attribute.Int("reactive.runaway.rounds", rounds),
		))
	span.SetStatus(codes.Error, "runaway update")
	span.End()
}

var _ reactive.Observer = (*Tracer)(nil)

// Multi fans engine events out to several observers, in order.
func Multi(observers ...reactive.Observer) reactive.Observer {
	return multiObserver(observers)
}

type multiObserver []reactive.Observer

func (m multiObserver) CellWrote(cellID, version uint64, subscribers int) {
	for _, o := range m {
		o.CellWrote(cellID, version, subscribers)
	}
}

func (m multiObserver) EffectRan(effect reactive.EffectInfo, elapsed time.Duration) {
	for _, o := range m {
		o.EffectRan(effect, elapsed)
	}
}

func (m multiObserver) RunawayTripped(cellID uint64, rounds int) {
	for _, o := range m {
		o.RunawayTripped(cellID, rounds)
	}
}
