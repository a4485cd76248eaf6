package instrument

import (
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/reactive/pkg/reactive"
)

func TestTracerObservesEngine(t *testing.T) {
	// The noop provider exercises the span plumbing without an SDK.
	tracer := NewTracer(
		WithTracerName("test"),
		WithTracerProvider(noop.NewTracerProvider()),
	)
	eng := reactive.New(reactive.WithObserver(tracer))

	s, err := reactive.NewSignal(eng, 0)
	if err != nil {
		t.Fatalf("NewSignal: %v", err)
	}
	if _, err := reactive.RunEffect(eng, func() reactive.Cleanup {
		_ = s.Get()
		return nil
	}); err != nil {
		t.Fatalf("RunEffect: %v", err)
	}
	if err := s.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	tracer.RunawayTripped(s.ID(), reactive.PropagationLimit+1)
}

func TestTracerDefaultsToGlobalProvider(t *testing.T) {
	tracer := NewTracer()
	tracer.CellWrote(1, 1, 0)
	tracer.EffectRan(reactive.EffectInfo{ID: 2, Name: "e"}, time.Millisecond)
}

type countingObserver struct {
	writes, runs, trips int
}

func (c *countingObserver) CellWrote(cellID, version uint64, subscribers int) { c.writes++ }
func (c *countingObserver) EffectRan(effect reactive.EffectInfo, elapsed time.Duration) {
	c.runs++
}
func (c *countingObserver) RunawayTripped(cellID uint64, rounds int) { c.trips++ }

func TestMultiFansOutInOrder(t *testing.T) {
	first := &countingObserver{}
	second := &countingObserver{}
	multi := Multi(first, second)

	multi.CellWrote(1, 1, 2)
	multi.EffectRan(reactive.EffectInfo{ID: 1, Name: "e"}, time.Millisecond)
	multi.RunawayTripped(1, reactive.PropagationLimit+1)

	for i, obs := range []*countingObserver{first, second} {
		if obs.writes != 1 || obs.runs != 1 || obs.trips != 1 {
			t.Errorf("observer %d counts = %d/%d/%d, want 1/1/1", i, obs.writes, obs.runs, obs.trips)
		}
	}
}
