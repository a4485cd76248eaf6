package reactive

import (
	"errors"
	"testing"
)

func TestEffectRunsImmediately(t *testing.T) {
	eng := New()

	ran := false
	mustEffect(t, eng, func() Cleanup {
		ran = true
		return nil
	})

	if !ran {
		t.Fatal("effect body did not run at creation")
	}
	assertUnwound(t, eng)
}

func TestEffectReturnsFirstRunCleanupUninvoked(t *testing.T) {
	eng := New()
	s := mustSignal(t, eng, 0)

	invoked := 0
	cleanup, err := RunEffect(eng, func() Cleanup {
		_ = s.Get()
		return func() { invoked++ }
	})
	if err != nil {
		t.Fatalf("RunEffect: %v", err)
	}
	if cleanup == nil {
		t.Fatal("expected first-run cleanup, got nil")
	}
	if invoked != 0 {
		t.Fatalf("engine invoked the cleanup %d times", invoked)
	}

	// Replay results are discarded; the caller's handle still works.
	if err := s.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if invoked != 0 {
		t.Fatalf("replay invoked the cleanup %d times", invoked)
	}
	cleanup()
	if invoked != 1 {
		t.Fatalf("cleanup invoked %d times, want 1", invoked)
	}
}

func TestEffectNestedStartFails(t *testing.T) {
	eng := New()

	var inner error
	mustEffect(t, eng, func() Cleanup {
		_, inner = RunEffect(eng, func() Cleanup { return nil })
		return nil
	})

	if !errors.Is(inner, ErrStructuralViolation) {
		t.Fatalf("expected structural violation, got %v", inner)
	}
	var serr *StructuralError
	if !errors.As(inner, &serr) || serr.Op != "RunEffect" {
		t.Errorf("expected *StructuralError with Op RunEffect, got %#v", inner)
	}
	assertUnwound(t, eng)
}

func TestEffectIdentityStableAcrossReplays(t *testing.T) {
	eng := New()
	s := mustSignal(t, eng, 0)

	mustEffect(t, eng, func() Cleanup {
		_ = s.Get()
		return nil
	}, EffectName("replayed"))

	for i := 1; i <= 5; i++ {
		if err := s.Set(i); err != nil {
			t.Fatalf("Set(%d): %v", i, err)
		}
	}

	// Five replays re-read the cell; the reused identity keeps the
	// subscriber set at one membership.
	snap := s.Inspect()
	if len(snap.Subscribers) != 1 {
		t.Fatalf("subscriber set grew to %d across replays", len(snap.Subscribers))
	}
	if snap.Subscribers[0].Name != "replayed" {
		t.Errorf("subscriber name %q, want replayed", snap.Subscribers[0].Name)
	}
}

func TestEffectNameDefaultsToID(t *testing.T) {
	eng := New()
	s := mustSignal(t, eng, 0)

	mustEffect(t, eng, func() Cleanup {
		_ = s.Get()
		return nil
	})

	subs := s.Inspect().Subscribers
	if len(subs) != 1 || subs[0].Name == "" {
		t.Errorf("expected a generated effect name, got %v", subs)
	}
}

func TestEffectOccupiesTrackingSlot(t *testing.T) {
	eng := New()

	var active *Effect
	var depth int
	mustEffect(t, eng, func() Cleanup {
		active = eng.ActiveEffect()
		depth = eng.Depth()
		return nil
	}, EffectName("probe"))

	if active == nil || active.Name() != "probe" {
		t.Fatalf("tracking slot inside body: %v, want effect probe", active)
	}
	if depth != 1 {
		t.Errorf("depth inside body %d, want 1", depth)
	}
	assertUnwound(t, eng)
}

func TestEffectSlotRestoredAfterBodyPanic(t *testing.T) {
	eng := New()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected body panic to propagate")
			}
		}()
		_, _ = RunEffect(eng, func() Cleanup {
			panic("defective body")
		})
	}()

	assertUnwound(t, eng)

	// The engine is still usable.
	mustEffect(t, eng, func() Cleanup { return nil })
	assertUnwound(t, eng)
}

func TestEffectPanicDuringReplayAbortsRound(t *testing.T) {
	eng := New()
	s := mustSignal(t, eng, 0)

	armed := false
	var order []string
	mustEffect(t, eng, func() Cleanup {
		_ = s.Get()
		order = append(order, "first")
		if armed {
			panic("defective subscriber")
		}
		return nil
	}, EffectName("first"))
	mustEffect(t, eng, func() Cleanup {
		_ = s.Get()
		order = append(order, "second")
		return nil
	}, EffectName("second"))

	armed = true
	order = order[:0]
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected subscriber panic to reach the writer")
			}
		}()
		_ = s.Set(1)
	}()

	// The round aborted after the failing subscriber; the second never ran.
	assertLog(t, order, []string{"first"})
	assertUnwound(t, eng)

	// The failure path completed the round's bookkeeping: the cell is not
	// tripped and a later write replays normally.
	armed = false
	order = order[:0]
	if err := s.Set(2); err != nil {
		t.Fatalf("Set after aborted round: %v", err)
	}
	assertLog(t, order, []string{"first", "second"})
}
