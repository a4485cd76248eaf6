package reactive

import (
	"fmt"
	"time"
)

// Cleanup is a function an effect body may return; it is handed back to the
// caller of RunEffect uninvoked. The engine never calls it.
type Cleanup func()

// Effect is the stable identity of a reactive subscriber. The same identity
// is reused for every replay, so cell subscriber deduplication holds across
// the effect's lifetime. Cells store effect identities, not bodies.
type Effect struct {
	id   uint64
	name string
	fn   func() Cleanup
	eng  *Engine
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the diagnostic label for this effect.
func (e *Effect) Name() string {
	return e.name
}

// Info returns the effect's diagnostic descriptor.
func (e *Effect) Info() EffectInfo {
	return EffectInfo{ID: e.id, Name: e.name}
}

// run executes the effect body with this effect occupying the tracking slot.
// The slot is restored on every exit path, including panics out of the body.
func (e *Effect) run() Cleanup {
	eng := e.eng
	prev := eng.begin(e)
	start := time.Now()
	defer func() {
		eng.end(prev)
		if eng.observer != nil {
			eng.observer.EffectRan(e.Info(), time.Since(start))
		}
		if eng.debug.LogEffectRuns {
			eng.logger.Debug("effect run", "effect", e.name, "id", e.id, "depth", eng.depth, "elapsed", time.Since(start))
		}
	}()
	return e.fn()
}

// EffectOption is an option for configuring an effect.
type EffectOption interface {
	isEffectOption()
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) isEffectOption()       {}
func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// EffectName sets the diagnostic label for the effect. The label appears in
// cell snapshots and debug logs.
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// RunEffect creates an effect around body and runs it immediately. During each
// invocation (the first and every write-triggered replay) the effect occupies
// eng's tracking slot, so every cell read subscribes it to that cell.
//
// The body's first-run result is returned to the caller uninvoked; replay
// results are discarded. RunEffect fails with a StructuralError when an effect
// is already running, including indirectly: constructing a derived cell inside
// a body fails because derived construction itself starts an effect.
//
// A runaway trip ignited by the first run — the body writes into a cycle, or
// into an already-tripped cell — is returned as a RunawayError; trips during
// later replays surface at the top-level write instead.
func RunEffect(eng *Engine, body func() Cleanup, opts ...EffectOption) (cleanup Cleanup, err error) {
	if eng.active != nil {
		return nil, &StructuralError{Op: "RunEffect", Reason: "an effect is already running; nested effects are not allowed"}
	}

	e := &Effect{
		id:  eng.nextID(),
		fn:  body,
		eng: eng,
	}
	for _, opt := range opts {
		opt.applyEffect(e)
	}
	if e.name == "" {
		e.name = fmt.Sprintf("effect-%d", e.id)
	}

	defer trapRunaway(&err)
	return e.run(), nil
}
