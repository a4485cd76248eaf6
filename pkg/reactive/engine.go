package reactive

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine owns the reactive graph's tracking state: the currently running
// effect, the diagnostic nesting depth, and the ID numbering for cells and
// effects created against it.
//
// An Engine is single-threaded by contract. Cells and effects hold the engine
// they were created with; mixing cells from different engines in one effect is
// a caller bug and is not detected.
type Engine struct {
	// active is the tracking slot: the effect currently executing, or nil.
	// Reads of any cell while active is non-nil register it as a subscriber.
	active *Effect

	// depth counts nested effect invocations, for diagnostics and for
	// deciding where a runaway failure surfaces as an error value.
	depth int

	// idCounter numbers cells and effects. Atomic operations keep ID
	// generation safe without locks.
	idCounter atomic.Uint64

	observer Observer
	logger   *slog.Logger
	debug    DebugConfig
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver installs an Observer receiving engine events.
// See the instrument package for Prometheus and OpenTelemetry observers.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// WithDebug sets the debug configuration.
func WithDebug(cfg DebugConfig) Option {
	return func(e *Engine) {
		e.debug = cfg
	}
}

// DebugConfig controls diagnostic logging. All options default to off.
type DebugConfig struct {
	// LogEffectRuns logs every effect invocation with timing.
	LogEffectRuns bool

	// LogWrites logs every accepted cell write with its fanout.
	LogWrites bool

	// LogRunaway logs runaway-guard trips.
	LogRunaway bool
}

// Observer receives engine events. Implementations must be synchronous and
// must not touch the engine re-entrantly.
type Observer interface {
	// CellWrote reports an accepted write: the cell, its new version, and the
	// number of subscribers in the replay snapshot.
	CellWrote(cellID, version uint64, subscribers int)

	// EffectRan reports one effect invocation and its duration.
	EffectRan(effect EffectInfo, elapsed time.Duration)

	// RunawayTripped reports a runaway-guard trip on a cell, with the
	// propagation-round count at the time of the trip.
	RunawayTripped(cellID uint64, rounds int)
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ActiveEffect returns the effect currently occupying the tracking slot, or
// nil when no effect is running. Debug seam: tests use it to assert the slot
// is unwound after every operation, including failures.
func (e *Engine) ActiveEffect() *Effect {
	return e.active
}

// Depth returns the current effect nesting depth. Zero outside any effect.
func (e *Engine) Depth() int {
	return e.depth
}

// ResetIDs resets the engine's ID numbering. Debug seam for tests that assert
// against specific IDs; never call it while cells created earlier are live.
func (e *Engine) ResetIDs() {
	e.idCounter.Store(0)
}

// nextID returns the next unique ID for a cell or effect on this engine.
// IDs are monotonically increasing and never reused.
func (e *Engine) nextID() uint64 {
	return e.idCounter.Add(1)
}

// begin installs eff in the tracking slot and returns the previous occupant.
func (e *Engine) begin(eff *Effect) *Effect {
	prev := e.active
	e.active = eff
	e.depth++
	return prev
}

// end restores the tracking slot to prev. Paired with begin via defer so the
// slot unwinds on every exit path.
func (e *Engine) end(prev *Effect) {
	e.active = prev
	e.depth--
}
