// Package reactive provides the public API for the reactive
// dependency-tracking engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/reactive"
//
// Usage:
//
//	eng := reactive.New()
//	count, _ := reactive.NewSignal(eng, 0)
//	doubled, _ := reactive.NewDerived(eng, func() int { return count.Get() * 2 })
//	reactive.RunEffect(eng, func() reactive.Cleanup {
//	    fmt.Println(count.Get(), doubled.Get())
//	    return nil
//	})
//	count.Set(21)
//
// The engine core lives in pkg/reactive and the observability adapters in
// pkg/instrument; this package re-exports the core surface.
package reactive

import (
	"log/slog"

	core "github.com/vango-dev/reactive/pkg/reactive"
)

// =============================================================================
// Engine
// =============================================================================

// Engine owns the tracking state for a reactive graph. See pkg/reactive.
type Engine = core.Engine

// Option configures an Engine.
type Option = core.Option

// DebugConfig controls diagnostic logging.
type DebugConfig = core.DebugConfig

// Observer receives engine events. See pkg/instrument for Prometheus and
// OpenTelemetry implementations.
type Observer = core.Observer

// New creates an Engine.
func New(opts ...Option) *Engine {
	return core.New(opts...)
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return core.WithLogger(logger)
}

// WithObserver installs an Observer receiving engine events.
func WithObserver(obs Observer) Option {
	return core.WithObserver(obs)
}

// WithDebug sets the debug configuration.
func WithDebug(cfg DebugConfig) Option {
	return core.WithDebug(cfg)
}

// =============================================================================
// Cells
// =============================================================================

// Signal is a mutable reactive value container.
type Signal[T any] = core.Signal[T]

// Derived is a read-only reactive cell computed from other cells.
type Derived[T any] = core.Derived[T]

// CellSnapshot is a read-only diagnostic view of a cell.
type CellSnapshot = core.CellSnapshot

// NewSignal creates a signal on eng with the given initial value.
// It fails when called while an effect is running.
func NewSignal[T any](eng *Engine, initial T) (*Signal[T], error) {
	return core.NewSignal(eng, initial)
}

// NewDerived creates a derived cell on eng and computes its initial value
// immediately. It fails when called while an effect is running.
//
// Construct derived cells before any effect that reads them; see the
// pkg/reactive package docs for the ordering contract.
func NewDerived[T any](eng *Engine, compute func() T) (*Derived[T], error) {
	return core.NewDerived(eng, compute)
}

// =============================================================================
// Effects
// =============================================================================

// Effect is the stable identity of a reactive subscriber.
type Effect = core.Effect

// EffectInfo is a diagnostic descriptor for an effect identity.
type EffectInfo = core.EffectInfo

// EffectOption configures an effect.
type EffectOption = core.EffectOption

// Cleanup is a function an effect body may return; it is handed back to the
// caller of RunEffect uninvoked.
type Cleanup = core.Cleanup

// RunEffect creates an effect around body and runs it immediately; the body
// re-runs on every accepted write to any cell it has read.
func RunEffect(eng *Engine, body func() Cleanup, opts ...EffectOption) (Cleanup, error) {
	return core.RunEffect(eng, body, opts...)
}

// EffectName sets the diagnostic label for an effect.
func EffectName(name string) EffectOption {
	return core.EffectName(name)
}

// =============================================================================
// Errors and limits
// =============================================================================

// PropagationLimit bounds consecutive propagating writes to a single cell.
const PropagationLimit = core.PropagationLimit

// StructuralError describes a call-pattern violation.
type StructuralError = core.StructuralError

// RunawayError reports a runaway-guard trip.
type RunawayError = core.RunawayError

// Sentinels for errors.Is. Every StructuralError matches
// ErrStructuralViolation; every RunawayError matches ErrRunawayUpdate.
var (
	ErrStructuralViolation = core.ErrStructuralViolation
	ErrRunawayUpdate       = core.ErrRunawayUpdate
)
