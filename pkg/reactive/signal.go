package reactive

import "reflect"

// Signal is a mutable reactive value container. Reading a Signal during an
// effect run subscribes that effect to the signal's changes; writing a changed
// value replays the subscribers synchronously, in registration order.
type Signal[T any] struct {
	base cellBase

	// value is the current signal value.
	value T

	// equal is the equality function used to decide whether a write changes
	// the value. If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a signal on eng with the given initial value.
// It fails with a StructuralError when called while an effect is running.
func NewSignal[T any](eng *Engine, initial T) (*Signal[T], error) {
	if eng.active != nil {
		return nil, &StructuralError{Op: "NewSignal", Reason: "cannot create a signal while an effect is running"}
	}
	return &Signal[T]{
		base:  cellBase{eng: eng, id: eng.nextID()},
		value: initial,
	}, nil
}

// Get returns the current value and subscribes the running effect, if any.
// The subscription is deduplicated and, by design, never removed: the effect
// re-runs on every accepted write to this signal from now on. Get never bumps
// the version and never propagates.
func (s *Signal[T]) Get() T {
	s.base.track()
	return s.value
}

// Peek returns the current value without subscribing.
// Useful for reading a value inside an effect without creating a dependency.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set writes a new value. A value equal to the current one is a no-op: no
// version bump, no subscriber run. Otherwise the value is stored, the version
// increments, and the current subscribers are replayed in registration order,
// each as a full recursive re-entry into the write protocol.
//
// Set returns a RunawayError when this cell's propagation counter exceeds
// PropagationLimit (see the package docs), or when a runaway trip deeper in
// the cascade unwinds back to this top-level write. Failures in subscriber
// user code propagate as panics.
func (s *Signal[T]) Set(value T) error {
	return s.write(value)
}

// Update writes the result of fn applied to the current value, through the
// same protocol as Set.
func (s *Signal[T]) Update(fn func(T) T) error {
	return s.write(fn(s.value))
}

// WithEquals returns the signal configured with a custom equality function.
// Useful for types where reflect.DeepEqual is too expensive or has the wrong
// semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Version returns the number of accepted writes over the signal's lifetime.
func (s *Signal[T]) Version() uint64 {
	return s.base.version
}

// Inspect returns a diagnostic snapshot of the signal. It registers no
// dependency edge, even when called from inside an effect.
func (s *Signal[T]) Inspect() CellSnapshot {
	return s.base.inspect(s.value)
}

func (s *Signal[T]) write(value T) error {
	if s.equals(s.value, value) {
		return nil
	}
	s.value = value
	s.base.version++

	eng := s.base.eng
	if eng.debug.LogWrites {
		eng.logger.Debug("cell write", "cell", s.base.id, "version", s.base.version, "subscribers", len(s.base.subs))
	}
	if eng.observer != nil {
		eng.observer.CellWrote(s.base.id, s.base.version, len(s.base.subs))
	}

	return s.base.propagate()
}

// equals checks two values with the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
