package reactive

import "fmt"

// Derived is a read-only reactive cell whose value is produced by an
// internally owned effect recomputing it from other cells. External writes
// always fail.
//
// The recompute assigns directly to storage, bypassing the write protocol, so
// recomputing does not notify the derived cell's own subscribers. Dependents
// instead observe the fresh value because the recompute effect subscribed to
// the shared inputs first and is replayed first. Construct derived cells
// before any effect that reads them; see the package docs.
type Derived[T any] struct {
	base cellBase

	// value is the current computed value, assigned only by the recompute
	// effect.
	value T

	// compute produces the value from other cells.
	compute func() T

	// recompute is the internally owned effect.
	recompute *Effect
}

// NewDerived creates a derived cell on eng and computes its initial value by
// running the recompute effect immediately. It fails with a StructuralError
// when called while an effect is running, because construction itself starts
// an effect. A runaway trip ignited by the initial compute is returned as a
// RunawayError.
func NewDerived[T any](eng *Engine, compute func() T) (_ *Derived[T], err error) {
	if eng.active != nil {
		return nil, &StructuralError{Op: "NewDerived", Reason: "cannot create a derived cell while an effect is running"}
	}

	d := &Derived[T]{
		base:    cellBase{eng: eng, id: eng.nextID()},
		compute: compute,
	}

	d.recompute = &Effect{
		id:   eng.nextID(),
		name: fmt.Sprintf("derived-%d", d.base.id),
		eng:  eng,
		fn: func() Cleanup {
			d.value = d.compute()
			return nil
		},
	}
	defer trapRunaway(&err)
	d.recompute.run()

	return d, nil
}

// Get returns the current computed value and subscribes the running effect,
// if any, exactly as a signal read does.
func (d *Derived[T]) Get() T {
	d.base.track()
	return d.value
}

// Peek returns the current computed value without subscribing.
func (d *Derived[T]) Peek() T {
	return d.value
}

// Set always fails with a StructuralError, for any value including the
// current one. Derived cells are written only by their recompute effect.
func (d *Derived[T]) Set(T) error {
	return &StructuralError{Op: "Derived.Set", Reason: "derived cells are read-only"}
}

// ID returns the unique identifier for this cell.
func (d *Derived[T]) ID() uint64 {
	return d.base.id
}

// Version returns zero for derived cells: recomputes bypass the write
// protocol and never bump the version.
func (d *Derived[T]) Version() uint64 {
	return d.base.version
}

// Inspect returns a diagnostic snapshot of the cell. It registers no
// dependency edge, even when called from inside an effect.
func (d *Derived[T]) Inspect() CellSnapshot {
	return d.base.inspect(d.value)
}
