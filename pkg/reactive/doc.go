// Package reactive provides a minimal synchronous dependency-tracking engine:
// mutable reactive cells (signals), derived read-only cells, and effects that
// re-run whenever a cell they read is written.
//
// # Core Types
//
// Engine owns the tracking state. All cells and effects belong to exactly one
// engine, and all activity on an engine must happen from a single goroutine:
//
//	eng := reactive.New()
//
// Signal[T] is a reactive value container:
//
//	count, _ := reactive.NewSignal(eng, 0)
//	value := count.Get()  // Read (subscribes the running effect, if any)
//	count.Set(5)          // Write (replays subscribers in registration order)
//
// Derived[T] is a read-only cell recomputed from other cells:
//
//	doubled, _ := reactive.NewDerived(eng, func() int { return count.Get() * 2 })
//
// RunEffect runs a body immediately and re-runs it on every write to a cell it
// has read:
//
//	reactive.RunEffect(eng, func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Propagation Model
//
// Propagation is fully synchronous and depth-first. A write replays the cell's
// subscribers in registration order; a subscriber that writes another cell
// replays that cell's subscribers before control returns to the outer write.
// There is no batching and no deferred scheduling. Subscriptions are never
// pruned: once an effect has read a cell, it re-runs on every accepted write
// to that cell for the rest of the process.
//
// Derived cells recompute through an internally owned effect that assigns the
// result directly to storage, bypassing the write protocol. Correct ordering
// therefore depends on registration order: a derived cell must be constructed
// before any effect that reads it, for every input they share. Constructed in
// that order, the recompute effect subscribes to the shared input first and is
// replayed first, so dependents always observe the fresh derived value.
//
// # Runaway Updates
//
// Each cell carries a propagation counter bounding consecutive write-triggered
// replay rounds at PropagationLimit. A cycle of writes that exceeds the limit
// fails with a RunawayError and leaves the cell permanently tripped: every
// subsequent write to it fails the same way. See PropagationLimit.
//
// # Concurrency
//
// The engine is deliberately not safe for concurrent use. Effect bodies run to
// completion on the caller's goroutine with no suspension points; the tracking
// slot is strictly stack-disciplined and is restored on every exit path,
// including panics out of user code.
package reactive
