package reactive

// PropagationLimit bounds consecutive propagating writes to a single cell.
// A write that would start a round beyond the limit fails with a RunawayError
// before any subscriber of that round runs, and the cell stays tripped.
const PropagationLimit = 1000

// cellBase provides identity, versioning, subscriber management, and the
// runaway guard. It is embedded in Signal[T] and Derived[T].
type cellBase struct {
	eng *Engine
	id  uint64

	// version increments exactly once per accepted write.
	version uint64

	// subs are the effects subscribed to this cell, in registration order.
	// Deduplicated by effect ID, never pruned.
	subs []*Effect

	// propagations counts consecutive propagating writes; see PropagationLimit.
	propagations int
}

// track registers the engine's running effect, if any, as a subscriber.
// Re-reading a cell within one effect run contributes at most one membership.
func (c *cellBase) track() {
	eff := c.eng.active
	if eff == nil {
		return
	}
	for _, s := range c.subs {
		if s.id == eff.id {
			return
		}
	}
	c.subs = append(c.subs, eff)
}

// snapshot copies the subscriber list so the replay loop is unaffected by
// subscriptions added while it runs.
func (c *cellBase) snapshot() []*Effect {
	subs := make([]*Effect, len(c.subs))
	copy(subs, c.subs)
	return subs
}

// propagate runs one replay round: guard pre-check, then each subscriber from
// the snapshot, in registration order, as a full recursive re-entry into the
// engine's write protocol.
//
// Counter discipline: the round's counter resets to zero when the loop
// finishes, whether normally or by a user failure unwinding out of a
// subscriber. It does not reset on the pre-check failure path (the cell stays
// tripped), and it does not reset while a RunawayError from a deeper round is
// unwinding through this one, so a cycle trips each cell it revisits.
func (c *cellBase) propagate() (err error) {
	subs := c.snapshot()

	c.propagations++
	if c.propagations > PropagationLimit {
		rerr := &RunawayError{CellID: c.id, Rounds: c.propagations}
		if c.eng.observer != nil {
			c.eng.observer.RunawayTripped(c.id, c.propagations)
		}
		if c.eng.debug.LogRunaway {
			c.eng.logger.Warn("runaway update", "cell", c.id, "rounds", c.propagations)
		}
		if c.eng.depth > 0 {
			// Inside a cascade the trip must reach the top-level writer
			// through effect bodies that return no error; unwind as a panic
			// and convert back to an error at depth zero below.
			panic(rerr)
		}
		return rerr
	}

	defer func() {
		r := recover()
		if r == nil {
			c.propagations = 0
			return
		}
		rerr, ok := r.(*RunawayError)
		if !ok {
			// A subscriber failed in user code: the round aborts but still
			// completes its bookkeeping before the failure continues.
			c.propagations = 0
			panic(r)
		}
		if c.eng.depth > 0 {
			panic(rerr)
		}
		err = rerr
	}()

	for _, eff := range subs {
		eff.run()
	}
	return nil
}

// inspect builds a diagnostic snapshot. It never registers a dependency edge.
func (c *cellBase) inspect(value any) CellSnapshot {
	subs := make([]EffectInfo, len(c.subs))
	for i, s := range c.subs {
		subs[i] = s.Info()
	}
	return CellSnapshot{
		ID:          c.id,
		Version:     c.version,
		Value:       value,
		Subscribers: subs,
	}
}
