package reactive

// EffectInfo is a diagnostic descriptor for an effect identity.
type EffectInfo struct {
	ID   uint64
	Name string
}

// CellSnapshot is a read-only diagnostic view of a cell, taken by Inspect.
// Taking a snapshot never registers a dependency edge.
type CellSnapshot struct {
	// ID is the cell's unique identifier.
	ID uint64

	// Version is the number of accepted writes. Always zero for derived
	// cells, whose recomputes bypass the write protocol.
	Version uint64

	// Value is the stored value at snapshot time.
	Value any

	// Subscribers describes the cell's subscribers, in registration order.
	Subscribers []EffectInfo
}
