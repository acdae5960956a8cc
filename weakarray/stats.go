package weakarray

// Stats is a point-in-time summary of an Array.
type Stats struct {
	Len          int           `json:"len" yaml:"len"`
	Live         int           `json:"live" yaml:"live"`
	Dead         int           `json:"dead" yaml:"dead"`
	Operations   int           `json:"operations" yaml:"operations"`
	Compactions  int           `json:"compactions" yaml:"compactions"`
	CompactCycle int           `json:"compactCycle" yaml:"compactCycle"`
	Kind         ReferenceKind `json:"kind" yaml:"kind"`
	ThreadSafe   bool          `json:"threadSafe" yaml:"threadSafe"`
}

// Stats collects statistics about the array.
func (a *Array[T]) Stats() Stats {
	defer a.lock()()

	stats := Stats{
		Len:          len(a.slots),
		Operations:   a.operations,
		Compactions:  a.compactions,
		CompactCycle: a.compactCycle,
		Kind:         a.kind,
		ThreadSafe:   a.threadSafe.Load(),
	}
	for _, s := range a.slots {
		if s.value() != nil {
			stats.Live++
		}
	}
	stats.Dead = stats.Len - stats.Live
	return stats
}
