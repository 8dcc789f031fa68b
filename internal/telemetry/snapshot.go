package telemetry

import "time"

// Snapshot is an immutable view of every channel value at one instant.
type Snapshot struct {
	seq    uint64
	at     time.Time
	values map[string]float64
}

// Lookup matches ir.LookupFunc.
func (s *Snapshot) Lookup(name string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Seq increases by one for every accepted update.
func (s *Snapshot) Seq() uint64 {
	if s == nil {
		return 0
	}
	return s.seq
}

func (s *Snapshot) Time() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.at
}
