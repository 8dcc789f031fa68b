package telemetry

import (
	"maps"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/ir"
)

// Store owns the current telemetry snapshot. Readers take the snapshot
// pointer without locking; writers build a new snapshot and swap it in.
type Store struct {
	channels map[string]ir.Channel
	order    []string
	current  atomic.Pointer[Snapshot]
	writeMu  sync.Mutex
	now      func() time.Time
}

type StoreOption func(*Store)

// WithNow overrides the wall clock used to stamp snapshots.
func WithNow(fn func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = fn
	}
}

// NewStore seeds every declared channel with 0.
func NewStore(channels []ir.Channel, opts ...StoreOption) *Store {
	s := &Store{
		channels: make(map[string]ir.Channel, len(channels)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	seed := make(map[string]float64, len(channels))
	for _, ch := range channels {
		if _, dup := s.channels[ch.Name]; dup {
			continue
		}
		s.channels[ch.Name] = ch
		s.order = append(s.order, ch.Name)
		seed[ch.Name] = 0
	}
	s.current.Store(&Snapshot{at: s.now(), values: seed})
	return s
}

// Snapshot returns the current snapshot. The result never changes.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Channels returns the declared channels in declaration order.
func (s *Store) Channels() []ir.Channel {
	out := make([]ir.Channel, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.channels[name])
	}
	return out
}

// Update applies the channel's transfer function to raw and publishes the
// result in a new snapshot. It returns the stored value.
func (s *Store) Update(name string, raw float64) (float64, error) {
	values, err := s.UpdateMany(map[string]float64{name: raw})
	if err != nil {
		return 0, err
	}
	return values[name], nil
}

// UpdateMany publishes all samples in a single snapshot. Nothing is applied
// when any sample names an undeclared channel or is not finite.
func (s *Store) UpdateMany(samples map[string]float64) (map[string]float64, error) {
	converted := make(map[string]float64, len(samples))
	for name, raw := range samples {
		ch, ok := s.channels[name]
		if !ok {
			return nil, cerrors.ErrUnknownChannel.WithMessage("unknown channel [%s]", name)
		}
		v := ir.ApplyTransfer(ch.Transfer, raw)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, cerrors.ErrInvalidChannelValue.WithMessage("channel [%s] value %v is not finite", name, raw)
		}
		converted[name] = v
	}
	if len(converted) == 0 {
		return converted, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.current.Load()
	next := &Snapshot{
		seq:    prev.seq + 1,
		at:     s.now(),
		values: maps.Clone(prev.values),
	}
	maps.Copy(next.values, converted)
	s.current.Store(next)
	return converted, nil
}
