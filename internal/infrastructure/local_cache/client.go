package local_cache

import (
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Options configures the frame cache. Every entry costs 1, so MaxCost is the
// number of frames kept.
type Options struct {
	NumCounters            int64 // number of counters (10x your max items is a good start)
	MaxCost                int64 // total cost capacity (sum of item costs)
	BufferItems            int64 // number of keys per Get buffer
	TtlTickerDurationInSec int64
	Metrics                bool
	OnEvict                func(item *ristretto.Item)
}

type Option func(*Options)

func WithMaxCost(c int64) Option {
	return func(o *Options) {
		o.MaxCost = c
	}
}

func WithMetrics() Option {
	return func(o *Options) {
		o.Metrics = true
	}
}

func WithOnEvict(f func(item *ristretto.Item)) Option {
	return func(o *Options) {
		o.OnEvict = f
	}
}

// MaxCostForPages sizes the cache for the latest frame plus one entry per page,
// with headroom for eviction sampling.
func MaxCostForPages(pages int) int64 {
	return int64(pages+1) * 4
}

// defaultOptions set default values
func defaultOptions() Options {
	return Options{
		NumCounters:            10_000,
		MaxCost:                1_000,
		BufferItems:            64,
		TtlTickerDurationInSec: 1,
		Metrics:                false,
	}
}

var (
	once  sync.Once
	cache *ristretto.Cache
)

// NewLocalCache builds (or returns) the singleton. The first successful call fixes config.
func NewLocalCache(opts ...Option) error {
	var initErr error
	once.Do(func() {
		cache, initErr = newCache(opts...)
	})
	return initErr
}

func newCache(opts ...Option) (*ristretto.Cache, error) {
	conf := defaultOptions()
	for _, fn := range opts {
		fn(&conf)
	}
	if conf.NumCounters < conf.MaxCost*10 {
		conf.NumCounters = conf.MaxCost * 10
	}

	return ristretto.NewCache(&ristretto.Config{
		NumCounters:            conf.NumCounters,
		MaxCost:                conf.MaxCost,
		BufferItems:            conf.BufferItems,
		Metrics:                conf.Metrics,
		OnEvict:                conf.OnEvict,
		IgnoreInternalCost:     true,
		TtlTickerDurationInSec: conf.TtlTickerDurationInSec,
	})
}

func Cache() *ristretto.Cache {
	if cache == nil {
		panic("local cache not initialized; call NewLocalCache first")
	}
	return cache
}
