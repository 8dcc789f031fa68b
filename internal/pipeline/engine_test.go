package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/okieraised/udashboard/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	frames []*Frame
}

func (p *recordingPublisher) PublishFrame(frame *Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, frame)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

func newTestCache(t *testing.T) *ristretto.Cache {
	t.Helper()
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        1000,
		MaxCost:            1000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func TestEngine_Tick(t *testing.T) {
	cfg := testConfig()
	store := telemetry.NewStore(cfg.Channels)
	_, err := store.UpdateMany(map[string]float64{"rpm": 6000, "volts": 10})
	require.NoError(t, err)

	cache := newTestCache(t)
	pub := &recordingPublisher{}
	hooks := 0
	engine := NewEngine(cfg, store,
		WithClock(FixedClock(1500*time.Millisecond)),
		WithParallelGauges(2),
		WithFrameCache(cache, time.Minute),
		WithPublisher(pub),
		WithFirstFrameHook(func() { hooks++ }),
	)
	assert.False(t, engine.Ready())
	assert.Nil(t, engine.Latest())

	frame, err := engine.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frame.Seq)
	assert.Equal(t, uint64(1), frame.SnapshotSeq)
	assert.Equal(t, int64(1500), frame.ElapsedMs)
	assert.InDelta(t, 0.75, frame.Pages[0][0].Scale.Percent, 1e-12)
	assert.True(t, frame.Pages[1][0].Light.Lit)

	assert.True(t, engine.Ready())
	assert.Same(t, frame, engine.Latest())
	assert.Equal(t, 1, pub.count())

	cached, ok := CachedFrame(cache)
	require.True(t, ok)
	assert.Same(t, frame, cached)

	page, ok := CachedPage(cache, 1)
	require.True(t, ok)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "battery", page.Gauges[0].Name)

	_, ok = CachedPage(cache, 5)
	assert.False(t, ok)

	second, err := engine.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, 1, hooks)
	assert.Equal(t, 2, pub.count())
}

func TestEngine_Run(t *testing.T) {
	cfg := testConfig()
	pub := &recordingPublisher{}
	engine := NewEngine(cfg, telemetry.NewStore(cfg.Channels),
		WithInterval(2*time.Millisecond),
		WithPublisher(pub),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	assert.Eventually(t, func() bool { return pub.count() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestEngine_RunRejectsBadInterval(t *testing.T) {
	cfg := testConfig()
	engine := NewEngine(cfg, telemetry.NewStore(cfg.Channels), WithInterval(0))
	assert.Error(t, engine.Run(context.Background()))
}

func TestPageCacheKey(t *testing.T) {
	assert.Equal(t, "page:3", PageCacheKey(3))
}

func TestEngine_TickRecordsMetrics(t *testing.T) {
	cfg := testConfig()
	store := telemetry.NewStore(cfg.Channels)
	_, err := store.Update("rpm", 3000)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	engine := NewEngine(cfg, store, WithClock(FixedClock(0)), WithMetrics(metrics))

	for i := 0; i < 3; i++ {
		_, err = engine.Tick(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.framesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.frameErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.failedGauges))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.snapshotSeq))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.frameDuration))
}

func TestMetrics_NilRecordsNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeFrame(&Frame{}, 1, time.Millisecond)
		m.observeError()
	})
}
