package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/ir"
	"github.com/okieraised/udashboard/internal/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SnapshotSource hands out immutable telemetry snapshots.
type SnapshotSource interface {
	Snapshot() *telemetry.Snapshot
}

// Publisher receives every frame the engine produces.
type Publisher interface {
	PublishFrame(frame *Frame)
}

type Engine struct {
	cfg        *ir.Config
	source     SnapshotSource
	clock      Clock
	interval   time.Duration
	parallel   int
	cache      *ristretto.Cache
	cacheTTL   time.Duration
	publishers []Publisher
	tracer     trace.Tracer
	metrics    *Metrics
	logger     *log.Logger

	seq          atomic.Uint64
	latest       atomic.Pointer[Frame]
	onFirstFrame func()
	firstOnce    sync.Once
}

type EngineOption func(*Engine)

func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

func WithInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.interval = d
	}
}

func WithParallelGauges(n int) EngineOption {
	return func(e *Engine) {
		e.parallel = n
	}
}

// WithFrameCache stores each frame under the latest and per-page keys.
func WithFrameCache(cache *ristretto.Cache, ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.cache = cache
		e.cacheTTL = ttl
	}
}

func WithPublisher(p Publisher) EngineOption {
	return func(e *Engine) {
		e.publishers = append(e.publishers, p)
	}
}

func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = t
	}
}

func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithFirstFrameHook runs fn once, after the first frame has been published.
func WithFirstFrameHook(fn func()) EngineOption {
	return func(e *Engine) {
		e.onFirstFrame = fn
	}
}

func NewEngine(cfg *ir.Config, source SnapshotSource, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:      cfg,
		source:   source,
		clock:    NewProcessClock(),
		interval: constants.DefaultFrameInterval,
		parallel: constants.DefaultParallelGauges,
		cacheTTL: constants.DefaultFrameCacheTTL,
		logger:   log.Default().Named("frame_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = tracer_client.Tracer("frame_engine")
	}
	return e
}

// Run produces a frame every interval until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if e.interval <= 0 {
		return errors.Errorf("frame interval must be positive, got %s", e.interval)
	}
	e.logger.Info(fmt.Sprintf("Starting frame engine at %s per frame over [%d] gauges", e.interval, e.cfg.GaugeCount()))

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Shutting down frame engine")
			return nil
		case <-ticker.C:
			if _, err := e.Tick(ctx); err != nil && ctx.Err() == nil {
				e.logger.Error("Failed to produce frame", zap.Error(err))
			}
		}
	}
}

// Tick evaluates one frame from the current snapshot, caches it and hands it
// to every publisher.
func (e *Engine) Tick(ctx context.Context) (*Frame, error) {
	seq := e.seq.Add(1)
	ctx, span := e.tracer.Start(ctx, "frame", trace.WithAttributes(attribute.Int64("frame.seq", int64(seq))))
	defer span.End()

	start := time.Now()
	snap := e.source.Snapshot()
	elapsed := e.clock.Elapsed()

	pages, err := EvaluateFrame(ctx, e.cfg, snap.Lookup, elapsed, e.parallel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.observeError()
		return nil, errors.Wrapf(err, "evaluate frame %d", seq)
	}

	frame := &Frame{
		Seq:         seq,
		SnapshotSeq: snap.Seq(),
		ElapsedMs:   elapsed.Milliseconds(),
		CreatedAt:   time.Now(),
		Pages:       pages,
	}

	failed := 0
	for _, page := range pages {
		for _, g := range page {
			if g.Error != "" {
				failed++
				e.logger.Debug("Gauge could not be resolved", zap.String("gauge", g.Name), zap.String("error", g.Error))
			}
		}
	}
	span.SetAttributes(
		attribute.Int64("frame.snapshot_seq", int64(frame.SnapshotSeq)),
		attribute.Int("frame.gauges", e.cfg.GaugeCount()),
		attribute.Int("frame.failed_gauges", failed),
	)

	e.metrics.observeFrame(frame, failed, time.Since(start))

	e.latest.Store(frame)
	e.storeInCache(frame)
	for _, p := range e.publishers {
		p.PublishFrame(frame)
	}
	if e.onFirstFrame != nil {
		e.firstOnce.Do(e.onFirstFrame)
	}
	return frame, nil
}

// Latest returns the most recent frame, nil before the first tick.
func (e *Engine) Latest() *Frame {
	return e.latest.Load()
}

// Ready reports whether at least one frame has been produced.
func (e *Engine) Ready() bool {
	return e.latest.Load() != nil
}

func (e *Engine) storeInCache(frame *Frame) {
	if e.cache == nil {
		return
	}
	e.cache.SetWithTTL(constants.CacheKeyLatestFrame, frame, 1, e.cacheTTL)
	for n := range frame.Pages {
		page, _ := frame.Page(n)
		e.cache.SetWithTTL(PageCacheKey(n), page, 1, e.cacheTTL)
	}
	e.cache.Wait()
}

func PageCacheKey(n int) string {
	return constants.CacheKeyPageFramePrefix + strconv.Itoa(n)
}

// CachedFrame reads the latest frame back from the cache.
func CachedFrame(cache *ristretto.Cache) (*Frame, bool) {
	v, ok := cache.Get(constants.CacheKeyLatestFrame)
	if !ok {
		return nil, false
	}
	frame, ok := v.(*Frame)
	return frame, ok
}

// CachedPage reads one page of the latest frame back from the cache.
func CachedPage(cache *ristretto.Cache, n int) (PageFrame, bool) {
	v, ok := cache.Get(PageCacheKey(n))
	if !ok {
		return PageFrame{}, false
	}
	page, ok := v.(PageFrame)
	return page, ok
}
