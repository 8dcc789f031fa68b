package restful

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/pipeline"
	"go.opentelemetry.io/otel/trace"
)

type IFrameService interface {
	LatestFrame(ctx *gin.Context, input *LatestFrameInput) (*api_response.BaseOutput, *cerrors.AppError)
	PageFrame(ctx *gin.Context, input *PageFrameInput) (*api_response.BaseOutput, *cerrors.AppError)
}

// FrameService serves frames from the cache the engine writes to.
type FrameService struct {
	cache     *ristretto.Cache
	pageCount int
}

func NewFrameService(options ...func(*FrameService)) *FrameService {
	svc := &FrameService{}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

func WithFrameCache(cache *ristretto.Cache) func(*FrameService) {
	return func(c *FrameService) {
		c.cache = cache
	}
}

// WithPageCount lets the service tell a missing page from a missing frame.
func WithPageCount(n int) func(*FrameService) {
	return func(c *FrameService) {
		c.pageCount = n
	}
}

type LatestFrameInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type PageFrameInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
	Page      int
}

func (svc *FrameService) LatestFrame(ctx *gin.Context, input *LatestFrameInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "latest-frame-handler")
	defer span.End()

	if svc.cache == nil {
		return nil, cerrors.ErrNoFrameAvailable
	}
	frame, ok := pipeline.CachedFrame(svc.cache)
	if !ok {
		return nil, cerrors.ErrNoFrameAvailable
	}

	return &api_response.BaseOutput{
		Code:    cerrors.OK.Code,
		Message: cerrors.OK.Message,
		Data:    frame,
		Count:   len(frame.Pages),
	}, nil
}

func (svc *FrameService) PageFrame(ctx *gin.Context, input *PageFrameInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "page-frame-handler")
	defer span.End()

	if input.Page < 0 || input.Page >= svc.pageCount {
		return nil, cerrors.ErrPageOutOfRange.WithMessage("page [%d] is out of range [0, %d)", input.Page, svc.pageCount)
	}
	if svc.cache == nil {
		return nil, cerrors.ErrNoFrameAvailable
	}
	page, ok := pipeline.CachedPage(svc.cache, input.Page)
	if !ok {
		return nil, cerrors.ErrNoFrameAvailable
	}

	return &api_response.BaseOutput{
		Code:    cerrors.OK.Code,
		Message: cerrors.OK.Message,
		Data:    page,
		Count:   len(page.Gauges),
	}, nil
}
