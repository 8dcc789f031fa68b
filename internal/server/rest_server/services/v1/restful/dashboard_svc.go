package restful

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/ir"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

type IDashboardService interface {
	Validate(ctx *gin.Context, input *ValidateDashboardInput) (*api_response.BaseOutput, *cerrors.AppError)
}

type DashboardService struct {
	cfg *ir.Config
}

func NewDashboardService(options ...func(*DashboardService)) *DashboardService {
	svc := &DashboardService{}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

func WithDashboardConfig(cfg *ir.Config) func(*DashboardService) {
	return func(c *DashboardService) {
		c.cfg = cfg
	}
}

type ValidateDashboardInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type ProblemOutput struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidateDashboardOutput struct {
	Valid    bool            `json:"valid"`
	Pages    int             `json:"pages"`
	Gauges   int             `json:"gauges"`
	Channels int             `json:"channels"`
	Rules    int             `json:"rules"`
	Problems []ProblemOutput `json:"problems"`
}

func (svc *DashboardService) Validate(ctx *gin.Context, input *ValidateDashboardInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "validate-dashboard-handler")
	defer span.End()

	if svc.cfg == nil {
		return nil, cerrors.ErrGenericUnavailable.WithMessage("no dashboard loaded")
	}

	errs := multierr.Errors(svc.cfg.Validate())
	out := ValidateDashboardOutput{
		Valid:    len(errs) == 0,
		Pages:    len(svc.cfg.Pages),
		Gauges:   svc.cfg.GaugeCount(),
		Channels: len(svc.cfg.Channels),
		Rules:    len(svc.cfg.Logic),
		Problems: make([]ProblemOutput, 0, len(errs)),
	}
	for _, err := range errs {
		out.Problems = append(out.Problems, ProblemOutput{Code: cerrors.CodeOf(err), Message: cerrors.MessageOf(err)})
	}

	return &api_response.BaseOutput{
		Code:    cerrors.OK.Code,
		Message: cerrors.OK.Message,
		Data:    out,
		Count:   len(out.Problems),
	}, nil
}
