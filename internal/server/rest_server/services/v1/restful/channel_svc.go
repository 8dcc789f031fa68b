package restful

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/ir"
	"github.com/okieraised/udashboard/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type IChannelService interface {
	ListChannels(ctx *gin.Context, input *ListChannelsInput) (*api_response.BaseOutput, *cerrors.AppError)
	UpdateChannel(ctx *gin.Context, input *UpdateChannelInput) (*api_response.BaseOutput, *cerrors.AppError)
}

type ChannelService struct {
	logger *log.Logger
	store  *telemetry.Store
}

func NewChannelService(options ...func(*ChannelService)) *ChannelService {
	svc := &ChannelService{}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.logger = logger
	return svc
}

func WithTelemetryStore(store *telemetry.Store) func(*ChannelService) {
	return func(c *ChannelService) {
		c.store = store
	}
}

type ListChannelsInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type UpdateChannelInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
	Name      string
	Value     float64
}

// UpdateChannelRequest is the body of PUT /channels/:name.
type UpdateChannelRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

type ChannelOutput struct {
	Name     string  `json:"name"`
	Units    string  `json:"units,omitempty"`
	Transfer string  `json:"transfer"`
	Value    float64 `json:"value"`
}

type ChannelListOutput struct {
	SnapshotSeq uint64          `json:"snapshot_seq"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Channels    []ChannelOutput `json:"channels"`
}

func (svc *ChannelService) ListChannels(ctx *gin.Context, input *ListChannelsInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "list-channels-handler")
	defer span.End()

	snap := svc.store.Snapshot()
	channels := svc.store.Channels()
	out := ChannelListOutput{
		SnapshotSeq: snap.Seq(),
		UpdatedAt:   snap.Time(),
		Channels:    make([]ChannelOutput, 0, len(channels)),
	}
	for _, ch := range channels {
		value, _ := snap.Lookup(ch.Name)
		out.Channels = append(out.Channels, ChannelOutput{
			Name:     ch.Name,
			Units:    ir.UnitName(ch.Units),
			Transfer: transferName(ch.Transfer),
			Value:    value,
		})
	}

	return &api_response.BaseOutput{
		Code:    cerrors.OK.Code,
		Message: cerrors.OK.Message,
		Data:    out,
		Count:   len(out.Channels),
	}, nil
}

func (svc *ChannelService) UpdateChannel(ctx *gin.Context, input *UpdateChannelInput) (*api_response.BaseOutput, *cerrors.AppError) {
	_, span := input.Tracer.Start(input.TracerCtx, "update-channel-handler")
	defer span.End()

	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
		zap.String("channel", input.Name),
	)

	value, err := svc.store.Update(input.Name, input.Value)
	if err != nil {
		lg.Warn(err.Error())
		var appErr *cerrors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, cerrors.ErrGenericInternalServer.WithCause(err)
	}
	lg.Debug(fmt.Sprintf("Channel set to [%v] from raw [%v]", value, input.Value))

	return &api_response.BaseOutput{
		Code:    cerrors.OK.Code,
		Message: cerrors.OK.Message,
		Data:    ChannelOutput{Name: input.Name, Value: value},
	}, nil
}

func transferName(f ir.Function) string {
	switch f.(type) {
	case nil, ir.Identity:
		return "identity"
	case ir.ScaleBy:
		return "scale"
	case ir.Linear:
		return "linear"
	case ir.Polynomial:
		return "polynomial"
	default:
		return fmt.Sprintf("%T", f)
	}
}
