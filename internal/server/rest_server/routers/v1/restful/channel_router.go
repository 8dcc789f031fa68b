package restful

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"go.opentelemetry.io/otel/trace"
)

type ChannelRouter struct {
	svc    restful.IChannelService
	logger *log.Logger
	tracer trace.Tracer
}

func NewChannelRouter(svc restful.IChannelService) *ChannelRouter {
	logger := log.MustNewECSLogger()
	return &ChannelRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("channel_http"),
	}
}

func (r *ChannelRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("/channels")
	routes.GET("", r.list)
	routes.PUT("/:name", r.update)
}

func (r *ChannelRouter) list(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, requestIDAttr(ctx))
	defer span.End()

	resp := api_response.New[any](ctx)
	result, appErr := r.svc.ListChannels(ctx, &restful.ListChannelsInput{TracerCtx: rootCtx, Tracer: r.tracer})
	if appErr != nil {
		r.logger.Error(appErr.Error())
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	resp.Populate(result.Code, result.Message, result.Data, nil, result.Count)
	ctx.JSON(http.StatusOK, resp)
}

func (r *ChannelRouter) update(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, requestIDAttr(ctx))
	defer span.End()

	resp := api_response.New[any](ctx)
	var req restful.UpdateChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		appErr := cerrors.ErrInvalidChannelValue.WithMessage("invalid request body: %v", err)
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	result, appErr := r.svc.UpdateChannel(ctx, &restful.UpdateChannelInput{
		TracerCtx: rootCtx,
		Tracer:    r.tracer,
		Name:      ctx.Param("name"),
		Value:     *req.Value,
	})
	if appErr != nil {
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	resp.Populate(result.Code, result.Message, result.Data, nil, nil)
	ctx.JSON(http.StatusOK, resp)
}
