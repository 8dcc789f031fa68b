package restful

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"go.opentelemetry.io/otel/trace"
)

type FrameRouter struct {
	svc    restful.IFrameService
	logger *log.Logger
	tracer trace.Tracer
}

func NewFrameRouter(svc restful.IFrameService) *FrameRouter {
	logger := log.MustNewECSLogger()
	return &FrameRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("frame_http"),
	}
}

func (r *FrameRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("/frames")
	routes.GET("/latest", r.latest)
	routes.GET("/pages/:page", r.page)
}

func (r *FrameRouter) latest(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, requestIDAttr(ctx))
	defer span.End()

	resp := api_response.New[any](ctx)
	result, appErr := r.svc.LatestFrame(ctx, &restful.LatestFrameInput{TracerCtx: rootCtx, Tracer: r.tracer})
	if appErr != nil {
		r.logger.Debug(appErr.Error())
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	resp.Populate(result.Code, result.Message, result.Data, nil, result.Count)
	ctx.JSON(http.StatusOK, resp)
}

func (r *FrameRouter) page(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, requestIDAttr(ctx))
	defer span.End()

	resp := api_response.New[any](ctx)
	page, err := strconv.Atoi(ctx.Param("page"))
	if err != nil {
		appErr := cerrors.ErrGenericBadRequest.WithMessage("page must be an integer, got [%s]", ctx.Param("page"))
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	result, appErr := r.svc.PageFrame(ctx, &restful.PageFrameInput{TracerCtx: rootCtx, Tracer: r.tracer, Page: page})
	if appErr != nil {
		r.logger.Debug(appErr.Error())
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	resp.Populate(result.Code, result.Message, result.Data, nil, result.Count)
	ctx.JSON(http.StatusOK, resp)
}
