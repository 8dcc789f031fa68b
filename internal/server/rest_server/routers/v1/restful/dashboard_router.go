package restful

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"go.opentelemetry.io/otel/trace"
)

type DashboardRouter struct {
	svc    restful.IDashboardService
	logger *log.Logger
	tracer trace.Tracer
}

func NewDashboardRouter(svc restful.IDashboardService) *DashboardRouter {
	logger := log.MustNewECSLogger()
	return &DashboardRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("dashboard_http"),
	}
}

func (r *DashboardRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("/dashboard")
	routes.GET("/validate", r.validate)
}

func (r *DashboardRouter) validate(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, requestIDAttr(ctx))
	defer span.End()

	resp := api_response.New[any](ctx)
	result, appErr := r.svc.Validate(ctx, &restful.ValidateDashboardInput{TracerCtx: rootCtx, Tracer: r.tracer})
	if appErr != nil {
		r.logger.Error(appErr.Error())
		resp.Populate(appErr.Code, appErr.Message, nil, nil, nil)
		ctx.JSON(appErr.HTTPStatus, resp)
		return
	}

	resp.Populate(result.Code, result.Message, result.Data, nil, result.Count)
	ctx.JSON(http.StatusOK, resp)
}
