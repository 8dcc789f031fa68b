package ws

import (
	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/tracer_client"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/ws"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type WebsocketRouter struct {
	svc    ws.IWebsocketService
	logger *log.Logger
	tracer trace.Tracer
}

func NewWebsocketRouter(svc ws.IWebsocketService) *WebsocketRouter {
	logger := log.MustNewECSLogger()
	return &WebsocketRouter{
		svc:    svc,
		logger: logger,
		tracer: tracer_client.Tracer("websocket_router"),
	}
}

func (r *WebsocketRouter) Routes(engine *gin.RouterGroup) {
	routes := engine.Group("")
	routes.GET("/frames", r.frames)
}

func (r *WebsocketRouter) frames(ctx *gin.Context) {
	rootCtx, span := r.tracer.Start(ctx, ctx.Request.URL.Path, trace.WithAttributes(attribute.KeyValue{
		Key:   constants.APIFieldRequestID,
		Value: attribute.StringValue(ctx.GetString(constants.APIFieldRequestID)),
	}))
	defer span.End()

	r.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	).Debug("Received new websocket handshake for frame streaming")

	// The upgrader has already answered the client on failure.
	if _, err := r.svc.Subscribe(ctx, rootCtx, r.tracer); err != nil {
		r.logger.Error(err.Error())
	}
}
