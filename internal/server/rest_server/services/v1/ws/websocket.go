package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/signaling"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type IWebsocketService interface {
	Subscribe(ctx *gin.Context, tracerCtx context.Context, tracer trace.Tracer) (*api_response.BaseOutput, *cerrors.AppError)
}

type WebsocketService struct {
	hub      *signaling.WebsocketHub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewWebsocketService(options ...func(*WebsocketService)) *WebsocketService {
	var upgrader = websocket.Upgrader{
		HandshakeTimeout: 5 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	svc := &WebsocketService{}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.upgrader = upgrader
	svc.logger = logger

	return svc
}

func WithWebsocketHub(hub *signaling.WebsocketHub) func(*WebsocketService) {
	return func(c *WebsocketService) {
		c.hub = hub
	}
}

// Subscribe upgrades the request and registers the connection with the hub.
// The client receives every frame until it subscribes to a single page.
func (svc *WebsocketService) Subscribe(
	ctx *gin.Context,
	tracerCtx context.Context,
	tracer trace.Tracer,
) (*api_response.BaseOutput, *cerrors.AppError) {
	rootCtx, span := tracer.Start(tracerCtx, "subscribe-frames")
	defer span.End()

	resp := &api_response.BaseOutput{}
	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)
	if svc.hub == nil {
		return nil, cerrors.ErrGenericUnavailable.WithMessage("frame hub is not running")
	}

	_, cSpan := tracer.Start(rootCtx, "upgrade-connection")
	conn, err := svc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	cSpan.End()
	if err != nil {
		lg.Error(err.Error())
		return nil, cerrors.ErrGenericBadRequest.WithCause(err)
	}

	connID := uuid.New()
	lg.Info(fmt.Sprintf("New client connection established with ID: %s", connID.String()))
	client := signaling.NewWebsocketClient(connID, conn, svc.hub)

	svc.hub.GetRegister() <- client
	go client.Write()
	go client.Read()

	resp.Code = cerrors.OK.Code
	resp.Message = cerrors.OK.Message
	return resp, nil
}
