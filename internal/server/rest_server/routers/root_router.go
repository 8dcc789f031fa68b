package routers

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/server/rest_server/middlewares"
	"github.com/okieraised/udashboard/internal/server/rest_server/routers/v1/restful"
	"github.com/okieraised/udashboard/internal/server/rest_server/routers/v1/ws"
)

type RootRouter struct {
	appState       *AppState
	requestTimeout time.Duration
}

func NewRootRouter(appState *AppState, requestTimeout time.Duration) *RootRouter {
	return &RootRouter{
		appState:       appState,
		requestTimeout: requestTimeout,
	}
}

func (rr *RootRouter) InitRouters(engine *gin.Engine) {
	// http
	rootAPIRouter := engine.Group("/api")
	if rr.requestTimeout > 0 {
		rootAPIRouter.Use(middlewares.RequestTimeoutMW(rr.requestTimeout))
	}
	rootAPIRouter.Use(
		gzip.Gzip(gzip.DefaultCompression),
		middlewares.ResponseHashMW(),
	)
	v1Router := rootAPIRouter.Group("/v1")
	{
		healthcheckRouter := restful.NewHealthcheckRouter(rr.appState.GetV1RestState().GetHealthcheckService())
		healthcheckRouter.Routes(v1Router)

		frameRouter := restful.NewFrameRouter(rr.appState.GetV1RestState().GetFrameService())
		frameRouter.Routes(v1Router)

		channelRouter := restful.NewChannelRouter(rr.appState.GetV1RestState().GetChannelService())
		channelRouter.Routes(v1Router)

		dashboardRouter := restful.NewDashboardRouter(rr.appState.GetV1RestState().GetDashboardService())
		dashboardRouter.Routes(v1Router)
	}

	// websocket
	if rr.appState.GetWebsocketState() != nil {
		rootWSRouter := engine.Group("/ws")
		websocketRouter := ws.NewWebsocketRouter(rr.appState.GetWebsocketState().GetWebsocketService())
		websocketRouter.Routes(rootWSRouter)
	}
}
