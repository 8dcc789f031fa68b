package routers

import (
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/restful"
	"github.com/okieraised/udashboard/internal/server/rest_server/services/v1/ws"
)

type V1Rest struct {
	healthcheck *restful.HealthcheckService
	frame       *restful.FrameService
	channel     *restful.ChannelService
	dashboard   *restful.DashboardService
}

func NewV1RestState() *V1Rest {
	return &V1Rest{}
}

func (svc *V1Rest) SetHealthcheckService(healthcheck *restful.HealthcheckService) {
	svc.healthcheck = healthcheck
}

func (svc *V1Rest) GetHealthcheckService() *restful.HealthcheckService {
	return svc.healthcheck
}

func (svc *V1Rest) SetFrameService(frame *restful.FrameService) {
	svc.frame = frame
}

func (svc *V1Rest) GetFrameService() *restful.FrameService {
	return svc.frame
}

func (svc *V1Rest) SetChannelService(channel *restful.ChannelService) {
	svc.channel = channel
}

func (svc *V1Rest) GetChannelService() *restful.ChannelService {
	return svc.channel
}

func (svc *V1Rest) SetDashboardService(dashboard *restful.DashboardService) {
	svc.dashboard = dashboard
}

func (svc *V1Rest) GetDashboardService() *restful.DashboardService {
	return svc.dashboard
}

type Websocket struct {
	websocket *ws.WebsocketService
}

func NewWebsocketState() *Websocket {
	return &Websocket{}
}

func (svc *Websocket) SetWebsocketService(websocket *ws.WebsocketService) {
	svc.websocket = websocket
}

func (svc *Websocket) GetWebsocketService() *ws.WebsocketService {
	return svc.websocket
}

type AppState struct {
	v1Rest    *V1Rest
	websocket *Websocket
}

func NewAppState() *AppState {
	return &AppState{}
}

func (svc *AppState) SetV1RestState(v1Rest *V1Rest) {
	svc.v1Rest = v1Rest
}

func (svc *AppState) GetV1RestState() *V1Rest {
	return svc.v1Rest
}

func (svc *AppState) GetWebsocketState() *Websocket {
	return svc.websocket
}

func (svc *AppState) SetWebsocketState(ws *Websocket) {
	svc.websocket = ws
}
