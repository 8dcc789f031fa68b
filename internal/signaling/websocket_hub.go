package signaling

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okieraised/udashboard/internal/common"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/pipeline"
)

const broadcastBuffer = 4

// WebsocketHub fans frames out to every connected render backend.
type WebsocketHub struct {
	agentID    string
	headerID   atomic.Int64
	clients    map[*WebsocketClient]bool // Registered clients.
	broadcast  chan *pipeline.Frame      // Frames from the engine.
	register   chan *WebsocketClient     // Register requests from the clients.
	unregister chan *WebsocketClient     // Unregistered clients.
	count      atomic.Int64
}

func (h *WebsocketHub) GetRegister() chan *WebsocketClient {
	return h.register
}

// ClientCount is safe to call from any goroutine.
func (h *WebsocketHub) ClientCount() int {
	return int(h.count.Load())
}

func NewWebsocketHub(agentID string) *WebsocketHub {
	return &WebsocketHub{
		agentID:    agentID,
		clients:    make(map[*WebsocketClient]bool),
		broadcast:  make(chan *pipeline.Frame, broadcastBuffer),
		register:   make(chan *WebsocketClient),
		unregister: make(chan *WebsocketClient),
	}
}

func (h *WebsocketHub) Run(ctx context.Context) {
	log.Default().Info("Starting to listen for new clients and frames")
	go func() {
		for {
			select {
			case client := <-h.register:
				h.RegisterNewClient(client)
			case client := <-h.unregister:
				h.RemoveClient(client)
			case frame := <-h.broadcast:
				h.HandleFrame(frame)
			case <-ctx.Done():
				log.Default().Info("Shutting down frame websocket hub")
				for client := range h.clients {
					h.RemoveClient(client)
				}
				return
			}
		}
	}()
}

// PublishFrame queues frame for broadcast. It never blocks the engine; when
// the hub falls behind the frame is dropped.
func (h *WebsocketHub) PublishFrame(frame *pipeline.Frame) {
	select {
	case h.broadcast <- frame:
	default:
		log.Default().Debug(fmt.Sprintf("Hub is busy, dropping frame [%d]", frame.Seq))
	}
}

func (h *WebsocketHub) RegisterNewClient(client *WebsocketClient) {
	if _, ok := h.clients[client]; !ok {
		log.Default().Debug(fmt.Sprintf("Registering new client with id [%s]", client.ID.String()))
		h.clients[client] = true
		h.count.Store(int64(len(h.clients)))
	} else {
		log.Default().Debug(fmt.Sprintf("Client with id [%s] already registered", client.ID.String()))
	}
	log.Default().Debug(fmt.Sprintf("There are [%d] clients connected", len(h.clients)))
}

func (h *WebsocketHub) RemoveClient(client *WebsocketClient) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		h.count.Store(int64(len(h.clients)))
		client.Close()
		log.Default().Debug(fmt.Sprintf("Client with id [%s] disconnected", client.ID.String()))
	}
}

func (h *WebsocketHub) HandleFrame(frame *pipeline.Frame) {
	for client := range h.clients {
		msg, ok := h.frameMessage(frame, client.Page())
		if !ok {
			continue
		}
		if !client.Send(msg) {
			log.Default().Debug(fmt.Sprintf("Client [%s] is too slow, dropping frame [%d]", client.ID, frame.Seq))
		}
	}
}

// frameMessage cuts the frame down to the page the client asked for.
func (h *WebsocketHub) frameMessage(frame *pipeline.Frame, page int) (common.FrameMessage, bool) {
	body := common.FrameBody{Type: constants.MsgTypeFrame, Frame: frame}
	if page >= 0 {
		pf, ok := frame.Page(page)
		if !ok {
			return common.FrameMessage{}, false
		}
		body.Page = &page
		body.Frame = pf
	}
	return common.FrameMessage{
		Header:  h.header(),
		Payload: body,
	}, true
}

func (h *WebsocketHub) header() common.Header {
	return common.Header{
		HeaderID:     h.headerID.Add(1),
		Version:      constants.MessageVersion,
		Manufacturer: constants.MessageManufacturer,
		AgentID:      h.agentID,
		Timestamp:    time.Now(),
		MessageType:  constants.MsgHeaderTypeDashboard,
	}
}
