package common

import (
	"time"

	"github.com/okieraised/udashboard/internal/constants"
	"github.com/pkg/errors"
)

// FrameMessage is the envelope exchanged with render backends over the websocket.
type FrameMessage struct {
	Header  Header    `json:"header"`
	Payload FrameBody `json:"payload"`
}

// Header follows VDA5050-like metadata.
type Header struct {
	HeaderID     int64     `json:"headerId"`          // monotonic increasing
	Version      string    `json:"version"`           // message version, e.g. "1.0.0"
	Manufacturer string    `json:"manufacturer"`      // who created the message
	AgentID      string    `json:"agentId,omitempty"` // unique ID of the agent
	Timestamp    time.Time `json:"timestamp"`         // ISO 8601 timestamp
	MessageType  string    `json:"messageType"`
}

// FrameBody carries either a resolved frame (agent to client) or a page
// subscription (client to agent).
type FrameBody struct {
	Type  constants.MessageType `json:"type"`
	Page  *int                  `json:"page,omitempty"`  // nil means every page
	Frame any                   `json:"frame,omitempty"` // pipeline.Frame or pipeline.PageFrame
	Error string                `json:"error,omitempty"`
}

func (m *FrameMessage) ValidateSubscribe() error {
	if m.Header.MessageType != constants.MsgHeaderTypeDashboard {
		return errors.Errorf("invalid message type: %s", m.Header.MessageType)
	}
	if m.Payload.Type != constants.MsgTypeSubscribe {
		return errors.Errorf("unsupported payload type: %s", m.Payload.Type)
	}
	if m.Payload.Page != nil && *m.Payload.Page < 0 {
		return errors.Errorf("page must not be negative, got %d", *m.Payload.Page)
	}
	return nil
}
