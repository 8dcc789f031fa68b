package common

import (
	"testing"

	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/utilities"
	"github.com/stretchr/testify/assert"
)

func TestFrameMessage_ValidateSubscribe(t *testing.T) {
	tests := []struct {
		name    string
		msg     FrameMessage
		wantErr bool
	}{
		{
			name: "all pages",
			msg: FrameMessage{
				Header:  Header{MessageType: constants.MsgHeaderTypeDashboard},
				Payload: FrameBody{Type: constants.MsgTypeSubscribe},
			},
		},
		{
			name: "one page",
			msg: FrameMessage{
				Header:  Header{MessageType: constants.MsgHeaderTypeDashboard},
				Payload: FrameBody{Type: constants.MsgTypeSubscribe, Page: utilities.Ptr(1)},
			},
		},
		{
			name: "wrong header",
			msg: FrameMessage{
				Header:  Header{MessageType: "webrtc"},
				Payload: FrameBody{Type: constants.MsgTypeSubscribe},
			},
			wantErr: true,
		},
		{
			name: "frame from client",
			msg: FrameMessage{
				Header:  Header{MessageType: constants.MsgHeaderTypeDashboard},
				Payload: FrameBody{Type: constants.MsgTypeFrame},
			},
			wantErr: true,
		},
		{
			name: "negative page",
			msg: FrameMessage{
				Header:  Header{MessageType: constants.MsgHeaderTypeDashboard},
				Payload: FrameBody{Type: constants.MsgTypeSubscribe, Page: utilities.Ptr(-1)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateSubscribe()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
