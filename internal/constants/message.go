package constants

type MessageType string

const (
	MsgTypeFrame     MessageType = "Frame"
	MsgTypeSubscribe MessageType = "Subscribe"
	MsgTypeError     MessageType = "Error"
)

type MessageHeaderType string

const (
	MsgHeaderTypeDashboard = "dashboard"
)

const (
	MessageVersion      = "1.0.0"
	MessageManufacturer = "udashboard"
)
