package protocol

import (
	"encoding/json"
)

const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgFrame   = "frame"
	MsgDone    = "done"
)

const (
	Version     = 1
	FrameHz     = 30
	BroadcastHz = 30
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}
