// Package protocol defines the JSON messages exchanged with live session
// clients over a websocket.
//
// A client opens with HELLO. The server answers with a FRAME holding the
// current grid and then pushes a FRAME after every change. Clients drive
// the session with CMD messages; rejected messages are answered with ERROR.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol_version clients must send in HELLO.
const Version = "1"

// Message types.
const (
	TypeHello = "HELLO"
	TypeCmd   = "CMD"
	TypeFrame = "FRAME"
	TypeError = "ERROR"
)

// Command ops.
const (
	OpPlace     = "place"
	OpClear     = "clear"
	OpRotate    = "rotate"
	OpSetActive = "set_active"
	OpStep      = "step"
	OpRun       = "run"
	OpPause     = "pause"
)

// Error codes.
const (
	ErrBadRequest = "E_BAD_REQUEST"
	ErrBadVersion = "E_BAD_VERSION"
	ErrRejected   = "E_REJECTED"
	ErrFull       = "E_FULL"
	ErrInternal   = "E_INTERNAL"
)

// BaseMessage routes a raw message by its type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

// CmdMsg edits or drives the session grid. X and Y address a cell for the
// cell ops; Kind and Dir describe the placed cell.
type CmdMsg struct {
	Type   string `json:"type"`
	Op     string `json:"op"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Kind   string `json:"kind,omitempty"`
	Dir    string `json:"dir,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// FrameMsg carries the serialized grid; Grid is base64 in JSON.
type FrameMsg struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Tick    uint64 `json:"tick"`
	Running bool   `json:"running"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Grid    []byte `json:"grid"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds an ERROR message.
func NewError(code, format string, args ...any) ErrorMsg {
	return ErrorMsg{Type: TypeError, Code: code, Message: fmt.Sprintf(format, args...)}
}
