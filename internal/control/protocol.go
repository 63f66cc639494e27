package control

import (
	"encoding/json"
	"fmt"
)

// Message types accepted on the control socket and data channel.
const (
	MsgAction       = "action"
	MsgBatch        = "batch"
	MsgScript       = "script"
	MsgReset        = "reset"
	MsgInputEnabled = "inputEnabled"
	MsgCursor       = "cursor"
	MsgResult       = "result"
)

// Message is a control payload.
type Message struct {
	T       string   `json:"t"`
	Seq     int64    `json:"seq,omitempty"`
	Action  *Action  `json:"action,omitempty"`
	Actions []Action `json:"actions,omitempty"`
	Name    string   `json:"name,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// Point is a cursor position in virtual-desktop pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Reply answers a single Message. Index is the failed action of a batch.
type Reply struct {
	T       string `json:"t"`
	Seq     int64  `json:"seq"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Index   *int   `json:"index,omitempty"`
	Cursor  *Point `json:"cursor,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// ParseMessage decodes a control payload and checks its type tag.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.T == "" {
		return Message{}, fmt.Errorf("decode message: missing type")
	}
	return msg, nil
}

// failure builds an error reply for seq.
func failure(seq int64, err error) Reply {
	return Reply{T: MsgResult, Seq: seq, Error: err.Error()}
}

// success builds an ok reply for seq.
func success(seq int64) Reply {
	return Reply{T: MsgResult, Seq: seq, OK: true}
}
