// Package hub fans session snapshots and camera frames out to websocket
// clients over per-client buffered channels.
package hub

import "github.com/gofiber/websocket/v2"

// MessageType selects the websocket frame a message is written as.
type MessageType int

const (
	// JSONMessage carries an encoded snapshot and goes out as a text frame.
	JSONMessage MessageType = iota
	// BinaryMessage carries a JPEG preview frame.
	BinaryMessage
)

func (t MessageType) String() string {
	if t == BinaryMessage {
		return "binary"
	}
	return "json"
}

// opcode maps t to the websocket frame type.
func (t MessageType) opcode() int {
	if t == BinaryMessage {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Message is one queued write.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps a binary payload such as a JPEG frame.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
