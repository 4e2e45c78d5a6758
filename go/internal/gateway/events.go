package gateway

import (
	"github.com/FaneD1/Pomadoro/go/internal/projection"
)

// Event types carried over the realtime channel.
const (
	// Inbound.
	EventPing         = "ping"
	EventStateRequest = "state:request"

	// Outbound.
	EventPong      = "pong"
	EventUserState = "user:state"
)

// Event is the JSON envelope for every outbound realtime message.
type Event struct {
	Type   string               `json:"type"`
	UserID string               `json:"userId,omitempty"`
	Data   *projection.Snapshot `json:"data,omitempty"`
}

// clientMessage is the envelope clients send; only the type matters, any
// extra fields are ignored.
type clientMessage struct {
	Type string `json:"type"`
}
