package push

import (
	"encoding/json"
	"time"
)

// Kind tags a push message. Unknown kinds are dropped by the channel.
type Kind string

const (
	KindSensorReading   Kind = "sensor_reading"
	KindAlert           Kind = "alert"
	KindLifecycleUpdate Kind = "lifecycle_update"
	KindConnected       Kind = "connected"
)

// knownKinds is the set of message kinds the channel will dispatch.
var knownKinds = map[Kind]bool{
	KindSensorReading:   true,
	KindAlert:           true,
	KindLifecycleUpdate: true,
	KindConnected:       true,
}

// Envelope is the wire format of a push message.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

// Handler receives the payload of one message kind.
type Handler func(data json.RawMessage, timestamp *time.Time)
