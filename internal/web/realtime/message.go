package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// AckEvent is the event name of command acknowledgements
const AckEvent = "ack"

// Message is a single frame exchanged with a client. Outbound events carry
// Event and Data; acks additionally carry the Ack number of the command
// they answer.
type Message struct {
	Event string          `json:"event"`
	Ack   *int64          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrorResult is the ack payload of a failed command
type ErrorResult struct {
	Error string `json:"error"`
}

// NewConnectionID returns a fresh connection identifier
func NewConnectionID() string {
	return uuid.NewString()
}

func newAck(n int64, result any) (Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: AckEvent, Ack: &n, Data: data}, nil
}
