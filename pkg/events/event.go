package events

import (
	"encoding/json"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DATA_ITEM_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() any

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Envelope is the wire form of an event on the bus.
type Envelope struct {
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Wrap encodes an event into its envelope.
func Wrap(e Event) (Envelope, error) {
	data, err := json.Marshal(e.Payload())
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: e.EventType(), Data: data, OccurredAt: e.Timestamp()}, nil
}

func (e Envelope) EventType() string { return e.Type }

func (e Envelope) Payload() any { return e.Data }

func (e Envelope) Timestamp() time.Time { return e.OccurredAt }

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
