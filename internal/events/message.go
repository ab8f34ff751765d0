package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Message is the wire form of a ledger event. Consumers fetch the current state
// of the entity by ID; the message carries no amounts.
type Message struct {
	Kind      ledger.EventKind `json:"kind"`
	ID        uuid.UUID        `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
}

func NewMessage(e ledger.Event) *Message {
	return &Message{
		Kind:      e.Kind,
		ID:        e.ID,
		Timestamp: e.At,
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
