package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordSyncMessage tells the worker that a queued write is ready to be
// applied. It carries only the queue id and kind; the worker loads the full
// payload from SQLite.
type RecordSyncMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(id, kind string) *RecordSyncMessage {
	return &RecordSyncMessage{
		ID:        id,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal record sync message: %w", err)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("record sync message missing id")
	}
	return &msg, nil
}
