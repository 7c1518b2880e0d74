package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{63, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection closed", errors.New("connection closed by server"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"channel not open", errors.New("Exception (504) channel/connection is not open"), true},
		{"validation error", errors.New("record sync message missing id"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRecordSyncMessage_RoundTrip(t *testing.T) {
	msg := NewRecordSyncMessage("abc-123", "expense")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := RecordSyncMessageFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "abc-123" || got.Kind != "expense" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestRecordSyncMessageFromJSON_Invalid(t *testing.T) {
	if _, err := RecordSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := RecordSyncMessageFromJSON([]byte(`{"kind":"expense"}`)); err == nil {
		t.Error("expected error for missing id")
	}
}
