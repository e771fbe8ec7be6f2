package models

import "encoding/json"

// Event types emitted by mutating API operations.
const (
	EventPlayerCreated = "player.created"
	EventScoreCreated  = "score.created"
	EventScoreUpdated  = "score.updated"
	EventTest          = "test"
)

// Event is an ephemeral domain event. Events are dispatched to webhook
// subscribers and never persisted.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
