package models

import "encoding/json"

// Delivery outcome classification. Every attempted item resolves to
// exactly one of these regardless of how many attempts it took.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// DeliveryOutcome records the final result of delivering one scouting
// report to the target API.
type DeliveryOutcome struct {
	Status     string          `json:"status"`
	Identifier string          `json:"identifier"`
	StatusCode int             `json:"statusCode,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}
