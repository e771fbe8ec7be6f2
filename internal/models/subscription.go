package models

// Subscription is a registered webhook endpoint. The URL is the unique
// key in the registry.
type Subscription struct {
	URL         string   `json:"url"`
	EventTypes  []string `json:"eventTypes"`
	Description string   `json:"description,omitempty"`
}

// Wants reports whether the subscription is interested in the given
// event type.
func (s Subscription) Wants(eventType string) bool {
	for _, t := range s.EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
