package models

import "time"

// VibeEvent is a single entry in the append-only event log.
type VibeEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // PROPOSE | CONFIRM | DECLINE | SET_VIBE | SET_MODE | QUICK_SET | RESET
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
