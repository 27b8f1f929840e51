package models

import "time"

// ScanEvent is a single journal entry for a session.
type ScanEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	SessionID   string    `json:"session_id"`
	Type        string    `json:"type"`        // SESSION_START | START_CAPTURE | PREVIEW | SUBMIT | COMPLETE | ANALYSIS_FAILED | SAVE | HOME | SESSION_END
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
