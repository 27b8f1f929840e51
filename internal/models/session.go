package models

import "time"

// ProcessingProgress is the cosmetic state of the analyzing screen.
type ProcessingProgress struct {
	Percent    int    `json:"percent"`    // 0..100
	StepIndex  int    `json:"step_index"` // 0..PhaseCount-1
	PhaseCount int    `json:"phase_count"`
	Phase      string `json:"phase"`
}

// SessionSnapshot is a read-only view of one scan session.
type SessionSnapshot struct {
	ID                   string              `json:"id"`
	Screen               ScreenState         `json:"screen"`
	Preview              *CapturedImage      `json:"preview,omitempty"`
	Image                *CapturedImage      `json:"image,omitempty"`
	Progress             *ProcessingProgress `json:"progress,omitempty"`
	Saving               bool                `json:"saving,omitempty"`
	PendingNotifications int                 `json:"pending_notifications"`
	UpdatedAt            time.Time           `json:"updated_at"`
}
