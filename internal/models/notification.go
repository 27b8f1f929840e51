package models

import "time"

// Notification levels shown on the toast surface.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is a transient user-facing message.
type Notification struct {
	Level       string    `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}
