package service

import (
	"time"

	"foodlog/internal/models"
)

// LogFilter supports journal filtering by time range, type and session.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", "SESSION_START", "SUBMIT", "COMPLETE", ...
	SessionID string
}

// SessionTicket is returned when a session is created.
type SessionTicket struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	Session   models.SessionSnapshot `json:"session"`
}
