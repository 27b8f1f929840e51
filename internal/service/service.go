package service

import (
	"context"
	"time"

	"foodlog/internal/flow"
	"foodlog/internal/logger"
	"foodlog/internal/models"
	"foodlog/internal/repository"
)

// Sessions creates, resolves and ends scan sessions.
type Sessions interface {
	Create(ctx context.Context) (SessionTicket, error)
	Authorize(token string) (string, error)
	Flow(id string) (Flow, error)
	End(ctx context.Context, id string) error
}

// Flow is the per-session screen state machine as seen by handlers.
type Flow interface {
	StartCapture() error
	NewScan() error
	ReturnHome()
	ProcessFile(f *flow.ImageFile) (<-chan models.CapturedImage, error)
	ClearPreview() error
	Analyze() error
	SubmitImage(img models.CapturedImage) error
	Results() (*flow.Results, error)
	Save() error
	Snapshot() models.SessionSnapshot
	Notifications() []models.Notification
	Subscribe() (<-chan models.Notification, func())
}

// EventLog exposes the append-only session journal with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ScanEvent, error)
}

// Reaper runs the background loop that drops idle sessions.
// Stop via context cancellation for graceful shutdown.
type Reaper interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Sessions
	EventLog
	Reaper
}

// Config carries the knobs the service layer needs.
type Config struct {
	SessionTTL time.Duration
	SigningKey string
	Timings    flow.Timings
	Analyzer   flow.Analyzer
}

func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	journal := NewJournal(repos.EventRepo, log)
	sessions := NewSessionService(cfg, journal, log)
	return &Service{
		Sessions: sessions,
		EventLog: NewEventLogService(repos.EventRepo),
		Reaper:   sessions,
	}
}
