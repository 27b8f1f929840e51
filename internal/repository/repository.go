package repository

import (
	"context"
	"database/sql"
	"time"

	"foodlog/internal/models"
)

// EventQuery filters the journal. Zero values mean "no bound".
type EventQuery struct {
	From      time.Time
	To        time.Time
	Type      string
	SessionID string
}

type EventRepo interface {
	Append(ctx context.Context, e models.ScanEvent) error
	List(ctx context.Context, q EventQuery) ([]models.ScanEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
