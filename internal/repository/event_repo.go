package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foodlog/internal/models"

	"github.com/google/uuid"
)

const (
	sqliteTimestampLayout = "2006-01-02 15:04:05"

	insertScanEventSQL = `
		INSERT INTO scan_events (id, occurred_at, session_id, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectScanEventsSQL = `SELECT id, occurred_at, session_id, type, message, meta FROM scan_events`
	// insertion order breaks ties within the same second
	orderScanEventsSQL = ` ORDER BY occurred_at ASC, rowid ASC`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.ScanEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var metaPtr *string
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for event %s: %w", e.EventID, err)
		}
		s := string(b)
		metaPtr = &s
	}

	_, err := r.db.ExecContext(ctx, insertScanEventSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		e.SessionID,
		normalizeType(e.Type),
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert scan event %s: %w", e.EventID, err)
	}
	return nil
}

// List returns events matching q, ordered by occurrence.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.ScanEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(sqliteTimestampLayout))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(sqliteTimestampLayout))
	}
	if typ := normalizeType(q.Type); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if sid := strings.TrimSpace(q.SessionID); sid != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, sid)
	}

	query := selectScanEventsSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderScanEventsSQL

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scan events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScanEvent, 0, 64)
	for rows.Next() {
		var ev models.ScanEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.SessionID, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan events: %w", err)
	}
	return out, nil
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
