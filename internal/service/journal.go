package service

import (
	"context"
	"time"

	"foodlog/internal/flow"
	"foodlog/internal/logger"
	"foodlog/internal/models"
	"foodlog/internal/repository"

	"github.com/google/uuid"
)

// Session lifecycle event types.
const (
	EventSessionStart = "SESSION_START"
	EventSessionEnd   = "SESSION_END"
)

const journalWriteTimeout = 2 * time.Second

var eventDescriptions = map[string]string{
	EventSessionStart:        "Session started",
	EventSessionEnd:          "Session ended",
	flow.EventStartCapture:   "Capture screen opened",
	flow.EventPreview:        "Image selected",
	flow.EventSubmit:         "Image submitted for analysis",
	flow.EventComplete:       "Analysis complete",
	flow.EventAnalysisFailed: "Analysis failed",
	flow.EventSave:           "Meal confirmed",
	flow.EventHome:           "Returned home",
}

// Journal turns flow events into ScanEvents. It never records the image
// payload, only its fingerprint and size.
type Journal struct {
	repo repository.EventRepo
	log  *logger.Logger
	now  func() time.Time
}

func NewJournal(repo repository.EventRepo, log *logger.Logger) *Journal {
	if log == nil {
		log = logger.Nop()
	}
	return &Journal{repo: repo, log: log, now: time.Now}
}

// Observe implements flow.Observer.
func (j *Journal) Observe(ev flow.Event) {
	// rejected files are user feedback only
	if ev.Type == flow.EventInvalidFile {
		return
	}

	meta := map[string]any{
		"from": string(ev.From),
		"to":   string(ev.To),
		"seq":  ev.Seq,
	}
	if ev.Image != nil {
		meta["mime"] = ev.Image.MimeType
		meta["size"] = ev.Image.Size
		meta["fingerprint"] = ev.Image.Fingerprint
	}
	if ev.Detail != "" {
		meta["detail"] = ev.Detail
	}
	j.record(ev.SessionID, ev.Type, meta)
}

// SessionStarted records the creation of a session.
func (j *Journal) SessionStarted(sessionID string) {
	j.record(sessionID, EventSessionStart, map[string]any{"to": string(models.ScreenHome)})
}

// SessionEnded records the end of a session and why it ended.
func (j *Journal) SessionEnded(sessionID string, from models.ScreenState, reason string) {
	j.record(sessionID, EventSessionEnd, map[string]any{"from": string(from), "reason": reason})
}

func (j *Journal) record(sessionID, typ string, meta map[string]any) {
	if j.repo == nil {
		return
	}
	desc, ok := eventDescriptions[typ]
	if !ok {
		desc = typ
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	err := j.repo.Append(ctx, models.ScanEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  j.now().UTC(),
		SessionID:   sessionID,
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		j.log.Errorw("journal_append_failed", "session_id", sessionID, "type", typ, "error", err)
	}
}
