package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"foodlog/internal/flow"
	"foodlog/internal/models"
	"foodlog/internal/repository"
	"foodlog/internal/repository/db"
)

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	plus2 := time.FixedZone("UTC+2", 2*3600)
	day := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      LogFilter
		want    repository.EventQuery
		invalid bool
	}{
		{
			name: "empty filter lists everything",
			in:   LogFilter{},
			want: repository.EventQuery{},
		},
		{
			name: "session only",
			in:   LogFilter{SessionID: "s1"},
			want: repository.EventQuery{SessionID: "s1"},
		},
		{
			name: "session id trimmed",
			in:   LogFilter{SessionID: "  s1\t"},
			want: repository.EventQuery{SessionID: "s1"},
		},
		{
			name: "type uppercased within a session",
			in:   LogFilter{SessionID: "s1", Type: " analysis_failed "},
			want: repository.EventQuery{SessionID: "s1", Type: flow.EventAnalysisFailed},
		},
		{
			name: "local bounds converted to UTC",
			in:   LogFilter{From: time.Date(2025, time.September, 10, 10, 0, 0, 0, plus2), To: day},
			want: repository.EventQuery{From: day.Add(-4 * time.Hour), To: day},
		},
		{
			name: "equal bounds allowed",
			in:   LogFilter{From: day, To: day},
			want: repository.EventQuery{From: day, To: day},
		},
		{
			name: "open ended range",
			in:   LogFilter{From: day},
			want: repository.EventQuery{From: day},
		},
		{
			name:    "reversed range",
			in:      LogFilter{SessionID: "s1", From: day, To: day.Add(-time.Second)},
			invalid: true,
		},
		{
			name:    "reversed across zones",
			in:      LogFilter{From: time.Date(2025, time.September, 10, 13, 0, 0, 0, plus2), To: day.Add(-2 * time.Hour)},
			invalid: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, err := normalizeAndValidateFilter(tc.in)
			if got := IsInvalidFilter(err); got != tc.invalid {
				t.Fatalf("IsInvalidFilter(%v) = %v; want %v", err, got, tc.invalid)
			}
			if tc.invalid {
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !q.From.Equal(tc.want.From) || !q.To.Equal(tc.want.To) {
				t.Fatalf("bounds = [%v, %v]; want [%v, %v]", q.From, q.To, tc.want.From, tc.want.To)
			}
			if !q.From.IsZero() && q.From.Location() != time.UTC {
				t.Fatalf("from not in UTC: %v", q.From.Location())
			}
			if q.Type != tc.want.Type || q.SessionID != tc.want.SessionID {
				t.Fatalf("query = %+v; want %+v", q, tc.want)
			}
		})
	}
}

func TestIsInvalidFilter(t *testing.T) {
	t.Parallel()

	if IsInvalidFilter(nil) {
		t.Fatalf("nil reported as invalid filter")
	}
	if IsInvalidFilter(errors.New("db down")) {
		t.Fatalf("repository error reported as invalid filter")
	}
	if !IsInvalidFilter(errInvalidTimeRange) {
		t.Fatalf("time range error not recognised")
	}
}

func TestEventLogService_List_ValidationSkipsRepo(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{}
	svc := NewEventLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{
		SessionID: "s1",
		From:      time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !IsInvalidFilter(err) {
		t.Fatalf("expected invalid filter; got %v", err)
	}
	if frepo.calls != 0 {
		t.Fatalf("repo should not be called on validation error, calls=%d", frepo.calls)
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	frepo := &fakeEventRepo{err: errors.New("db down")}
	svc := NewEventLogService(frepo)

	_, err := svc.List(context.Background(), LogFilter{SessionID: " s1 "})
	if !errors.Is(err, frepo.err) || IsInvalidFilter(err) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
	if frepo.gotQuery.SessionID != "s1" {
		t.Fatalf("repo SessionID=%q; want s1", frepo.gotQuery.SessionID)
	}
}

func TestEventLogService_ListsOneSessionFromJournal(t *testing.T) {
	t.Parallel()

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repo := repository.NewRepository(conn).EventRepo
	j := NewJournal(repo, nil)
	j.SessionStarted("s1")
	j.SessionStarted("s2")
	j.Observe(flow.Event{SessionID: "s1", Seq: 1, Type: flow.EventStartCapture, From: models.ScreenHome, To: models.ScreenCapture})
	j.Observe(flow.Event{SessionID: "s2", Seq: 1, Type: flow.EventStartCapture, From: models.ScreenHome, To: models.ScreenCapture})
	j.Observe(flow.Event{SessionID: "s1", Seq: 2, Type: flow.EventHome, From: models.ScreenCapture, To: models.ScreenHome})

	svc := NewEventLogService(repo)
	got, err := svc.List(context.Background(), LogFilter{SessionID: " s1 "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantTypes := []string{EventSessionStart, flow.EventStartCapture, flow.EventHome}
	if len(got) != len(wantTypes) {
		t.Fatalf("got %d events; want %d: %+v", len(got), len(wantTypes), got)
	}
	for i, ev := range got {
		if ev.SessionID != "s1" || ev.Type != wantTypes[i] {
			t.Fatalf("event %d = %s/%s; want s1/%s", i, ev.SessionID, ev.Type, wantTypes[i])
		}
	}
	meta, ok := got[2].Metadata.(map[string]any)
	if !ok || meta["seq"] != float64(2) {
		t.Fatalf("seq not journaled: %#v", got[2].Metadata)
	}

	homes, err := svc.List(context.Background(), LogFilter{SessionID: "s2", Type: "home"})
	if err != nil {
		t.Fatalf("List s2: %v", err)
	}
	if len(homes) != 0 {
		t.Fatalf("s2 has no HOME events, got %+v", homes)
	}
}
