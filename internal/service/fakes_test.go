package service

import (
	"context"
	"sync"

	"foodlog/internal/models"
	"foodlog/internal/repository"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	gotCtx   context.Context
	gotQuery repository.EventQuery
	appended []models.ScanEvent

	// configured outputs
	events    []models.ScanEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.ScanEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotQuery = q
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.ScanEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

func (f *fakeEventRepo) last() models.ScanEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.appended) == 0 {
		return models.ScanEvent{}
	}
	return f.appended[len(f.appended)-1]
}

func repositoryWith(events repository.EventRepo) *repository.Repository {
	return &repository.Repository{EventRepo: events}
}

func (f *fakeEventRepo) has(typ string) bool {
	for _, got := range f.types() {
		if got == typ {
			return true
		}
	}
	return false
}
