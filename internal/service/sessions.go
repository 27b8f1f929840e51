package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"foodlog/internal/flow"
	"foodlog/internal/logger"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Reasons recorded when a session ends.
const (
	endReasonClient   = "ended"
	endReasonIdle     = "idle"
	endReasonShutdown = "shutdown"
)

const defaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	ctrl     *flow.Controller
	lastSeen time.Time
}

// SessionService owns every live Controller. It also implements Reaper.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	ttl      time.Duration
	tokens   *tokenIssuer
	timings  flow.Timings
	analyzer flow.Analyzer
	journal  *Journal
	log      *logger.Logger
	now      func() time.Time
}

func NewSessionService(cfg Config, journal *Journal, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.Nop()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		tokens:   newTokenIssuer(cfg.SigningKey, ttl),
		timings:  cfg.Timings,
		analyzer: cfg.Analyzer,
		journal:  journal,
		log:      log,
		now:      time.Now,
	}
}

// Create starts a session on the Home screen and returns its token.
func (s *SessionService) Create(ctx context.Context) (SessionTicket, error) {
	if err := ctx.Err(); err != nil {
		return SessionTicket{}, err
	}

	id := uuid.NewString()
	token, exp, err := s.tokens.issue(id)
	if err != nil {
		return SessionTicket{}, err
	}

	opts := flow.Options{Timings: s.timings, Analyzer: s.analyzer}
	if s.journal != nil {
		opts.Observer = s.journal
	}
	ctrl := flow.NewController(id, opts)

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	if s.journal != nil {
		s.journal.SessionStarted(id)
	}
	s.log.Infow("session_created", "session_id", id, "expires_at", exp)

	return SessionTicket{Token: token, ExpiresAt: exp, Session: ctrl.Snapshot()}, nil
}

// Authorize verifies token and returns the id of a live session.
func (s *SessionService) Authorize(token string) (string, error) {
	id, err := s.tokens.parse(token)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	_, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return "", ErrSessionNotFound
	}
	return id, nil
}

// Flow returns the state machine of session id and marks it as seen.
func (s *SessionService) Flow(id string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

// End tears session id down.
func (s *SessionService) End(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("end session %s: %w", id, ErrSessionNotFound)
	}
	s.closeEntry(id, e, endReasonClient)
	return nil
}

// Run drops idle sessions every tick until ctx is canceled, then closes
// whatever is left.
func (s *SessionService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll(endReasonShutdown)
			return
		case <-t.C:
			if n := s.reap(s.now()); n > 0 {
				s.log.Infow("sessions_reaped", "count", n)
			}
		}
	}
}

// reap closes sessions idle since before now-ttl and returns how many.
func (s *SessionService) reap(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	expired := make(map[string]*sessionEntry)
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired[id] = e
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for id, e := range expired {
		s.closeEntry(id, e, endReasonIdle)
	}
	return len(expired)
}

func (s *SessionService) closeAll(reason string) {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for id, e := range all {
		s.closeEntry(id, e, reason)
	}
}

func (s *SessionService) closeEntry(id string, e *sessionEntry, reason string) {
	from := e.ctrl.Screen()
	e.ctrl.Close()
	if s.journal != nil {
		s.journal.SessionEnded(id, from, reason)
	}
	s.log.Infow("session_ended", "session_id", id, "reason", reason)
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
