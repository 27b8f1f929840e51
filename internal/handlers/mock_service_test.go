package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"foodlog/internal/flow"
	"foodlog/internal/models"
	"foodlog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSessions struct {
	mu sync.Mutex

	ticket    service.SessionTicket
	createErr error
	endErr    error

	tokens map[string]string       // token -> session id
	flows  map[string]service.Flow // session id -> flow

	createCalls int
	flowCalls   int
	ended       []string
}

func newMockSessions() *mockSessions {
	return &mockSessions{
		tokens: make(map[string]string),
		flows:  make(map[string]service.Flow),
	}
}

// add registers f under token and returns its session id.
func (m *mockSessions) add(token string, f *flow.Controller) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = f.ID()
	m.flows[f.ID()] = f
	return f.ID()
}

func (m *mockSessions) Create(ctx context.Context) (service.SessionTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	return m.ticket, m.createErr
}

func (m *mockSessions) Authorize(token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return "", service.ErrInvalidToken
	}
	return id, nil
}

func (m *mockSessions) Flow(id string) (service.Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flowCalls++
	f, ok := m.flows[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return f, nil
}

func (m *mockSessions) End(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.endErr != nil {
		return m.endErr
	}
	m.ended = append(m.ended, id)
	if f, ok := m.flows[id].(*flow.Controller); ok {
		f.Close()
	}
	delete(m.flows, id)
	return nil
}

// drop forgets id without closing its flow, as if it had been reaped
// elsewhere.
func (m *mockSessions) drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, id)
}

func (m *mockSessions) flowCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flowCalls
}

type mockEventLog struct {
	resp []models.ScanEvent
	err  error
	last service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ScanEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fastTimings() flow.Timings {
	return flow.Timings{
		ProcessingDelay:  30 * time.Millisecond,
		ProgressInterval: time.Millisecond,
		ProgressStep:     5,
		StepInterval:     5 * time.Millisecond,
		SaveDelay:        20 * time.Millisecond,
	}
}

// newTestController returns a controller closed at test end.
func newTestController(t *testing.T, id string) *flow.Controller {
	t.Helper()
	c := flow.NewController(id, flow.Options{Timings: fastTimings()})
	t.Cleanup(c.Close)
	return c
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func waitFor(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", within)
}
