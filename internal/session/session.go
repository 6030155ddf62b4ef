// Package session holds per-session state and serializes turns.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/runner"
	"github.com/petasbytes/moviebot/internal/telemetry"
	"github.com/petasbytes/moviebot/memory"
)

var ErrClosed = errors.New("session: closed")

// Session owns one conversation. SendMessage is its only operation; calls
// are processed one at a time in arrival order.
type Session struct {
	ID    string
	Store *memory.Store

	runner *runner.Runner
	mu     sync.Mutex
	closed bool
	// refs counts Open calls not yet matched by Close; guarded by Manager.mu.
	refs int
}

// SendMessage runs one turn. A second call blocks until the first has
// finished, or until ctx is done.
func (s *Session) SendMessage(ctx context.Context, text string, sink runner.Sink) (display.Record, error) {
	if err := s.lock(ctx); err != nil {
		return display.Record{}, err
	}
	defer s.mu.Unlock()
	if s.closed {
		return display.Record{}, ErrClosed
	}
	return s.runner.Handle(ctx, s.Store, text, sink)
}

// lock takes the turn lock, giving up when ctx is done.
func (s *Session) lock(ctx context.Context) error {
	if s.mu.TryLock() {
		return nil
	}
	acquired := make(chan struct{})
	go func() {
		s.mu.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		// Hand the lock back once the waiter gets it.
		go func() {
			<-acquired
			s.mu.Unlock()
		}()
		return ctx.Err()
	}
}

// Manager creates and tracks sessions.
type Manager struct {
	runner  *runner.Runner
	backend memory.Backend
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(r *runner.Runner, backend memory.Backend, log zerolog.Logger) *Manager {
	return &Manager{
		runner:   r,
		backend:  backend,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Open returns the live session with id, or loads it from the backend.
// An empty id starts a fresh session. Every Open must be paired with a Close.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.refs++
		return s, nil
	}
	store, err := memory.Open(ctx, id, m.backend)
	if err != nil {
		return nil, fmt.Errorf("session: open %s: %w", id, err)
	}
	s := &Session{ID: id, Store: store, runner: m.runner, refs: 1}
	m.sessions[id] = s
	telemetry.ActiveSessions.Inc()
	m.log.Debug().Str("session_id", id).Int("history_len", store.Len()).Msg("session opened")
	return s, nil
}

// Close releases one holder of the session. The last Close forgets it;
// its durable history stays in the backend.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	s.refs--
	if holders := s.refs; holders > 0 {
		m.mu.Unlock()
		m.log.Debug().Str("session_id", id).Int("holders", holders).Msg("session released")
		return
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	telemetry.ActiveSessions.Dec()
	m.log.Debug().Str("session_id", id).Msg("session closed")
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
