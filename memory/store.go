package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store is the ordered conversation log of one session.
//
// Invariant: msgs[:durable] have been handed to the backend, msgs[durable:]
// belong to the open turn.
type Store struct {
	mu        sync.Mutex
	sessionID string
	backend   Backend
	msgs      []Message
	durable   int
}

// NewStore returns an empty store. A nil backend keeps history in memory only.
func NewStore(sessionID string, backend Backend) *Store {
	if backend == nil {
		backend = NopBackend{}
	}
	return &Store{sessionID: sessionID, backend: backend}
}

// Open returns a store primed with the session's durable history.
func Open(ctx context.Context, sessionID string, backend Backend) (*Store, error) {
	s := NewStore(sessionID, backend)
	prior, err := s.backend.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("memory: load session %s: %w", sessionID, err)
	}
	s.msgs = prior
	s.durable = len(prior)
	return s, nil
}

// Append adds msg without closing the turn.
func (s *Store) Append(msg Message) (Message, error) {
	if err := msg.validate(); err != nil {
		return Message{}, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
	return msg, nil
}

// Commit adds msg, closes the turn and flushes the pending messages to the
// backend. On a backend error the messages stay in memory and are retried by
// the next Commit.
func (s *Store) Commit(ctx context.Context, msg Message) (Message, error) {
	if err := msg.validate(); err != nil {
		return Message{}, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	pending := append([]Message(nil), s.msgs[s.durable:]...)
	if err := s.backend.Append(ctx, s.sessionID, pending); err != nil {
		return msg, fmt.Errorf("memory: persist session %s: %w", s.sessionID, err)
	}
	s.durable = len(s.msgs)
	return msg, nil
}

// Messages returns a copy of the log, oldest first.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.msgs...)
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

// Pending returns how many messages have not reached the backend yet.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs) - s.durable
}

// SessionID returns the session the store belongs to.
func (s *Store) SessionID() string { return s.sessionID }
