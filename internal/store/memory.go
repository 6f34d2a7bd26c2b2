package store

import (
	"context"
	"sync"
	"time"

	"github.com/mindweave/mindweave/internal/core/model"
)

// MemoryStore keeps sessions in process memory. Suitable for single
// instance deployments and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	locks    map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = model.NewSession(sessionID)
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()

	return sess.Clone(), nil
}

func (s *MemoryStore) Mutate(ctx context.Context, sessionID string, fn func(*model.Session) error) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = model.NewSession(sessionID)
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()

	// fn works on a copy so a failed mutation leaves the stored
	// session untouched.
	working := sess.Clone()
	if err := fn(working); err != nil {
		return err
	}
	working.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.sessions[sessionID] = working
	s.mu.Unlock()
	return nil
}
