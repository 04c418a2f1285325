package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/goserg/clubshub/auth/session"
	"github.com/goserg/clubshub/auth/storage"
)

type Storage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Holder
}

var _ storage.SessionStorage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		sessions: make(map[uuid.UUID]*session.Holder),
	}
}

func (s *Storage) Create(_ context.Context) (uuid.UUID, *session.Holder, error) {
	id := uuid.New()
	h := session.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = h
	return id, h, nil
}

func (s *Storage) Get(_ context.Context, id uuid.UUID) (*session.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNoSession
	}
	return h, nil
}

func (s *Storage) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *Storage) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for id, h := range s.sessions {
		if h.TouchedAt().Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
