// Package memory implements the persisted auth-state mirror in
// process memory, for installs that run without Redis.
package memory

import (
	"context"
	"sync"

	"campus/internal/domain/entity"
	"campus/internal/domain/service"
)

// stateStore is an in-process service.StateStore. State does not
// survive a restart, which makes every boot a cold bootstrap.
type stateStore struct {
	mu    sync.RWMutex
	token string
	user  *entity.User
	has   bool
}

// New creates an empty in-memory state store.
func New() service.StateStore {
	return &stateStore{}
}

func (s *stateStore) Load(_ context.Context) (string, *entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.has {
		return "", nil, nil
	}
	if s.user == nil {
		return s.token, nil, nil
	}

	user := *s.user

	return s.token, &user, nil
}

func (s *stateStore) Save(_ context.Context, token string, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = nil
	if user != nil {
		saved := *user
		s.user = &saved
	}
	s.has = true

	return nil
}

func (s *stateStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.has = false

	return nil
}
