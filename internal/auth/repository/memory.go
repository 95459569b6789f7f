package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"prombaza_backend/platform/apperr"
)

var errDuplicateUser = errors.New("username already taken")

// Memory is an in-process Store used by tests.
type Memory struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]User)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) GetByUsername(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return User{}, apperr.NotFound("auth.memory.GetByUsername", "user not found")
	}
	return user, nil
}

func (m *Memory) Create(_ context.Context, username, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[username]; exists {
		return User{}, apperr.Internal("auth.memory.Create", errDuplicateUser)
	}

	user := User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[username] = user
	return user, nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}
