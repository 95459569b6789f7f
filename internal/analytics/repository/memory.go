package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prombaza_backend/internal/analytics/domain"
)

// Memory is an in-process Store used by tests.
type Memory struct {
	mu     sync.RWMutex
	events []domain.Event
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// NewMemoryAt uses an injected clock for deterministic timestamps.
func NewMemoryAt(now func() time.Time) *Memory {
	return &Memory{now: now}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, params CreateParams) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := domain.Event{
		ID:        uuid.New(),
		EventType: params.EventType,
		Data:      params.Data,
		UserAgent: params.UserAgent,
		IP:        params.IP,
		CreatedAt: m.now(),
	}
	m.events = append(m.events, event)
	return event, nil
}

func (m *Memory) List(_ context.Context) ([]domain.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.Event, len(m.events))
	copy(events, m.events)
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// Seed inserts a fully specified event. Test helper.
func (m *Memory) Seed(event domain.Event) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	m.events = append(m.events, event)
	return event
}
