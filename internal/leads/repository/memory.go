package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prombaza_backend/internal/leads/domain"
	"prombaza_backend/platform/apperr"
)

// Memory is an in-process Store used by tests. It mirrors the database
// defaults: new leads start with score 0, medium priority, and status new.
type Memory struct {
	mu    sync.RWMutex
	leads map[uuid.UUID]domain.Lead
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{leads: make(map[uuid.UUID]domain.Lead), now: time.Now}
}

// NewMemoryAt uses an injected clock for deterministic timestamps.
func NewMemoryAt(now func() time.Time) *Memory {
	return &Memory{leads: make(map[uuid.UUID]domain.Lead), now: now}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, params CreateParams) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	lead := domain.Lead{
		ID:           uuid.New(),
		Name:         params.Name,
		Phone:        params.Phone,
		Email:        params.Email,
		Type:         params.Type,
		Message:      params.Message,
		QuizAnswers:  params.QuizAnswers,
		Score:        0,
		Priority:     domain.PriorityMedium,
		Status:       domain.StatusNew,
		LastActivity: now,
		CreatedAt:    now,
	}
	m.leads[lead.ID] = lead
	return lead, nil
}

func (m *Memory) List(_ context.Context) ([]domain.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	leads := make([]domain.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		leads = append(leads, lead)
	}
	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

func (m *Memory) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("leads.memory.GetByID", "lead not found")
	}
	return lead, nil
}

func (m *Memory) Update(_ context.Context, id uuid.UUID, params UpdateParams) (domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("leads.memory.Update", "lead not found")
	}

	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.Phone != nil {
		lead.Phone = *params.Phone
	}
	if params.Email != nil && *params.Email != "" {
		lead.Email = *params.Email
	}
	if params.Message != nil && *params.Message != "" {
		lead.Message = *params.Message
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.LastActivity != nil {
		lead.LastActivity = *params.LastActivity
	}

	m.leads[id] = lead
	return lead, nil
}

func (m *Memory) UpdateScore(_ context.Context, id uuid.UUID, score int, priority domain.Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lead, ok := m.leads[id]
	if !ok {
		return apperr.NotFound("leads.memory.UpdateScore", "lead not found")
	}
	lead.Score = score
	lead.Priority = priority
	m.leads[id] = lead
	return nil
}

// Seed inserts a fully specified lead, bypassing defaults. Test helper.
func (m *Memory) Seed(lead domain.Lead) domain.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	m.leads[lead.ID] = lead
	return lead
}
