// Package service implements analytics event recording and retrieval.
package service

import (
	"context"

	"prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/analytics/repository"
	"prombaza_backend/internal/events"
	"prombaza_backend/platform/logger"
)

type Service struct {
	repo repository.Store
	log  *logger.Logger
}

func New(repo repository.Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RecordParams describes a visitor action to store.
type RecordParams struct {
	EventType string
	Data      map[string]interface{}
	UserAgent string
	IP        string
}

// Record stores a visitor event. The event type is an open tag; unknown
// types are stored and simply never affect scoring.
func (s *Service) Record(ctx context.Context, params RecordParams) (domain.Event, error) {
	return s.repo.Create(ctx, repository.CreateParams{
		EventType: params.EventType,
		Data:      params.Data,
		UserAgent: params.UserAgent,
		IP:        params.IP,
	})
}

// ListEvents returns every recorded event, newest first. The scoring pass
// consumes the full log; there is no lead foreign key to narrow by.
func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.List(ctx)
}

// SubscribeToLeadEvents registers the bus handlers that mirror lead
// lifecycle transitions into the analytics log: every created lead becomes
// a form_submit event and every status change a status_change event.
func (s *Service) SubscribeToLeadEvents(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}

		_, err := s.Record(ctx, RecordParams{
			EventType: domain.EventFormSubmit,
			Data:      map[string]interface{}{"leadType": e.LeadType},
			UserAgent: e.UserAgent,
			IP:        e.IP,
		})
		return err
	}))

	bus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadStatusChanged)
		if !ok {
			return nil
		}

		_, err := s.Record(ctx, RecordParams{
			EventType: domain.EventStatusChange,
			Data: map[string]interface{}{
				"leadId":    e.LeadID.String(),
				"newStatus": e.NewStatus,
			},
			UserAgent: e.UserAgent,
			IP:        e.IP,
		})
		return err
	}))
}
