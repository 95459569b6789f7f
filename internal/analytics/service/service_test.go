package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/analytics/repository"
	"prombaza_backend/internal/events"
	"prombaza_backend/platform/logger"
)

func newTestService() (*Service, *repository.Memory) {
	repo := repository.NewMemory()
	return New(repo, logger.New("development")), repo
}

func TestRecord_StoresOpenEventTypes(t *testing.T) {
	svc, _ := newTestService()

	event, err := svc.Record(context.Background(), RecordParams{
		EventType: "gallery_scroll",
		Data:      map[string]interface{}{"section": "photos"},
		UserAgent: "test-agent",
		IP:        "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if event.EventType != "gallery_scroll" {
		t.Fatalf("expected event type stored as-is, got %q", event.EventType)
	}
	if event.UserAgent != "test-agent" || event.IP != "10.0.0.1" {
		t.Fatalf("request metadata not stored: %+v", event)
	}

	listed, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != event.ID {
		t.Fatalf("expected the recorded event in the log, got %d events", len(listed))
	}
}

func TestSubscribe_LeadCreatedBecomesFormSubmit(t *testing.T) {
	svc, _ := newTestService()

	bus := events.NewInMemoryBus(logger.New("development"))
	svc.SubscribeToLeadEvents(bus)

	leadID := uuid.New()
	err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		LeadType:  "quiz",
		UserAgent: "test-agent",
		IP:        "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	listed, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(listed))
	}
	if listed[0].EventType != domain.EventFormSubmit {
		t.Fatalf("expected form_submit, got %q", listed[0].EventType)
	}
	if listed[0].Data["leadType"] != "quiz" {
		t.Fatalf("expected leadType in event data, got %v", listed[0].Data)
	}
}

func TestSubscribe_StatusChangeIsRecorded(t *testing.T) {
	svc, _ := newTestService()

	bus := events.NewInMemoryBus(logger.New("development"))
	svc.SubscribeToLeadEvents(bus)

	leadID := uuid.New()
	err := bus.PublishSync(context.Background(), events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		NewStatus: "contacted",
		UserAgent: "test-agent",
		IP:        "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	listed, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(listed))
	}
	if listed[0].EventType != domain.EventStatusChange {
		t.Fatalf("expected status_change, got %q", listed[0].EventType)
	}
	if listed[0].Data["leadId"] != leadID.String() || listed[0].Data["newStatus"] != "contacted" {
		t.Fatalf("unexpected event data: %v", listed[0].Data)
	}
}
