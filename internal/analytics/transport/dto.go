// Package transport holds the analytics HTTP request and response shapes.
package transport

import (
	"time"

	"github.com/google/uuid"

	"prombaza_backend/internal/analytics/domain"
)

type RecordEventRequest struct {
	EventType string                 `json:"eventType" validate:"required,min=1,max=100"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type EventResponse struct {
	ID        uuid.UUID              `json:"id"`
	EventType string                 `json:"eventType"`
	Data      map[string]interface{} `json:"data,omitempty"`
	UserAgent string                 `json:"userAgent,omitempty"`
	IP        string                 `json:"ip,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

func ToEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:        event.ID,
		EventType: event.EventType,
		Data:      event.Data,
		UserAgent: event.UserAgent,
		IP:        event.IP,
		CreatedAt: event.CreatedAt,
	}
}

func ToEventResponses(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, ToEventResponse(event))
	}
	return out
}
