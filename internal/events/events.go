package events

import (
	"github.com/google/uuid"

	platformevents "prombaza_backend/platform/events"
)

// LeadCreated is published when a visitor submits a new lead.
// The analytics module subscribes to it to record the corresponding
// visitor event with the originating request metadata.
type LeadCreated struct {
	platformevents.BaseEvent
	LeadID    uuid.UUID
	LeadType  string
	UserAgent string
	IP        string
}

// EventName returns the unique event identifier.
func (LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published when an operator moves a lead to a new
// pipeline status from the dashboard.
type LeadStatusChanged struct {
	platformevents.BaseEvent
	LeadID    uuid.UUID
	NewStatus string
	UserAgent string
	IP        string
}

// EventName returns the unique event identifier.
func (LeadStatusChanged) EventName() string { return "leads.status_changed" }
