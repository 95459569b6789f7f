// Package domain holds the analytics bounded context entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Well-known visitor event types. The column is an open tag: the landing
// page may emit types not listed here, and they are stored as-is.
const (
	EventPhoneClick    = "phone_click"
	EventWhatsAppClick = "whatsapp_click"
	EventTelegramClick = "telegram_click"
	EventDownload      = "download"
	EventFormSubmit    = "form_submit"
	EventQuizComplete  = "quiz_complete"
	EventStatusChange  = "status_change"
)

// Event is a single timestamped visitor action recorded from the landing
// page. Events are immutable after creation and carry no foreign key to a
// lead; correlation is inferred by time proximity at scoring time.
type Event struct {
	ID        uuid.UUID
	EventType string
	Data      map[string]interface{}
	UserAgent string
	IP        string
	CreatedAt time.Time
}
