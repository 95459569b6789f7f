// Package transport holds the leads HTTP request and response shapes.
package transport

import (
	"time"

	"github.com/google/uuid"

	"prombaza_backend/internal/leads/domain"
	"prombaza_backend/internal/leads/scoring"
)

// Request DTOs
type CreateLeadRequest struct {
	Name        string             `json:"name" validate:"required,min=1,max=200"`
	Phone       string             `json:"phone" validate:"required,min=5,max=20"`
	Email       string             `json:"email,omitempty" validate:"omitempty,email"`
	Type        string             `json:"type" validate:"required,oneof=quiz contact document_download"`
	Message     string             `json:"message,omitempty" validate:"max=2000"`
	QuizAnswers domain.QuizAnswers `json:"quizAnswers,omitempty"`
}

type UpdateLeadRequest struct {
	Name    *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone   *string        `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email   *string        `json:"email,omitempty" validate:"omitempty,email"`
	Message *string        `json:"message,omitempty" validate:"omitempty,max=2000"`
	Status  *domain.Status `json:"status,omitempty" validate:"omitempty,oneof=new contacted qualified proposal closed lost"`
}

type ScoredListRequest struct {
	Priority  string `form:"priority" validate:"omitempty,oneof=all low medium high hot"`
	Status    string `form:"status" validate:"omitempty,oneof=all new contacted qualified proposal closed lost"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=score date activity name"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ExportRequest struct {
	Format string `form:"format" validate:"omitempty,oneof=csv json"`
}

// Response DTOs
type LeadResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email,omitempty"`
	Type         string             `json:"type"`
	Message      string             `json:"message,omitempty"`
	QuizAnswers  domain.QuizAnswers `json:"quizAnswers,omitempty"`
	Score        int                `json:"score"`
	Priority     domain.Priority    `json:"priority"`
	Status       domain.Status      `json:"status"`
	LastActivity time.Time          `json:"lastActivity"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ScoredLeadResponse is a lead with its freshly computed analysis attached.
type ScoredLeadResponse struct {
	LeadResponse
	Analysis scoring.Analysis `json:"analysis"`
}

// ExportEnvelope wraps a JSON export the way file downloads are delivered
// to the dashboard.
type ExportEnvelope struct {
	Data     []ExportRow `json:"data"`
	Filename string      `json:"filename"`
	MimeType string      `json:"mimeType"`
}

// ExportRow is one spreadsheet line. Column labels are Russian because the
// export feeds the sales team's Excel workflow.
type ExportRow struct {
	Name         string `json:"Имя"`
	Phone        string `json:"Телефон"`
	Email        string `json:"Email"`
	LeadType     string `json:"Тип лида"`
	Status       string `json:"Статус"`
	Priority     string `json:"Приоритет"`
	Score        int    `json:"Балл"`
	Message      string `json:"Сообщение"`
	CreatedAt    string `json:"Дата создания"`
	LastActivity string `json:"Последняя активность"`
	Readiness    string `json:"Готовность к покупке"`
}

// ExportHeaders returns the CSV header row in column order.
func ExportHeaders() []string {
	return []string{
		"Имя", "Телефон", "Email", "Тип лида", "Статус", "Приоритет",
		"Балл", "Сообщение", "Дата создания", "Последняя активность",
		"Готовность к покупке",
	}
}

func ToLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:           lead.ID,
		Name:         lead.Name,
		Phone:        lead.Phone,
		Email:        lead.Email,
		Type:         lead.Type,
		Message:      lead.Message,
		QuizAnswers:  lead.QuizAnswers,
		Score:        lead.Score,
		Priority:     lead.Priority,
		Status:       lead.Status,
		LastActivity: lead.LastActivity,
		CreatedAt:    lead.CreatedAt,
	}
}

func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}
