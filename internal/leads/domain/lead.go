// Package domain holds the leads bounded context entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead capture channels. The type column is an open string: an unknown
// channel is stored as-is and simply contributes no base score.
const (
	TypeQuiz             = "quiz"
	TypeContact          = "contact"
	TypeDocumentDownload = "document_download"
)

// Priority is the score-derived follow-up bucket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityHot    Priority = "hot"
)

// Status is the operator-managed pipeline status.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusClosed    Status = "closed"
	StatusLost      Status = "lost"
)

// ValidStatus reports whether s is one of the known pipeline statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusClosed, StatusLost:
		return true
	}
	return false
}

// QuizAnswers is the schema-free structured payload collected by the
// landing page quiz.
type QuizAnswers map[string]interface{}

// Lead is a visitor-submitted record of interest in the property.
// Score and priority are cached denormalizations: they are recomputed from
// the lead and its correlated analytics events on every dashboard read and
// may be overwritten at any time without loss.
type Lead struct {
	ID           uuid.UUID
	Name         string
	Phone        string
	Email        string
	Type         string
	Message      string
	QuizAnswers  QuizAnswers
	Score        int
	Priority     Priority
	Status       Status
	LastActivity time.Time
	CreatedAt    time.Time
}

// HasPhone reports whether the lead left a phone number.
func (l Lead) HasPhone() bool { return l.Phone != "" }

// HasEmail reports whether the lead left an email address.
func (l Lead) HasEmail() bool { return l.Email != "" }

// HasQuizAnswers reports whether the lead completed the quiz.
func (l Lead) HasQuizAnswers() bool { return len(l.QuizAnswers) > 0 }
