package scoring

import (
	analyticsdomain "prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/leads/domain"
)

// Criteria is the immutable weight table the scoring service operates on.
// It is passed in explicitly so alternate tables can be used in tests and
// tuned without touching the scoring logic.
type Criteria struct {
	// LeadType maps a capture channel to its base score.
	// Unknown channels contribute 0.
	LeadType map[string]int

	// One-shot bonuses for data the visitor left behind.
	HasQuizAnswers    int
	HasPhone          int
	HasEmail          int
	BusinessTypeMatch int

	// EngagementActions maps a visitor event type to the score added for
	// each related event. Unknown event types contribute 0.
	EngagementActions map[string]int

	// TimeDecay multiplies the running total based on lead age.
	TimeDecay TimeDecay
}

// TimeDecay holds the multipliers for the three lead-age buckets.
type TimeDecay struct {
	Fresh  float64 // age <= 24h
	Recent float64 // age <= 7 days
	Old    float64 // older, or missing creation time
}

// DefaultCriteria returns the production weight table.
// Quiz completions rank highest: the visitor invested effort and left
// structured requirements. Document downloads rank lowest: often just
// due-diligence browsing.
func DefaultCriteria() Criteria {
	return Criteria{
		LeadType: map[string]int{
			domain.TypeQuiz:             100,
			domain.TypeContact:          80,
			domain.TypeDocumentDownload: 60,
		},
		HasQuizAnswers:    50,
		HasPhone:          30,
		HasEmail:          20,
		BusinessTypeMatch: 40,
		EngagementActions: map[string]int{
			analyticsdomain.EventPhoneClick:    25,
			analyticsdomain.EventWhatsAppClick: 20,
			analyticsdomain.EventTelegramClick: 15,
			analyticsdomain.EventDownload:      10,
			analyticsdomain.EventFormSubmit:    30,
			analyticsdomain.EventQuizComplete:  50,
		},
		TimeDecay: TimeDecay{
			Fresh:  1.0,
			Recent: 0.8,
			Old:    0.5,
		},
	}
}
