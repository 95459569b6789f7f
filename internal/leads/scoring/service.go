// Package scoring computes lead scores, priority buckets, and the
// qualitative analysis shown on the dashboard. The service is a pure
// function of its inputs: it never mutates the lead, touches storage, or
// reads process-wide state, so it is safe under concurrent dashboard reads.
package scoring

import (
	"math"
	"time"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/leads/domain"
)

const (
	// relatedWindow is the time-proximity window used to correlate a
	// visitor event with a lead in the absence of a session identifier.
	// The boundary is inclusive. This is a known-approximate join: two
	// leads created within the same hour can both claim an event. Keep
	// the window as-is; dashboard and export numbers derive from it.
	relatedWindow = time.Hour

	freshAge  = 24 * time.Hour
	recentAge = 7 * 24 * time.Hour
)

// Priority thresholds, inclusive on the lower bound, checked descending.
const (
	hotThreshold    = 200
	highThreshold   = 150
	mediumThreshold = 100
)

// Readiness thresholds for the qualitative analysis.
const (
	readinessHighScore   = 180
	readinessMediumScore = 120
)

// Analysis is the qualitative bundle derived for one lead.
type Analysis struct {
	Score              int             `json:"score"`
	Priority           domain.Priority `json:"priority"`
	ReadinessLevel     string          `json:"readinessLevel"`
	RecommendedActions []string        `json:"recommendedActions"`
	RiskFactors        []string        `json:"riskFactors"`
	Strengths          []string        `json:"strengths"`
}

// Service computes lead scores against an immutable criteria table.
type Service struct {
	criteria Criteria
	now      func() time.Time
}

// New creates a scoring service using the wall clock.
func New(criteria Criteria) *Service {
	return &Service{criteria: criteria, now: time.Now}
}

// NewAt creates a scoring service with an injected clock for
// deterministic tests.
func NewAt(criteria Criteria, now func() time.Time) *Service {
	return &Service{criteria: criteria, now: now}
}

// CalculateScore computes the integer score for a lead given the full set
// of recorded visitor events. Events are attributed to the lead by time
// proximity (see relatedWindow). The running total is decayed by lead age,
// rounded to the nearest integer, and clamped at zero.
func (s *Service) CalculateScore(lead domain.Lead, events []analyticsdomain.Event) int {
	score := s.criteria.LeadType[lead.Type]

	if lead.HasQuizAnswers() {
		score += s.criteria.HasQuizAnswers
	}
	if lead.HasPhone() {
		score += s.criteria.HasPhone
	}
	if lead.HasEmail() {
		score += s.criteria.HasEmail
	}
	if matchesTargetBusiness(lead.QuizAnswers) {
		score += s.criteria.BusinessTypeMatch
	}

	for _, event := range events {
		if isRelated(event, lead) {
			score += s.criteria.EngagementActions[event.EventType]
		}
	}

	decayed := math.Round(float64(score) * s.timeDecay(lead.CreatedAt))
	if decayed < 0 {
		return 0
	}
	return int(decayed)
}

// CalculatePriority maps a score to its follow-up bucket.
func (s *Service) CalculatePriority(score int) domain.Priority {
	switch {
	case score >= hotThreshold:
		return domain.PriorityHot
	case score >= highThreshold:
		return domain.PriorityHigh
	case score >= mediumThreshold:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// Analyze composes the score and priority with the qualitative readiness
// estimate, recommended follow-up actions, risk factors, and strengths.
func (s *Service) Analyze(lead domain.Lead, events []analyticsdomain.Event) Analysis {
	score := s.CalculateScore(lead, events)
	priority := s.CalculatePriority(score)

	return Analysis{
		Score:              score,
		Priority:           priority,
		ReadinessLevel:     assessReadiness(lead, score),
		RecommendedActions: recommendedActions(priority),
		RiskFactors:        riskFactors(lead),
		Strengths:          strengths(lead),
	}
}

// assessReadiness estimates how close the lead is to a decision.
func assessReadiness(lead domain.Lead, score int) string {
	if score >= readinessHighScore && lead.Type == domain.TypeQuiz {
		return "high"
	}
	if score >= readinessMediumScore && lead.HasPhone() && lead.HasEmail() {
		return "medium"
	}
	return "low"
}

// recommendedActions returns the fixed follow-up playbook per bucket.
func recommendedActions(priority domain.Priority) []string {
	switch priority {
	case domain.PriorityHot:
		return []string{
			"Call immediately, within 1 hour",
			"Propose an on-site visit",
			"Prepare a commercial offer",
		}
	case domain.PriorityHigh:
		return []string{
			"Contact within 4 hours",
			"Send detailed property information",
			"Schedule a call",
		}
	case domain.PriorityMedium:
		return []string{
			"Contact within 24 hours",
			"Send additional materials",
		}
	default:
		return []string{
			"Add to the email nurture sequence",
			"Contact within 3 days",
		}
	}
}

func riskFactors(lead domain.Lead) []string {
	risks := make([]string, 0, 3)

	if !lead.HasPhone() {
		risks = append(risks, "No phone number provided")
	}
	if !lead.HasEmail() {
		risks = append(risks, "No email provided")
	}
	if lead.Type == domain.TypeDocumentDownload && !lead.HasQuizAnswers() {
		risks = append(risks, "Low engagement: document download only")
	}

	return risks
}

func strengths(lead domain.Lead) []string {
	result := make([]string, 0, 3)

	if lead.Type == domain.TypeQuiz {
		result = append(result, "High engagement: completed the quiz")
	}
	if lead.HasPhone() && lead.HasEmail() {
		result = append(result, "Full contact details")
	}
	if lead.HasQuizAnswers() {
		result = append(result, "Provided detailed requirements")
	}

	return result
}

// matchesTargetBusiness checks the quiz answers for an industrial use
// profile: production or manufacturing activity, or a current warehouse
// space.
func matchesTargetBusiness(answers domain.QuizAnswers) bool {
	if len(answers) == 0 {
		return false
	}

	businessType, _ := answers["businessType"].(string)
	if businessType == "production" || businessType == "manufacturing" {
		return true
	}

	currentSpace, _ := answers["currentSpace"].(string)
	return currentSpace == "warehouse"
}

// isRelated attributes an event to a lead when their timestamps are within
// relatedWindow of each other, inclusive.
func isRelated(event analyticsdomain.Event, lead domain.Lead) bool {
	if event.CreatedAt.IsZero() || lead.CreatedAt.IsZero() {
		return false
	}

	diff := event.CreatedAt.Sub(lead.CreatedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= relatedWindow
}

// timeDecay picks the age multiplier for the lead. A missing creation time
// is treated as old rather than fresh.
func (s *Service) timeDecay(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return s.criteria.TimeDecay.Old
	}

	age := s.now().Sub(createdAt)
	switch {
	case age <= freshAge:
		return s.criteria.TimeDecay.Fresh
	case age <= recentAge:
		return s.criteria.TimeDecay.Recent
	default:
		return s.criteria.TimeDecay.Old
	}
}
