package scoring

import (
	"reflect"
	"testing"
	"time"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/leads/domain"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestService() *Service {
	return NewAt(DefaultCriteria(), func() time.Time { return testNow })
}

func freshLead(leadType string) domain.Lead {
	return domain.Lead{
		Type:      leadType,
		CreatedAt: testNow,
	}
}

func TestCalculateScore_UnknownLeadTypeContributesZero(t *testing.T) {
	svc := newTestService()

	lead := freshLead("billboard")
	if got := svc.CalculateScore(lead, nil); got != 0 {
		t.Fatalf("expected unknown lead type to score 0, got %d", got)
	}
}

func TestCalculateScore_FullyQualifiedFreshQuizLead(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeQuiz)
	lead.Phone = "+79161234567"
	lead.Email = "director@zavod.ru"
	lead.QuizAnswers = domain.QuizAnswers{"area": "500-1000"}

	// 100 (quiz) + 50 (answers) + 30 (phone) + 20 (email) = 200, fresh decay x1.0
	score := svc.CalculateScore(lead, nil)
	if score != 200 {
		t.Fatalf("expected score 200, got %d", score)
	}
	if got := svc.CalculatePriority(score); got != domain.PriorityHot {
		t.Fatalf("expected priority hot, got %q", got)
	}
}

func TestCalculateScore_TenDayOldLeadDecaysToHalf(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeQuiz)
	lead.Phone = "+79161234567"
	lead.Email = "director@zavod.ru"
	lead.QuizAnswers = domain.QuizAnswers{"area": "500-1000"}
	lead.CreatedAt = testNow.Add(-10 * 24 * time.Hour)

	score := svc.CalculateScore(lead, nil)
	if score != 100 {
		t.Fatalf("expected score 100 after x0.5 decay, got %d", score)
	}
	if got := svc.CalculatePriority(score); got != domain.PriorityMedium {
		t.Fatalf("expected priority medium, got %q", got)
	}
}

func TestCalculateScore_MissingCreationTimeTreatedAsOld(t *testing.T) {
	svc := newTestService()

	lead := domain.Lead{Type: domain.TypeContact, Phone: "+79161234567"}
	// 80 + 30 = 110, decayed x0.5 = 55
	if got := svc.CalculateScore(lead, nil); got != 55 {
		t.Fatalf("expected score 55, got %d", got)
	}
}

func TestCalculateScore_RecentDecayBucket(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeContact)
	lead.Phone = "+79161234567"
	lead.CreatedAt = testNow.Add(-3 * 24 * time.Hour)

	// (80 + 30) x 0.8 = 88
	if got := svc.CalculateScore(lead, nil); got != 88 {
		t.Fatalf("expected score 88, got %d", got)
	}
}

func TestCalculateScore_BusinessTypeMatch(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name    string
		answers domain.QuizAnswers
		match   bool
	}{
		{"production", domain.QuizAnswers{"businessType": "production"}, true},
		{"manufacturing", domain.QuizAnswers{"businessType": "manufacturing"}, true},
		{"warehouse space", domain.QuizAnswers{"currentSpace": "warehouse"}, true},
		{"retail", domain.QuizAnswers{"businessType": "retail"}, false},
		{"non-string value", domain.QuizAnswers{"businessType": 42}, false},
	}

	for _, tc := range cases {
		lead := freshLead(domain.TypeQuiz)
		lead.QuizAnswers = tc.answers

		// 100 (quiz) + 50 (answers present) + 40 if matched
		want := 150
		if tc.match {
			want = 190
		}
		if got := svc.CalculateScore(lead, nil); got != want {
			t.Fatalf("%s: expected score %d, got %d", tc.name, want, got)
		}
	}
}

func TestCalculateScore_RelatedEventWindowIsInclusive(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeContact)
	lead.Phone = "+79161234567"
	base := svc.CalculateScore(lead, nil) // 110

	onBoundary := analyticsdomain.Event{
		EventType: analyticsdomain.EventPhoneClick,
		CreatedAt: lead.CreatedAt.Add(relatedWindow),
	}
	if got := svc.CalculateScore(lead, []analyticsdomain.Event{onBoundary}); got != base+25 {
		t.Fatalf("event exactly on the 1h boundary must count: expected %d, got %d", base+25, got)
	}

	pastBoundary := analyticsdomain.Event{
		EventType: analyticsdomain.EventPhoneClick,
		CreatedAt: lead.CreatedAt.Add(relatedWindow + time.Millisecond),
	}
	if got := svc.CalculateScore(lead, []analyticsdomain.Event{pastBoundary}); got != base {
		t.Fatalf("event 3600001ms away must not count: expected %d, got %d", base, got)
	}

	before := analyticsdomain.Event{
		EventType: analyticsdomain.EventPhoneClick,
		CreatedAt: lead.CreatedAt.Add(-30 * time.Minute),
	}
	if got := svc.CalculateScore(lead, []analyticsdomain.Event{before}); got != base+25 {
		t.Fatalf("event before lead creation within window must count: expected %d, got %d", base+25, got)
	}
}

func TestCalculateScore_UnknownEventTypeContributesZero(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeContact)
	lead.Phone = "+79161234567"
	base := svc.CalculateScore(lead, nil)

	unknown := analyticsdomain.Event{
		EventType: "gallery_scroll",
		CreatedAt: lead.CreatedAt,
	}
	if got := svc.CalculateScore(lead, []analyticsdomain.Event{unknown}); got != base {
		t.Fatalf("unknown event type must contribute 0: expected %d, got %d", base, got)
	}
}

func TestCalculateScore_NeverNegative(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.LeadType = map[string]int{domain.TypeContact: -500}
	svc := NewAt(criteria, func() time.Time { return testNow })

	lead := freshLead(domain.TypeContact)
	if got := svc.CalculateScore(lead, nil); got != 0 {
		t.Fatalf("score must be clamped at 0, got %d", got)
	}
}

func TestCalculatePriority_InclusiveThresholds(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		score int
		want  domain.Priority
	}{
		{0, domain.PriorityLow},
		{99, domain.PriorityLow},
		{100, domain.PriorityMedium},
		{149, domain.PriorityMedium},
		{150, domain.PriorityHigh},
		{199, domain.PriorityHigh},
		{200, domain.PriorityHot},
		{450, domain.PriorityHot},
	}

	for _, tc := range cases {
		if got := svc.CalculatePriority(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestCalculatePriority_MonotonicInScore(t *testing.T) {
	svc := newTestService()

	rank := map[domain.Priority]int{
		domain.PriorityLow:    0,
		domain.PriorityMedium: 1,
		domain.PriorityHigh:   2,
		domain.PriorityHot:    3,
	}

	prev := rank[svc.CalculatePriority(0)]
	for score := 1; score <= 300; score++ {
		current := rank[svc.CalculatePriority(score)]
		if current < prev {
			t.Fatalf("priority decreased between scores %d and %d", score-1, score)
		}
		prev = current
	}
}

func TestAnalyze_ReadinessLevels(t *testing.T) {
	svc := newTestService()

	quiz := freshLead(domain.TypeQuiz)
	quiz.Phone = "+79161234567"
	quiz.Email = "director@zavod.ru"
	quiz.QuizAnswers = domain.QuizAnswers{"area": "500-1000"}
	if got := svc.Analyze(quiz, nil).ReadinessLevel; got != "high" {
		t.Fatalf("expected high readiness, got %q", got)
	}

	contact := freshLead(domain.TypeContact)
	contact.Phone = "+79161234567"
	contact.Email = "director@zavod.ru"
	// 80 + 30 + 20 = 130: above the medium bar, below the quiz-only high bar
	if got := svc.Analyze(contact, nil).ReadinessLevel; got != "medium" {
		t.Fatalf("expected medium readiness, got %q", got)
	}

	bare := freshLead(domain.TypeDocumentDownload)
	if got := svc.Analyze(bare, nil).ReadinessLevel; got != "low" {
		t.Fatalf("expected low readiness, got %q", got)
	}
}

func TestAnalyze_RiskFactorsAndStrengths(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeDocumentDownload)
	lead.Email = "director@zavod.ru"

	analysis := svc.Analyze(lead, nil)
	if len(analysis.RiskFactors) != 2 {
		t.Fatalf("expected 2 risk factors (no phone, download only), got %v", analysis.RiskFactors)
	}
	if len(analysis.Strengths) != 0 {
		t.Fatalf("expected no strengths, got %v", analysis.Strengths)
	}

	strong := freshLead(domain.TypeQuiz)
	strong.Phone = "+79161234567"
	strong.Email = "director@zavod.ru"
	strong.QuizAnswers = domain.QuizAnswers{"businessType": "production"}

	analysis = svc.Analyze(strong, nil)
	if len(analysis.Strengths) != 3 {
		t.Fatalf("expected 3 strengths, got %v", analysis.Strengths)
	}
	if len(analysis.RiskFactors) != 0 {
		t.Fatalf("expected no risk factors, got %v", analysis.RiskFactors)
	}
}

func TestAnalyze_ActionsFollowPriorityBucket(t *testing.T) {
	svc := newTestService()

	hot := freshLead(domain.TypeQuiz)
	hot.Phone = "+79161234567"
	hot.Email = "director@zavod.ru"
	hot.QuizAnswers = domain.QuizAnswers{"area": "500-1000"}

	analysis := svc.Analyze(hot, nil)
	if analysis.Priority != domain.PriorityHot {
		t.Fatalf("expected hot priority, got %q", analysis.Priority)
	}
	if len(analysis.RecommendedActions) != 3 {
		t.Fatalf("expected 3 actions for hot bucket, got %v", analysis.RecommendedActions)
	}

	low := freshLead("unknown")
	analysis = svc.Analyze(low, nil)
	if analysis.Priority != domain.PriorityLow {
		t.Fatalf("expected low priority, got %q", analysis.Priority)
	}
	if len(analysis.RecommendedActions) != 2 {
		t.Fatalf("expected 2 actions for low bucket, got %v", analysis.RecommendedActions)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	svc := newTestService()

	lead := freshLead(domain.TypeQuiz)
	lead.Phone = "+79161234567"
	lead.QuizAnswers = domain.QuizAnswers{"businessType": "production"}

	events := []analyticsdomain.Event{
		{EventType: analyticsdomain.EventQuizComplete, CreatedAt: lead.CreatedAt.Add(2 * time.Minute)},
		{EventType: analyticsdomain.EventPhoneClick, CreatedAt: lead.CreatedAt.Add(5 * time.Minute)},
	}

	first := svc.Analyze(lead, events)
	second := svc.Analyze(lead, events)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis is not idempotent: %+v vs %+v", first, second)
	}
}

func TestCalculateScore_AlternateCriteriaTable(t *testing.T) {
	criteria := Criteria{
		LeadType:          map[string]int{domain.TypeContact: 10},
		HasPhone:          5,
		EngagementActions: map[string]int{analyticsdomain.EventDownload: 3},
		TimeDecay:         TimeDecay{Fresh: 1.0, Recent: 1.0, Old: 1.0},
	}
	svc := NewAt(criteria, func() time.Time { return testNow })

	lead := freshLead(domain.TypeContact)
	lead.Phone = "+79161234567"
	events := []analyticsdomain.Event{
		{EventType: analyticsdomain.EventDownload, CreatedAt: lead.CreatedAt},
	}

	if got := svc.CalculateScore(lead, events); got != 18 {
		t.Fatalf("expected score 18 with alternate criteria, got %d", got)
	}
}
