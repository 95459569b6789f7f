package service

import (
	"context"
	"sync"
	"testing"
	"time"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/events"
	"prombaza_backend/internal/leads/domain"
	"prombaza_backend/internal/leads/repository"
	"prombaza_backend/internal/leads/scoring"
	"prombaza_backend/platform/logger"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// captureBus records published events synchronously for assertions.
type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

func (b *captureBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Event, len(b.events))
	copy(out, b.events)
	return out
}

type stubEventsReader struct {
	events []analyticsdomain.Event
}

func (s *stubEventsReader) ListEvents(context.Context) ([]analyticsdomain.Event, error) {
	return s.events, nil
}

func newTestService(t *testing.T, reader *stubEventsReader) (*Service, *repository.Memory, *captureBus) {
	t.Helper()

	repo := repository.NewMemoryAt(func() time.Time { return testNow })
	bus := &captureBus{}
	scorer := scoring.NewAt(scoring.DefaultCriteria(), func() time.Time { return testNow })
	if reader == nil {
		reader = &stubEventsReader{}
	}

	svc := New(repo, reader, scorer, bus, logger.New("development"))
	svc.nowFunc = func() time.Time { return testNow }
	return svc, repo, bus
}

func TestCreate_NormalizesInputAndAnnounces(t *testing.T) {
	svc, _, bus := newTestService(t, nil)

	lead, err := svc.Create(context.Background(), CreateParams{
		Name:    "<b>Иван Петров</b>",
		Phone:   "8 916 123-45-67",
		Email:   " ivan@zavod.ru ",
		Type:    domain.TypeContact,
		Message: "Интересует <script>alert(1)</script> аренда",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if lead.Name != "Иван Петров" {
		t.Fatalf("expected HTML stripped from name, got %q", lead.Name)
	}
	if lead.Phone != "+79161234567" {
		t.Fatalf("expected E.164 phone, got %q", lead.Phone)
	}
	if lead.Email != "ivan@zavod.ru" {
		t.Fatalf("expected trimmed email, got %q", lead.Email)
	}
	if lead.Status != domain.StatusNew || lead.Priority != domain.PriorityMedium || lead.Score != 0 {
		t.Fatalf("unexpected defaults: status=%q priority=%q score=%d", lead.Status, lead.Priority, lead.Score)
	}

	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	created, ok := published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("expected LeadCreated, got %T", published[0])
	}
	if created.LeadID != lead.ID || created.LeadType != domain.TypeContact {
		t.Fatalf("unexpected event payload: %+v", created)
	}
}

func TestCreate_KeepsUnparseablePhoneAsSubmitted(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	lead, err := svc.Create(context.Background(), CreateParams{
		Name:  "Test",
		Phone: "not-a-phone",
		Type:  domain.TypeContact,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if lead.Phone != "not-a-phone" {
		t.Fatalf("expected original phone kept, got %q", lead.Phone)
	}
}

func TestListScored_FiltersAndSorts(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)

	// Fresh quiz lead with full contacts scores 200 (hot).
	hot := repo.Seed(domain.Lead{
		Name: "Горячий", Phone: "+79161111111", Email: "hot@x.ru",
		Type: domain.TypeQuiz, QuizAnswers: domain.QuizAnswers{"area": "500"},
		Status: domain.StatusNew, CreatedAt: testNow, LastActivity: testNow,
	})
	// Contact lead with phone only scores 110 (medium).
	repo.Seed(domain.Lead{
		Name: "Средний", Phone: "+79162222222",
		Type: domain.TypeContact,
		Status: domain.StatusContacted, CreatedAt: testNow.Add(-time.Hour), LastActivity: testNow.Add(-time.Hour),
	})

	all, err := svc.ListScored(context.Background(), ScoredQuery{})
	if err != nil {
		t.Fatalf("ListScored: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(all))
	}
	if all[0].Lead.ID != hot.ID {
		t.Fatalf("expected highest score first, got %q", all[0].Lead.Name)
	}

	hotOnly, err := svc.ListScored(context.Background(), ScoredQuery{Priority: "hot"})
	if err != nil {
		t.Fatalf("ListScored(priority=hot): %v", err)
	}
	if len(hotOnly) != 1 || hotOnly[0].Lead.ID != hot.ID {
		t.Fatalf("expected only the hot lead, got %d leads", len(hotOnly))
	}

	allSentinel, err := svc.ListScored(context.Background(), ScoredQuery{Priority: "all", Status: "all"})
	if err != nil {
		t.Fatalf("ListScored(all): %v", err)
	}
	if len(allSentinel) != 2 {
		t.Fatalf("'all' must disable filtering, got %d leads", len(allSentinel))
	}

	byName, err := svc.ListScored(context.Background(), ScoredQuery{SortBy: "name"})
	if err != nil {
		t.Fatalf("ListScored(name): %v", err)
	}
	if byName[0].Lead.Name != "Горячий" {
		t.Fatalf("expected alphabetical order, got %q first", byName[0].Lead.Name)
	}
}

func TestListScored_PersistsRecomputedScores(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)

	seeded := repo.Seed(domain.Lead{
		Name: "Тест", Phone: "+79161111111", Email: "t@x.ru",
		Type: domain.TypeQuiz, QuizAnswers: domain.QuizAnswers{"area": "500"},
		Status: domain.StatusNew, Priority: domain.PriorityMedium, Score: 0,
		CreatedAt: testNow, LastActivity: testNow,
	})

	if _, err := svc.ListScored(context.Background(), ScoredQuery{}); err != nil {
		t.Fatalf("ListScored: %v", err)
	}

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Score != 200 || stored.Priority != domain.PriorityHot {
		t.Fatalf("expected persisted score 200/hot, got %d/%q", stored.Score, stored.Priority)
	}
}

func TestListScored_CountsRelatedEvents(t *testing.T) {
	reader := &stubEventsReader{events: []analyticsdomain.Event{
		{EventType: analyticsdomain.EventPhoneClick, CreatedAt: testNow.Add(10 * time.Minute)},
		{EventType: analyticsdomain.EventPhoneClick, CreatedAt: testNow.Add(48 * time.Hour)},
	}}
	svc, repo, _ := newTestService(t, reader)

	lead := repo.Seed(domain.Lead{
		Name: "Тест", Phone: "+79161111111",
		Type: domain.TypeContact, Status: domain.StatusNew,
		CreatedAt: testNow, LastActivity: testNow,
	})

	scored, err := svc.ListScored(context.Background(), ScoredQuery{})
	if err != nil {
		t.Fatalf("ListScored: %v", err)
	}
	// 80 + 30 base, plus 25 for the one event inside the window.
	if scored[0].Lead.ID != lead.ID || scored[0].Lead.Score != 135 {
		t.Fatalf("expected score 135, got %d", scored[0].Lead.Score)
	}
}

func TestUpdate_StatusChangeStampsActivityAndAnnounces(t *testing.T) {
	svc, repo, bus := newTestService(t, nil)

	created := testNow.Add(-48 * time.Hour)
	lead := repo.Seed(domain.Lead{
		Name: "Тест", Phone: "+79161111111",
		Type: domain.TypeContact, Status: domain.StatusNew,
		CreatedAt: created, LastActivity: created,
	})

	status := domain.StatusContacted
	updated, err := svc.Update(context.Background(), lead.ID, UpdateParams{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.StatusContacted {
		t.Fatalf("expected status contacted, got %q", updated.Status)
	}
	if !updated.LastActivity.Equal(testNow) {
		t.Fatalf("expected last activity stamped to now, got %v", updated.LastActivity)
	}

	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	changed, ok := published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("expected LeadStatusChanged, got %T", published[0])
	}
	if changed.LeadID != lead.ID || changed.NewStatus != "contacted" {
		t.Fatalf("unexpected event payload: %+v", changed)
	}
}

func TestUpdate_SameStatusDoesNotAnnounce(t *testing.T) {
	svc, repo, bus := newTestService(t, nil)

	created := testNow.Add(-48 * time.Hour)
	lead := repo.Seed(domain.Lead{
		Name: "Тест", Phone: "+79161111111",
		Type: domain.TypeContact, Status: domain.StatusContacted,
		CreatedAt: created, LastActivity: created,
	})

	status := domain.StatusContacted
	updated, err := svc.Update(context.Background(), lead.ID, UpdateParams{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.LastActivity.Equal(created) {
		t.Fatalf("last activity must not move on a no-op status update")
	}
	if len(bus.published()) != 0 {
		t.Fatalf("no event expected for an unchanged status")
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)

	lead := repo.Seed(domain.Lead{
		Name: "Тест", Type: domain.TypeContact, Status: domain.StatusNew,
		CreatedAt: testNow, LastActivity: testNow,
	})

	status := domain.Status("archived")
	if _, err := svc.Update(context.Background(), lead.ID, UpdateParams{Status: &status}); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestExport_AttachesAnalysisWithoutPersisting(t *testing.T) {
	svc, repo, _ := newTestService(t, nil)

	seeded := repo.Seed(domain.Lead{
		Name: "Тест", Phone: "+79161111111", Email: "t@x.ru",
		Type: domain.TypeQuiz, QuizAnswers: domain.QuizAnswers{"area": "500"},
		Status: domain.StatusNew, Priority: domain.PriorityMedium, Score: 0,
		CreatedAt: testNow, LastActivity: testNow,
	})

	rows, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Lead.Score != 200 || rows[0].Analysis.ReadinessLevel != "high" {
		t.Fatalf("unexpected export analysis: score=%d readiness=%q", rows[0].Lead.Score, rows[0].Analysis.ReadinessLevel)
	}

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Score != 0 {
		t.Fatalf("export must not write scores back, stored score is %d", stored.Score)
	}
}
