// Package service implements the leads use cases: capture, scored listing,
// status management, and export preparation.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	"prombaza_backend/internal/events"
	"prombaza_backend/internal/leads/domain"
	"prombaza_backend/internal/leads/repository"
	"prombaza_backend/internal/leads/scoring"
	"prombaza_backend/platform/apperr"
	"prombaza_backend/platform/logger"
	"prombaza_backend/platform/phone"
	"prombaza_backend/platform/sanitize"
)

// EventsReader exposes the recorded visitor events the scoring pass needs.
// Implemented by the analytics service.
type EventsReader interface {
	ListEvents(ctx context.Context) ([]analyticsdomain.Event, error)
}

// ScoredLead pairs a lead with its freshly computed analysis.
type ScoredLead struct {
	Lead     domain.Lead
	Analysis scoring.Analysis
}

// ScoredQuery filters and orders the scored listing. The zero value means
// no filtering, sorted by score descending.
type ScoredQuery struct {
	Priority  string
	Status    string
	SortBy    string
	SortOrder string
}

type Service struct {
	repo    repository.Store
	events  EventsReader
	scorer  *scoring.Service
	bus     events.Bus
	log     *logger.Logger
	nowFunc func() time.Time
}

func New(repo repository.Store, eventsReader EventsReader, scorer *scoring.Service, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		events:  eventsReader,
		scorer:  scorer,
		bus:     bus,
		log:     log,
		nowFunc: time.Now,
	}
}

// CreateParams carries a validated capture submission into the service.
type CreateParams struct {
	Name        string
	Phone       string
	Email       string
	Type        string
	Message     string
	QuizAnswers domain.QuizAnswers
	UserAgent   string
	IP          string
}

// Create stores a new lead. The phone number is normalized to E.164 when
// it parses; otherwise it is stored as submitted.
func (s *Service) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	lead, err := s.repo.Create(ctx, repository.CreateParams{
		Name:        sanitize.Text(params.Name),
		Phone:       phone.NormalizeE164(params.Phone),
		Email:       strings.TrimSpace(params.Email),
		Type:        params.Type,
		Message:     sanitize.Text(params.Message),
		QuizAnswers: params.QuizAnswers,
	})
	if err != nil {
		return domain.Lead{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadType:  lead.Type,
		UserAgent: params.UserAgent,
		IP:        params.IP,
	})

	return lead, nil
}

// CreateFromDocumentRequest stores the contact-gate lead behind a document
// download. Unlike Create it does not announce the lead on the bus: the
// documents flow records its own download event and nothing else.
func (s *Service) CreateFromDocumentRequest(ctx context.Context, name, email, documentType string) (domain.Lead, error) {
	return s.repo.Create(ctx, repository.CreateParams{
		Name:    sanitize.Text(name),
		Phone:   "",
		Email:   strings.TrimSpace(email),
		Type:    domain.TypeDocumentDownload,
		Message: "Запросил документы: " + documentType,
	})
}

// List returns all leads, newest first, with their cached scores.
func (s *Service) List(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// ListScored recomputes every lead's score against the current event log,
// applies the query filter and order, and writes changed scores back so the
// cached columns converge. A write-back failure degrades the cache, not the
// response, so it is logged and swallowed.
func (s *Service) ListScored(ctx context.Context, query ScoredQuery) ([]ScoredLead, error) {
	leads, allEvents, err := s.fetchLeadsAndEvents(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredLead, 0, len(leads))
	for _, lead := range leads {
		analysis := s.scorer.Analyze(lead, allEvents)

		if analysis.Score != lead.Score || analysis.Priority != lead.Priority {
			if err := s.repo.UpdateScore(ctx, lead.ID, analysis.Score, analysis.Priority); err != nil {
				s.log.Error("persist lead score", "lead_id", lead.ID, "error", err)
			}
		}

		lead.Score = analysis.Score
		lead.Priority = analysis.Priority
		scored = append(scored, ScoredLead{Lead: lead, Analysis: analysis})
	}

	scored = filterScored(scored, query)
	sortScored(scored, query)
	return scored, nil
}

// Update applies a partial update. A status change stamps last activity and
// is announced on the event bus so analytics records it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Lead, error) {
	const op = "leads.service.Update"

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	update := repository.UpdateParams{
		Name:    params.Name,
		Phone:   nil,
		Email:   params.Email,
		Message: params.Message,
	}
	if params.Phone != nil {
		normalized := phone.NormalizeE164(*params.Phone)
		update.Phone = &normalized
	}

	statusChanged := false
	if params.Status != nil {
		if !domain.ValidStatus(*params.Status) {
			return domain.Lead{}, apperr.Validation(op, "unknown lead status")
		}
		if *params.Status != current.Status {
			statusChanged = true
			now := s.nowFunc()
			update.Status = params.Status
			update.LastActivity = &now
		}
	}

	lead, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.Lead{}, err
	}

	if statusChanged {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			NewStatus: string(lead.Status),
			UserAgent: params.UserAgent,
			IP:        params.IP,
		})
	}

	return lead, nil
}

// UpdateParams mirrors the partial update request. Nil fields are untouched.
type UpdateParams struct {
	Name      *string
	Phone     *string
	Email     *string
	Message   *string
	Status    *domain.Status
	UserAgent string
	IP        string
}

// Export returns every lead with a freshly computed analysis, newest
// first. Unlike ListScored it does not write scores back; exports are
// read-only snapshots.
func (s *Service) Export(ctx context.Context) ([]ScoredLead, error) {
	leads, allEvents, err := s.fetchLeadsAndEvents(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredLead, 0, len(leads))
	for _, lead := range leads {
		analysis := s.scorer.Analyze(lead, allEvents)
		lead.Score = analysis.Score
		lead.Priority = analysis.Priority
		scored = append(scored, ScoredLead{Lead: lead, Analysis: analysis})
	}
	return scored, nil
}

// fetchLeadsAndEvents loads both tables concurrently; scoring needs the
// full event log for time-proximity attribution.
func (s *Service) fetchLeadsAndEvents(ctx context.Context) ([]domain.Lead, []analyticsdomain.Event, error) {
	var (
		leads     []domain.Lead
		allEvents []analyticsdomain.Event
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		leads, err = s.repo.List(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		allEvents, err = s.events.ListEvents(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return leads, allEvents, nil
}

func filterScored(scored []ScoredLead, query ScoredQuery) []ScoredLead {
	priority := query.Priority
	status := query.Status
	if priority == "" || priority == "all" {
		priority = ""
	}
	if status == "" || status == "all" {
		status = ""
	}
	if priority == "" && status == "" {
		return scored
	}

	filtered := scored[:0]
	for _, item := range scored {
		if priority != "" && string(item.Lead.Priority) != priority {
			continue
		}
		if status != "" && string(item.Lead.Status) != status {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func sortScored(scored []ScoredLead, query ScoredQuery) {
	// Defaults match the dashboard expectations: numeric and time sorts
	// show the strongest or freshest leads first, name sorts alphabetically.
	descending := query.SortBy != "name"
	switch query.SortOrder {
	case "asc":
		descending = false
	case "desc":
		descending = true
	}

	var less func(a, b ScoredLead) bool
	switch query.SortBy {
	case "date":
		less = func(a, b ScoredLead) bool { return a.Lead.CreatedAt.Before(b.Lead.CreatedAt) }
	case "activity":
		less = func(a, b ScoredLead) bool { return lastActive(a.Lead).Before(lastActive(b.Lead)) }
	case "name":
		less = func(a, b ScoredLead) bool {
			return strings.ToLower(a.Lead.Name) < strings.ToLower(b.Lead.Name)
		}
	default:
		less = func(a, b ScoredLead) bool { return a.Lead.Score < b.Lead.Score }
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if descending {
			return less(scored[j], scored[i])
		}
		return less(scored[i], scored[j])
	})
}

func lastActive(lead domain.Lead) time.Time {
	if lead.LastActivity.IsZero() {
		return lead.CreatedAt
	}
	return lead.LastActivity
}
