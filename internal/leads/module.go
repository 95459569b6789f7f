// Package leads provides the lead capture and scoring bounded context
// module. This file wires the module's dependencies and route registration.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/internal/events"
	apphttp "prombaza_backend/internal/http"
	"prombaza_backend/internal/leads/handler"
	"prombaza_backend/internal/leads/repository"
	"prombaza_backend/internal/leads/scoring"
	"prombaza_backend/internal/leads/service"
	"prombaza_backend/platform/logger"
	"prombaza_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module. The analytics module
// provides the event reader the scoring pass reads from.
func NewModule(pool *pgxpool.Pool, eventsReader service.EventsReader, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.New(scoring.DefaultCriteria())
	svc := service.New(repo, eventsReader, scorer, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for other modules (documents creates
// download leads through it).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the capture endpoint publicly and the dashboard
// endpoints behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
