// Package analytics provides the visitor event tracking bounded context
// module.
package analytics

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/internal/analytics/handler"
	"prombaza_backend/internal/analytics/repository"
	"prombaza_backend/internal/analytics/service"
	"prombaza_backend/internal/events"
	apphttp "prombaza_backend/internal/http"
	"prombaza_backend/platform/logger"
	"prombaza_backend/platform/validator"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the analytics module and subscribes it to lead
// lifecycle events so form submissions and status changes land in the
// event log.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.SubscribeToLeadEvents(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the analytics service; the leads module reads events
// through it and the documents module records downloads.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the tracking endpoint publicly and the event log
// behind authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
