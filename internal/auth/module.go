// Package auth provides the dashboard authentication bounded context
// module.
package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"prombaza_backend/internal/auth/handler"
	"prombaza_backend/internal/auth/repository"
	"prombaza_backend/internal/auth/service"
	apphttp "prombaza_backend/internal/http"
	"prombaza_backend/platform/config"
	"prombaza_backend/platform/logger"
	"prombaza_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// EnsureAdmin seeds the configured admin account on first run.
func (m *Module) EnsureAdmin(ctx context.Context) error {
	return m.service.EnsureAdmin(ctx)
}

// RegisterRoutes mounts the login endpoint on the public group with the
// auth rate limiter applied.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1, ctx.AuthRateLimiter.RateLimit())
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
