// Package documents provides the property data room bounded context
// module: contact-gated file downloads from the landing page.
package documents

import (
	"prombaza_backend/internal/documents/handler"
	"prombaza_backend/internal/documents/service"
	apphttp "prombaza_backend/internal/http"
	"prombaza_backend/platform/config"
	"prombaza_backend/platform/logger"
	"prombaza_backend/platform/validator"
)

// Module is the documents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	dir     string
}

// NewModule creates the documents module. It depends on the leads and
// analytics services rather than owning storage of its own.
func NewModule(leads service.LeadCreator, analytics service.EventRecorder, cfg config.DocumentsConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(leads, analytics, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		dir:     cfg.GetDocumentsDir(),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documents"
}

// RegisterRoutes mounts the public download endpoints and serves the
// documents directory for links returned by the legacy endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1)
	ctx.Engine.Static("/documents", m.dir)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
