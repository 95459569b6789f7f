// Package service implements the document download flow: the contact gate,
// download tracking, and file resolution.
package service

import (
	"context"
	"os"
	"path/filepath"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	analyticsservice "prombaza_backend/internal/analytics/service"
	"prombaza_backend/internal/documents/domain"
	leadsdomain "prombaza_backend/internal/leads/domain"
	"prombaza_backend/platform/apperr"
	"prombaza_backend/platform/config"
	"prombaza_backend/platform/logger"
)

// LeadCreator is the slice of the leads service the documents flow needs.
type LeadCreator interface {
	CreateFromDocumentRequest(ctx context.Context, name, email, documentType string) (leadsdomain.Lead, error)
}

// EventRecorder is the slice of the analytics service the documents flow
// needs.
type EventRecorder interface {
	Record(ctx context.Context, params analyticsservice.RecordParams) (analyticsdomain.Event, error)
}

type Service struct {
	leads     LeadCreator
	analytics EventRecorder
	catalog   map[string]domain.Document
	dir       string
	log       *logger.Logger
}

func New(leads LeadCreator, analytics EventRecorder, cfg config.DocumentsConfig, log *logger.Logger) *Service {
	return &Service{
		leads:     leads,
		analytics: analytics,
		catalog:   domain.Catalog(),
		dir:       cfg.GetDocumentsDir(),
		log:       log,
	}
}

// Download is the resolved file ready to stream.
type Download struct {
	Path        string
	Filename    string
	ContentType string
}

// RequestParams is a validated contact-gate submission.
type RequestParams struct {
	Name         string
	Email        string
	DocumentType string
	UserAgent    string
	IP           string
}

// Request handles a gated download: it stores the contact as a lead,
// records the download event, and resolves the file on disk. The lead and
// event are kept even when the file is missing; the contact is real either
// way.
func (s *Service) Request(ctx context.Context, params RequestParams) (Download, error) {
	const op = "documents.service.Request"

	if _, err := s.leads.CreateFromDocumentRequest(ctx, params.Name, params.Email, params.DocumentType); err != nil {
		return Download{}, err
	}

	s.recordDownload(ctx, params.DocumentType, map[string]interface{}{
		"document": params.DocumentType,
		"email":    params.Email,
		"name":     params.Name,
	}, params.UserAgent, params.IP)

	doc, ok := s.catalog[params.DocumentType]
	if !ok {
		return Download{}, apperr.NotFound(op, "document not found")
	}

	path := filepath.Join(s.dir, doc.StoredName())
	if _, err := os.Stat(path); err != nil {
		return Download{}, apperr.NotFound(op, "file not found on server")
	}

	return Download{
		Path:        path,
		Filename:    doc.DownloadName(),
		ContentType: doc.ContentType(),
	}, nil
}

// TrackLegacy records a download event for the pre-gate endpoint and
// returns the public URL the client should fetch.
func (s *Service) TrackLegacy(ctx context.Context, document, userAgent, ip string) string {
	s.recordDownload(ctx, document, map[string]interface{}{
		"document": document,
	}, userAgent, ip)

	return "/documents/" + document + ".pdf"
}

func (s *Service) recordDownload(ctx context.Context, document string, data map[string]interface{}, userAgent, ip string) {
	_, err := s.analytics.Record(ctx, analyticsservice.RecordParams{
		EventType: analyticsdomain.EventDownload,
		Data:      data,
		UserAgent: userAgent,
		IP:        ip,
	})
	if err != nil {
		s.log.Error("record download event", "document", document, "error", err)
	}
}
