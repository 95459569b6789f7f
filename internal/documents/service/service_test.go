package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	analyticsdomain "prombaza_backend/internal/analytics/domain"
	analyticsservice "prombaza_backend/internal/analytics/service"
	leadsdomain "prombaza_backend/internal/leads/domain"
	"prombaza_backend/platform/apperr"
	"prombaza_backend/platform/logger"
)

type fakeLeadCreator struct {
	created []string
}

func (f *fakeLeadCreator) CreateFromDocumentRequest(_ context.Context, name, email, documentType string) (leadsdomain.Lead, error) {
	f.created = append(f.created, documentType)
	return leadsdomain.Lead{Name: name, Email: email, Type: leadsdomain.TypeDocumentDownload}, nil
}

type fakeRecorder struct {
	recorded []analyticsservice.RecordParams
}

func (f *fakeRecorder) Record(_ context.Context, params analyticsservice.RecordParams) (analyticsdomain.Event, error) {
	f.recorded = append(f.recorded, params)
	return analyticsdomain.Event{EventType: params.EventType, Data: params.Data}, nil
}

type testConfig struct {
	dir string
}

func (c testConfig) GetDocumentsDir() string { return c.dir }
func (c testConfig) GetAppBaseURL() string   { return "http://localhost:5173" }

func newTestService(t *testing.T) (*Service, *fakeLeadCreator, *fakeRecorder, string) {
	t.Helper()

	dir := t.TempDir()
	leads := &fakeLeadCreator{}
	recorder := &fakeRecorder{}
	svc := New(leads, recorder, testConfig{dir: dir}, logger.New("development"))
	return svc, leads, recorder, dir
}

func TestRequest_ResolvesKnownDocument(t *testing.T) {
	svc, leads, recorder, dir := newTestService(t)

	path := filepath.Join(dir, "egrn-excerpt.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	download, err := svc.Request(context.Background(), RequestParams{
		Name:         "Иван",
		Email:        "ivan@zavod.ru",
		DocumentType: "egrn-excerpt",
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if download.Path != path {
		t.Fatalf("expected path %q, got %q", path, download.Path)
	}
	if download.Filename != "EGRN_excerpt.pdf" {
		t.Fatalf("unexpected download name %q", download.Filename)
	}
	if download.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", download.ContentType)
	}

	if len(leads.created) != 1 || leads.created[0] != "egrn-excerpt" {
		t.Fatalf("expected one document lead, got %v", leads.created)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0].EventType != analyticsdomain.EventDownload {
		t.Fatalf("expected one download event, got %v", recorder.recorded)
	}
	if recorder.recorded[0].Data["document"] != "egrn-excerpt" {
		t.Fatalf("unexpected event data: %v", recorder.recorded[0].Data)
	}
}

func TestRequest_UnknownDocumentStillCapturesContact(t *testing.T) {
	svc, leads, recorder, _ := newTestService(t)

	_, err := svc.Request(context.Background(), RequestParams{
		Name:         "Иван",
		Email:        "ivan@zavod.ru",
		DocumentType: "secret-blueprints",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if len(leads.created) != 1 {
		t.Fatalf("contact must be captured even for unknown documents, got %v", leads.created)
	}
	if len(recorder.recorded) != 1 {
		t.Fatalf("download event must be recorded even for unknown documents")
	}
}

func TestRequest_MissingFileIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Request(context.Background(), RequestParams{
		Name:         "Иван",
		Email:        "ivan@zavod.ru",
		DocumentType: "floor-plans",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for missing file, got %v", err)
	}
}

func TestTrackLegacy_RecordsEventAndReturnsURL(t *testing.T) {
	svc, _, recorder, _ := newTestService(t)

	url := svc.TrackLegacy(context.Background(), "presentation", "agent", "10.0.0.1")
	if url != "/documents/presentation.pdf" {
		t.Fatalf("unexpected url %q", url)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0].Data["document"] != "presentation" {
		t.Fatalf("expected recorded download event, got %v", recorder.recorded)
	}
}
