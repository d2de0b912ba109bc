package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirei/backend/internal/service"
)

// mockExportService — func-field stub for export tests.
type mockExportService struct {
	exportFunc func(ctx context.Context, format, status string) (*service.ExportResult, error)
}

func (m *mockExportService) Export(ctx context.Context, format, status string) (*service.ExportResult, error) {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, format, status)
	}
	return &service.ExportResult{
		Filename:    "messages-export-2026-09-01.json",
		ContentType: "application/json",
		Data:        []byte("[]"),
	}, nil
}

func newExportHandler(mock *mockExportService) *ExportHandler {
	return NewExportHandler(mock, newTestCollector())
}

func TestExportHandler_Unauthorized(t *testing.T) {
	h := newExportHandler(&mockExportService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestExportHandler_DownloadHeaders(t *testing.T) {
	mock := &mockExportService{
		exportFunc: func(ctx context.Context, format, status string) (*service.ExportResult, error) {
			return &service.ExportResult{
				Filename:    "messages-export-2026-09-01.csv",
				ContentType: "text/csv; charset=utf-8",
				Data:        []byte("id,name\n"),
			}, nil
		},
	}
	h := newExportHandler(mock)

	req := asOperator(httptest.NewRequest(http.MethodGet, "/admin/export?format=csv", nil))
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("unexpected content type %q", got)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `attachment`) || !strings.Contains(cd, `messages-export-2026-09-01.csv`) {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if rec.Body.String() != "id,name\n" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestExportHandler_PassesQueryParams(t *testing.T) {
	var gotFormat, gotStatus string
	mock := &mockExportService{
		exportFunc: func(ctx context.Context, format, status string) (*service.ExportResult, error) {
			gotFormat, gotStatus = format, status
			return &service.ExportResult{ContentType: "application/json", Data: []byte("[]")}, nil
		},
	}
	h := newExportHandler(mock)

	req := asOperator(httptest.NewRequest(http.MethodGet, "/admin/export?format=csv&status=read", nil))
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if gotFormat != "csv" || gotStatus != "read" {
		t.Errorf("expected (csv, read), got (%s, %s)", gotFormat, gotStatus)
	}
}

func TestExportHandler_InvalidFormat(t *testing.T) {
	mock := &mockExportService{
		exportFunc: func(ctx context.Context, format, status string) (*service.ExportResult, error) {
			return nil, service.ErrInvalidFormat
		},
	}
	h := newExportHandler(mock)

	req := asOperator(httptest.NewRequest(http.MethodGet, "/admin/export?format=xml", nil))
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
