package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
	"github.com/chantier-erp/chantier-erp/internal/ledger/export"
)

type fakeRepository struct {
	invoices []ledger.SalesInvoice
	clients  []ledger.Client
	company  ledger.Company
}

func (f *fakeRepository) ListConfirmedInvoices(ctx context.Context, period ledger.Period) ([]ledger.SalesInvoice, error) {
	return f.invoices, nil
}

func (f *fakeRepository) ListExpenses(ctx context.Context, period ledger.Period) ([]ledger.Expense, error) {
	return nil, nil
}

func (f *fakeRepository) ListPayments(ctx context.Context, period ledger.Period) ([]ledger.Payment, error) {
	return nil, nil
}

func (f *fakeRepository) ListClients(ctx context.Context) ([]ledger.Client, error) {
	return f.clients, nil
}

func (f *fakeRepository) GetCompany(ctx context.Context) (ledger.Company, error) {
	return f.company, nil
}

type fakeMetrics struct {
	formats []string
}

func (m *fakeMetrics) ObserveExport(format string) {
	m.formats = append(m.formats, format)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestRouter(t *testing.T, repo export.Repository, metrics Metrics) chi.Router {
	t.Helper()
	service := export.NewService(repo, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.WithNow(func() time.Time {
		return time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	})

	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), service, metrics)
	r := chi.NewRouter()
	r.Route("/finance/exports", handler.MountRoutes)
	return r
}

func seededRepository(t *testing.T) *fakeRepository {
	t.Helper()
	clientID := uuid.MustParse("5f6e7d8c-0000-4000-8000-000000000001")
	return &fakeRepository{
		invoices: []ledger.SalesInvoice{{
			ID:           uuid.MustParse("a3f41b2c-0000-4000-8000-000000000002"),
			Number:       "F-2025-0001",
			ClientID:     clientID,
			Status:       ledger.InvoiceStatusConfirmed,
			Date:         time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			TotalExclTax: mustDecimal(t, "1000.00"),
			TotalInclTax: mustDecimal(t, "1100.00"),
		}},
		clients: []ledger.Client{{ID: clientID, Name: "Dupont"}},
		company: ledger.Company{Name: "Chantier SARL", SIREN: "123456789"},
	}
}

func TestHandleDownloadCSV(t *testing.T) {
	metrics := &fakeMetrics{}
	router := newTestRouter(t, seededRepository(t), metrics)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download?format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=export_comptable_2025-03.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "true", rec.Header().Get("X-Ledger-Balanced"))
	assert.Equal(t, "0.00", rec.Header().Get("X-Ledger-Difference"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date;Reference;Label"))
	assert.Equal(t, []string{"csv"}, metrics.formats)
}

func TestHandleDownloadFECFilename(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download?format=fec&preset=current-month", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=123456789FEC20250320.txt", rec.Header().Get("Content-Disposition"))
}

func TestHandleDownloadMissingFormat(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandleDownloadInvalidFormat(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download?format=pdf", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDownloadInvalidPreset(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download?format=csv&preset=last-decade", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDownloadEmptyPeriod(t *testing.T) {
	router := newTestRouter(t, &fakeRepository{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/download?format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandlePreview(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/preview?preset=current-month", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view previewView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "2025-03-01", view.PeriodFrom)
	assert.Equal(t, "2025-03-31", view.PeriodTo)
	assert.Equal(t, 3, view.Total)
	assert.Len(t, view.Entries, 3)
	assert.True(t, view.Balanced)
	assert.Equal(t, "0.00", view.Difference)

	first := view.Entries[0]
	assert.Equal(t, "15/03/2025", first.Date)
	assert.Equal(t, "F-2025-0001", first.Reference)
	assert.Equal(t, "1100.00", first.Debit)
	assert.Equal(t, "411000", first.AccountCode)
	assert.Equal(t, "VE", first.JournalCode)
}

func TestHandlePreviewEmptyPeriod(t *testing.T) {
	router := newTestRouter(t, &fakeRepository{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/preview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view previewView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Zero(t, view.Total)
	assert.Empty(t, view.Entries)
	assert.True(t, view.Balanced)
}

func TestHandlePreviewInvalidJournal(t *testing.T) {
	router := newTestRouter(t, seededRepository(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/finance/exports/preview?journal=XX", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
