package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

type fakeRepository struct {
	invoices []ledger.SalesInvoice
	clients  []ledger.Client

	periods  []ledger.Period
	failWith error
}

func (f *fakeRepository) ListConfirmedInvoices(ctx context.Context, period ledger.Period) ([]ledger.SalesInvoice, error) {
	f.periods = append(f.periods, period)
	if f.failWith != nil {
		return nil, f.failWith
	}
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
	return ledger.Company{}, nil
}

func newIntegrityTask(t *testing.T, preset string) *asynq.Task {
	t.Helper()
	task, err := NewLedgerIntegrityScanTask(preset)
	require.NoError(t, err)
	return task
}

func TestLedgerIntegrityJobScansPreviousMonthByDefault(t *testing.T) {
	repo := &fakeRepository{}
	job := NewLedgerIntegrityJob(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	job.WithNow(func() time.Time {
		return time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	})

	err := job.Handle(context.Background(), newIntegrityTask(t, ""))
	require.NoError(t, err)

	require.Len(t, repo.periods, 1)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), repo.periods[0].From)
	assert.Equal(t, time.February, repo.periods[0].To.Month())
	assert.Equal(t, 28, repo.periods[0].To.Day())
}

func TestLedgerIntegrityJobBalancedPeriod(t *testing.T) {
	clientID := uuid.MustParse("5f6e7d8c-0000-4000-8000-000000000001")
	repo := &fakeRepository{
		invoices: []ledger.SalesInvoice{{
			ID:           uuid.MustParse("a3f41b2c-0000-4000-8000-000000000002"),
			Number:       "F-2025-0001",
			ClientID:     clientID,
			Status:       ledger.InvoiceStatusConfirmed,
			Date:         time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
			TotalExclTax: decimal.RequireFromString("1000.00"),
			TotalInclTax: decimal.RequireFromString("1100.00"),
		}},
		clients: []ledger.Client{{ID: clientID, Name: "Dupont"}},
	}
	job := NewLedgerIntegrityJob(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	job.WithNow(func() time.Time {
		return time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	})

	err := job.Handle(context.Background(), newIntegrityTask(t, string(ledger.PresetPreviousMonth)))
	assert.NoError(t, err)
}

func TestLedgerIntegrityJobSkipsRetryOnBadPayload(t *testing.T) {
	job := NewLedgerIntegrityJob(&fakeRepository{}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerIntegrityScan, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestLedgerIntegrityJobPropagatesRepositoryError(t *testing.T) {
	repo := &fakeRepository{failWith: errors.New("connection reset")}
	job := NewLedgerIntegrityJob(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	err := job.Handle(context.Background(), newIntegrityTask(t, ""))
	assert.ErrorContains(t, err, "connection reset")
}
