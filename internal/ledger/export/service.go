package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

// ErrNoEntries signals an empty period. Not a failure: the export action is
// simply unavailable.
var ErrNoEntries = errors.New("export: no entries in period")

// Repository loads the read-only collections an export consumes. Nothing in
// this package ever writes through it.
type Repository interface {
	ListConfirmedInvoices(ctx context.Context, period ledger.Period) ([]ledger.SalesInvoice, error)
	ListExpenses(ctx context.Context, period ledger.Period) ([]ledger.Expense, error)
	ListPayments(ctx context.Context, period ledger.Period) ([]ledger.Payment, error)
	ListClients(ctx context.Context) ([]ledger.Client, error)
	GetCompany(ctx context.Context) (ledger.Company, error)
}

// Request describes one export action. Explicit From/To bounds bypass the
// preset entirely.
type Request struct {
	Preset  ledger.Preset
	From    *time.Time
	To      *time.Time
	Format  Format
	Journal string
}

// Outcome pairs the rendered file with the balance-check signal surfaced to
// the caller as a warning, never a gate.
type Outcome struct {
	Result  Result         `json:"result"`
	Balance ledger.Balance `json:"balance"`
}

// Preview is the JSON surface backing the export screen.
type Preview struct {
	Period  ledger.Period  `json:"period"`
	Entries []ledger.Entry `json:"entries"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
	Summary ledger.Summary `json:"summary"`
	Balance ledger.Balance `json:"balance"`
}

// PreviewPageSize matches the export screen's table pagination.
const PreviewPageSize = 50

// Service runs the export pipeline: resolve period, load, map, validate,
// serialize. The pipeline itself is pure; the service adds the collaborators
// around it (persistence, cache, logging).
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs Service.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ResolvePeriod applies the request's explicit bounds or preset against the
// service clock.
func (s *Service) ResolvePeriod(req Request) ledger.Period {
	if req.From != nil && req.To != nil {
		return ledger.ExplicitPeriod(*req.From, *req.To)
	}
	return ledger.ResolvePeriod(req.Preset, s.now())
}

// Export renders the requested file. Rendered outcomes are cached per request
// shape; the cache only short-circuits repeated identical downloads and never
// affects the bytes produced.
func (s *Service) Export(ctx context.Context, req Request) (Outcome, error) {
	if !req.Format.Valid() {
		return Outcome{}, fmt.Errorf("export: unknown format %q", req.Format)
	}
	period := s.ResolvePeriod(req)
	key := cacheKey("ledger:export", string(req.Format), req.Journal, period)

	var out Outcome
	err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.export(ctx, req, period)
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (s *Service) export(ctx context.Context, req Request, period ledger.Period) (Outcome, error) {
	data, err := s.load(ctx, period)
	if err != nil {
		return Outcome{}, err
	}
	entries := ledger.FilterByJournal(ledger.BuildEntries(data, period), req.Journal)
	if len(entries) == 0 {
		return Outcome{}, ErrNoEntries
	}

	balance := ledger.CheckBalance(entries)
	if !balance.Balanced && s.logger != nil {
		s.logger.Warn("ledger entries out of balance",
			slog.String("difference", balance.Difference.StringFixed(2)),
			slog.Time("period_from", period.From),
			slog.Time("period_to", period.To))
	}

	company, err := s.repo.GetCompany(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("export: load company: %w", err)
	}
	result, err := Render(req.Format, entries, Options{
		Company: company,
		Period:  period,
		Journal: req.Journal,
		Now:     s.now(),
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Result: result, Balance: balance}, nil
}

// PreviewEntries returns one page of mapped entries plus the period summary.
// An empty period is a valid preview, not an error.
func (s *Service) PreviewEntries(ctx context.Context, req Request, page int) (Preview, error) {
	period := s.ResolvePeriod(req)
	data, err := s.load(ctx, period)
	if err != nil {
		return Preview{}, err
	}
	entries := ledger.FilterByJournal(ledger.BuildEntries(data, period), req.Journal)
	balance := ledger.CheckBalance(entries)
	summary := ledger.Summarize(data, period, entries)

	total := len(entries)
	pages := (total + PreviewPageSize - 1) / PreviewPageSize
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * PreviewPageSize
	end := start + PreviewPageSize
	if end > total {
		end = total
	}

	return Preview{
		Period:  period,
		Entries: entries[start:end],
		Total:   total,
		Page:    page,
		Pages:   pages,
		Summary: summary,
		Balance: balance,
	}, nil
}

func (s *Service) load(ctx context.Context, period ledger.Period) (ledger.Dataset, error) {
	invoices, err := s.repo.ListConfirmedInvoices(ctx, period)
	if err != nil {
		return ledger.Dataset{}, fmt.Errorf("export: load invoices: %w", err)
	}
	expenses, err := s.repo.ListExpenses(ctx, period)
	if err != nil {
		return ledger.Dataset{}, fmt.Errorf("export: load expenses: %w", err)
	}
	payments, err := s.repo.ListPayments(ctx, period)
	if err != nil {
		return ledger.Dataset{}, fmt.Errorf("export: load payments: %w", err)
	}
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return ledger.Dataset{}, fmt.Errorf("export: load clients: %w", err)
	}
	return ledger.Dataset{
		Invoices: invoices,
		Expenses: expenses,
		Payments: payments,
		Clients:  clients,
	}, nil
}

func cacheKey(parts ...interface{}) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		switch v := p.(type) {
		case string:
			key += v
		case ledger.Period:
			key += v.From.Format("20060102") + "-" + v.To.Format("20060102")
		default:
			key += fmt.Sprint(v)
		}
	}
	return key
}
