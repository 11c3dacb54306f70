package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

// PGRepository loads export source collections from Postgres. Amounts are
// selected as text and parsed into decimals so no float conversion ever
// touches a monetary value.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListConfirmedInvoices(ctx context.Context, period ledger.Period) ([]ledger.SalesInvoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(number, ''), status, date, client_id,
COALESCE(total_excl_tax, 0)::text, COALESCE(total_incl_tax, 0)::text
FROM sales_invoices
WHERE status = 'INVOICE' AND date >= $1 AND date <= $2
ORDER BY date, created_at`, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger repo: list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ledger.SalesInvoice
	for rows.Next() {
		var (
			inv    ledger.SalesInvoice
			status string
			date   *time.Time
			excl   string
			incl   string
		)
		if err := rows.Scan(&inv.ID, &inv.Number, &status, &date, &inv.ClientID, &excl, &incl); err != nil {
			return nil, err
		}
		inv.Status = ledger.InvoiceStatus(status)
		if date != nil {
			inv.Date = *date
		}
		if inv.TotalExclTax, err = parseAmount(excl); err != nil {
			return nil, err
		}
		if inv.TotalInclTax, err = parseAmount(incl); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *PGRepository) ListExpenses(ctx context.Context, period ledger.Period) ([]ledger.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(reference, ''), date, COALESCE(supplier, ''),
COALESCE(category, ''), COALESCE(description, ''), COALESCE(amount, 0)::text
FROM expenses
WHERE date >= $1 AND date <= $2
ORDER BY date, created_at`, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger repo: list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ledger.Expense
	for rows.Next() {
		var (
			exp    ledger.Expense
			date   *time.Time
			amount string
		)
		if err := rows.Scan(&exp.ID, &exp.Reference, &date, &exp.Supplier, &exp.Category, &exp.Description, &amount); err != nil {
			return nil, err
		}
		if date != nil {
			exp.Date = *date
		}
		if exp.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

func (r *PGRepository) ListPayments(ctx context.Context, period ledger.Period) ([]ledger.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(reference, ''), date, invoice_id, COALESCE(amount, 0)::text
FROM payments
WHERE date >= $1 AND date <= $2
ORDER BY date, created_at`, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("ledger repo: list payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var (
			p      ledger.Payment
			date   *time.Time
			amount string
		)
		if err := rows.Scan(&p.ID, &p.Reference, &date, &p.InvoiceID, &amount); err != nil {
			return nil, err
		}
		if date != nil {
			p.Date = *date
		}
		if p.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PGRepository) ListClients(ctx context.Context) ([]ledger.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, COALESCE(name, ''), COALESCE(company, '') FROM clients`)
	if err != nil {
		return nil, fmt.Errorf("ledger repo: list clients: %w", err)
	}
	defer rows.Close()

	var clients []ledger.Client
	for rows.Next() {
		var c ledger.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Company); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *PGRepository) GetCompany(ctx context.Context) (ledger.Company, error) {
	var company ledger.Company
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(name, ''), COALESCE(siren, '') FROM company_profile LIMIT 1`).
		Scan(&company.Name, &company.SIREN)
	if errors.Is(err, pgx.ErrNoRows) {
		// No profile row yet: the FEC filename falls back to the zero
		// placeholder downstream.
		return ledger.Company{}, nil
	}
	if err != nil {
		return ledger.Company{}, fmt.Errorf("ledger repo: company profile: %w", err)
	}
	return company, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger repo: parse amount %q: %w", raw, err)
	}
	return amount, nil
}
