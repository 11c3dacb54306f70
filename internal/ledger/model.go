package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates the lifecycle of a sales document.
type InvoiceStatus string

const (
	// InvoiceStatusQuote marks a document that has not been confirmed yet.
	// Quotes never produce ledger entries.
	InvoiceStatusQuote InvoiceStatus = "QUOTE"
	// InvoiceStatusConfirmed marks a confirmed invoice.
	InvoiceStatusConfirmed InvoiceStatus = "INVOICE"
)

// SalesInvoice is a confirmed sales document as loaded from persistence.
type SalesInvoice struct {
	ID           uuid.UUID
	Number       string
	Status       InvoiceStatus
	Date         time.Time
	ClientID     uuid.UUID
	TotalExclTax decimal.Decimal
	TotalInclTax decimal.Decimal
}

// DocDate implements Dated.
func (i SalesInvoice) DocDate() time.Time { return i.Date }

// Client carries the display information embedded in entry labels.
type Client struct {
	ID      uuid.UUID
	Name    string
	Company string
}

// DisplayName prefers the person name over the company name.
func (c Client) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Company != "" {
		return c.Company
	}
	return "Client inconnu"
}

// Expense is a purchase record.
type Expense struct {
	ID          uuid.UUID
	Reference   string
	Date        time.Time
	Supplier    string
	Category    string
	Description string
	Amount      decimal.Decimal
}

// DocDate implements Dated.
func (e Expense) DocDate() time.Time { return e.Date }

// Payment is a settlement received against a sales invoice.
type Payment struct {
	ID        uuid.UUID
	Reference string
	Date      time.Time
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// DocDate implements Dated.
func (p Payment) DocDate() time.Time { return p.Date }

// Company is the profile whose tax identifier names the regulatory file.
type Company struct {
	Name  string
	SIREN string
}

// Entry is one line of a double-entry record. Entries are always produced in
// same-document groups whose debit sum equals their credit sum; they are
// derived per export and never persisted.
type Entry struct {
	Date        time.Time
	Reference   string
	Label       string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	AccountCode string
	JournalCode string
}

// Balance is the equilibrium check result. An imbalance signals a mapping
// defect and is surfaced as a warning, never corrected.
type Balance struct {
	Balanced   bool
	Difference decimal.Decimal
}

// Summary aggregates a period for the preview surface.
type Summary struct {
	InvoiceCount int             `json:"invoiceCount"`
	ExpenseCount int             `json:"expenseCount"`
	PaymentCount int             `json:"paymentCount"`
	TotalExclTax decimal.Decimal `json:"totalExclTax"`
	TotalInclTax decimal.Decimal `json:"totalInclTax"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalPayment decimal.Decimal `json:"totalPayment"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
}
