package ledger

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MapSalesInvoice converts a confirmed invoice into its balanced entry group:
// the client account is debited for the tax-inclusive total, matched by a
// revenue credit and a collected-VAT credit. The group always balances by
// construction since TTC = HT + (TTC - HT).
func MapSalesInvoice(inv SalesInvoice, client Client) []Entry {
	ref := inv.Number
	if ref == "" {
		ref = fallbackReference("F", inv.Date.Year(), inv.ID)
	}
	vat := inv.TotalInclTax.Sub(inv.TotalExclTax)
	return []Entry{
		{
			Date:        inv.Date,
			Reference:   ref,
			Label:       fmt.Sprintf("Facture %s - %s", ref, client.DisplayName()),
			Debit:       inv.TotalInclTax,
			Credit:      decimal.Zero,
			AccountCode: AccountClients,
			JournalCode: JournalSales,
		},
		{
			Date:        inv.Date,
			Reference:   ref,
			Label:       fmt.Sprintf("Facture %s - Prestations", ref),
			Debit:       decimal.Zero,
			Credit:      inv.TotalExclTax,
			AccountCode: AccountRevenue,
			JournalCode: JournalSales,
		},
		{
			Date:        inv.Date,
			Reference:   ref,
			Label:       fmt.Sprintf("Facture %s - TVA collectée", ref),
			Debit:       decimal.Zero,
			Credit:      vat,
			AccountCode: AccountVATCollected,
			JournalCode: JournalSales,
		},
	}
}

// MapExpense converts an expense into its balanced pair: the category account
// is debited and the supplier account credited for the same amount. A missing
// amount maps to zero so the anomalous document stays visible in the export
// instead of silently vanishing.
func MapExpense(exp Expense) []Entry {
	ref := exp.Reference
	if ref == "" {
		ref = fallbackReference("D", exp.Date.Year(), exp.ID)
	}
	category := exp.Category
	if category == "" {
		category = "Charge"
	}
	detail := exp.Description
	if detail == "" {
		detail = exp.Supplier
	}
	supplier := exp.Supplier
	if supplier == "" {
		supplier = "Fournisseur"
	}
	return []Entry{
		{
			Date:        exp.Date,
			Reference:   ref,
			Label:       fmt.Sprintf("%s - %s", category, detail),
			Debit:       exp.Amount,
			Credit:      decimal.Zero,
			AccountCode: ExpenseAccount(exp.Category),
			JournalCode: JournalPurchases,
		},
		{
			Date:        exp.Date,
			Reference:   ref,
			Label:       supplier,
			Debit:       decimal.Zero,
			Credit:      exp.Amount,
			AccountCode: AccountSuppliers,
			JournalCode: JournalPurchases,
		},
	}
}

// MapPayment converts a settlement into its bank-journal pair: bank debited,
// client receivables credited. Zero or negative amounts produce no entries.
func MapPayment(p Payment, inv SalesInvoice, client Client) []Entry {
	if !p.Amount.IsPositive() {
		return nil
	}
	ref := p.Reference
	if ref == "" {
		ref = fallbackReference("P", p.Date.Year(), p.ID)
	}
	debitLabel := fmt.Sprintf("Encaissement - %s", client.DisplayName())
	if inv.Number != "" {
		debitLabel = fmt.Sprintf("Encaissement fact. %s - %s", inv.Number, client.DisplayName())
	}
	return []Entry{
		{
			Date:        p.Date,
			Reference:   ref,
			Label:       debitLabel,
			Debit:       p.Amount,
			Credit:      decimal.Zero,
			AccountCode: AccountBank,
			JournalCode: JournalBank,
		},
		{
			Date:        p.Date,
			Reference:   ref,
			Label:       fmt.Sprintf("Règlement client %s", client.DisplayName()),
			Debit:       decimal.Zero,
			Credit:      p.Amount,
			AccountCode: AccountClients,
			JournalCode: JournalBank,
		},
	}
}

// Dataset groups the read-only collections one export consumes.
type Dataset struct {
	Invoices []SalesInvoice
	Expenses []Expense
	Payments []Payment
	Clients  []Client
}

// BuildEntries filters the dataset to the period, maps every document to its
// balanced group and returns the concatenation sorted by date ascending. The
// sort is stable: the regulatory format numbers rows by output position and
// auditors expect chronological order with ties kept in source order.
func BuildEntries(data Dataset, period Period) []Entry {
	clients := make(map[uuid.UUID]Client, len(data.Clients))
	for _, c := range data.Clients {
		clients[c.ID] = c
	}
	invoices := make(map[uuid.UUID]SalesInvoice, len(data.Invoices))
	for _, inv := range data.Invoices {
		invoices[inv.ID] = inv
	}

	var entries []Entry
	for _, inv := range FilterByPeriod(data.Invoices, period) {
		if inv.Status != InvoiceStatusConfirmed {
			continue
		}
		entries = append(entries, MapSalesInvoice(inv, clients[inv.ClientID])...)
	}
	for _, exp := range FilterByPeriod(data.Expenses, period) {
		entries = append(entries, MapExpense(exp)...)
	}
	for _, p := range FilterByPeriod(data.Payments, period) {
		inv := invoices[p.InvoiceID]
		entries = append(entries, MapPayment(p, inv, clients[inv.ClientID])...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// FilterByJournal keeps the entries of one journal; an empty or "all" code
// returns the list unchanged.
func FilterByJournal(entries []Entry, journal string) []Entry {
	if journal == "" || journal == "all" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.JournalCode == journal {
			out = append(out, e)
		}
	}
	return out
}

// Summarize computes the preview aggregates for a filtered dataset and its
// entries.
func Summarize(data Dataset, period Period, entries []Entry) Summary {
	s := Summary{
		TotalExclTax: decimal.Zero,
		TotalInclTax: decimal.Zero,
		TotalExpense: decimal.Zero,
		TotalPayment: decimal.Zero,
		TotalDebit:   decimal.Zero,
		TotalCredit:  decimal.Zero,
	}
	for _, inv := range FilterByPeriod(data.Invoices, period) {
		if inv.Status != InvoiceStatusConfirmed {
			continue
		}
		s.InvoiceCount++
		s.TotalExclTax = s.TotalExclTax.Add(inv.TotalExclTax)
		s.TotalInclTax = s.TotalInclTax.Add(inv.TotalInclTax)
	}
	for _, exp := range FilterByPeriod(data.Expenses, period) {
		s.ExpenseCount++
		s.TotalExpense = s.TotalExpense.Add(exp.Amount)
	}
	for _, p := range FilterByPeriod(data.Payments, period) {
		s.PaymentCount++
		s.TotalPayment = s.TotalPayment.Add(p.Amount)
	}
	for _, e := range entries {
		s.TotalDebit = s.TotalDebit.Add(e.Debit)
		s.TotalCredit = s.TotalCredit.Add(e.Credit)
	}
	return s
}

func fallbackReference(prefix string, year int, id uuid.UUID) string {
	fragment := id.String()
	if len(fragment) > 4 {
		fragment = fragment[:4]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, year, fragment)
}
