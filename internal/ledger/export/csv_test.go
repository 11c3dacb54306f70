package export

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func invoiceEntries(t *testing.T) []ledger.Entry {
	t.Helper()
	inv := ledger.SalesInvoice{
		Number:       "F-2025-0001",
		Status:       ledger.InvoiceStatusConfirmed,
		Date:         day(2025, time.March, 15),
		TotalExclTax: dec("1000.00"),
		TotalInclTax: dec("1100.00"),
	}
	return ledger.MapSalesInvoice(inv, ledger.Client{Name: "Dupont"})
}

func testOptions() Options {
	return Options{
		Company: ledger.Company{Name: "Chantier SARL", SIREN: "123456789"},
		Period:  ledger.ResolvePeriod(ledger.PresetCurrentMonth, day(2025, time.March, 20)),
		Now:     day(2025, time.April, 1),
	}
}

func TestRenderCSV(t *testing.T) {
	result, err := renderCSV(invoiceEntries(t), testOptions())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}

	content := string(result.Content)
	if !strings.Contains(content, "\r\n") {
		t.Fatalf("expected CRLF line endings")
	}
	lines := strings.Split(strings.TrimSuffix(content, "\r\n"), "\r\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if want := "Date;Reference;Label;Debit;Credit;AccountCode;JournalCode"; lines[0] != want {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if want := "15/03/2025;F-2025-0001;Facture F-2025-0001 - Dupont;1100.00;0.00;411000;VE"; lines[1] != want {
		t.Fatalf("unexpected client row: %q", lines[1])
	}
	if !strings.Contains(lines[2], ";1000.00;706000;VE") {
		t.Fatalf("unexpected revenue row: %q", lines[2])
	}
	if !strings.Contains(lines[3], ";100.00;445710;VE") {
		t.Fatalf("unexpected VAT row: %q", lines[3])
	}

	if result.Filename != "export_comptable_2025-03.csv" {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
	if result.ContentType != "text/csv" {
		t.Fatalf("unexpected content type: %q", result.ContentType)
	}
}

func TestRenderCSVQuotesDelimiterInText(t *testing.T) {
	entries := []ledger.Entry{{
		Date:        day(2025, time.March, 3),
		Reference:   "D-1",
		Label:       "Sable; gravier",
		Debit:       dec("42.50"),
		Credit:      decimal.Zero,
		AccountCode: "606000",
		JournalCode: "AC",
	}}

	result, err := renderCSV(entries, testOptions())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}
	if !strings.Contains(string(result.Content), `"Sable; gravier"`) {
		t.Fatalf("label containing the delimiter must be quoted, got %q", result.Content)
	}
}

func TestRenderCSVJournalSuffixInFilename(t *testing.T) {
	opts := testOptions()
	opts.Journal = "VE"

	result, err := renderCSV(invoiceEntries(t), opts)
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}
	if result.Filename != "export_comptable_2025-03_VE.csv" {
		t.Fatalf("unexpected filename: %q", result.Filename)
	}
}

func TestRenderCSVDeterministic(t *testing.T) {
	entries := invoiceEntries(t)
	first, err := renderCSV(entries, testOptions())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}
	second, err := renderCSV(entries, testOptions())
	if err != nil {
		t.Fatalf("renderCSV: %v", err)
	}
	if string(first.Content) != string(second.Content) {
		t.Fatalf("identical inputs must produce byte-identical output")
	}
}
