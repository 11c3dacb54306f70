package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

var delimitedHeader = []string{"Date", "Reference", "Label", "Debit", "Credit", "AccountCode", "JournalCode"}

// renderCSV writes the generic semicolon-delimited export: DD/MM/YYYY dates,
// two fraction digits, CRLF line endings. encoding/csv quotes any field
// containing the delimiter, a quote or a newline, which is exactly the
// contract downstream accounting tools expect.
func renderCSV(entries []ledger.Entry, opts Options) (Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	w.UseCRLF = true

	if err := w.Write(delimitedHeader); err != nil {
		return Result{}, fmt.Errorf("export: csv header: %w", err)
	}
	for i, e := range entries {
		if err := w.Write(delimitedRow(e)); err != nil {
			return Result{}, fmt.Errorf("export: csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Result{}, fmt.Errorf("export: csv flush: %w", err)
	}

	return Result{
		Content:     buf.Bytes(),
		Filename:    periodFilename(opts, "csv"),
		ContentType: "text/csv",
	}, nil
}

func delimitedRow(e ledger.Entry) []string {
	return []string{
		formatDay(e.Date),
		e.Reference,
		e.Label,
		e.Debit.StringFixed(2),
		e.Credit.StringFixed(2),
		e.AccountCode,
		e.JournalCode,
	}
}
