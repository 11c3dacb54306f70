package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

// fecHeader is the fixed 18-column layout mandated by article A.47 A-1 of the
// Livre des procédures fiscales.
var fecHeader = []string{
	"JournalCode", "JournalLib", "EcritureNum", "EcritureDate",
	"CompteNum", "CompteLib", "CompAuxNum", "CompAuxLib",
	"PieceRef", "PieceDate", "EcritureLib", "Debit", "Credit",
	"EcritureLet", "DateLet", "ValidDate", "Montantdevise", "Idevise",
}

// renderFEC writes the tax-audit file: tab-separated, CRLF-terminated, with a
// zero-padded 6-digit entry number assigned by output position. Journal and
// account labels come from the static chart, folded to their unaccented form
// so the file survives legacy audit tooling.
func renderFEC(entries []ledger.Entry, opts Options) (Result, error) {
	var buf bytes.Buffer
	writeFECRow(&buf, fecHeader)

	for i, e := range entries {
		day := formatCompact(e.Date)
		writeFECRow(&buf, []string{
			e.JournalCode,
			foldLabel(ledger.JournalLabel(e.JournalCode)),
			fmt.Sprintf("%06d", i+1),
			day,
			e.AccountCode,
			foldLabel(ledger.AccountLabel(e.AccountCode)),
			"",
			"",
			e.Reference,
			day,
			foldLabel(e.Label),
			e.Debit.StringFixed(2),
			e.Credit.StringFixed(2),
			"",
			"",
			day,
			"",
			"EUR",
		})
	}

	siren := opts.Company.SIREN
	if siren == "" {
		siren = sirenPlaceholder
	}
	return Result{
		Content:     buf.Bytes(),
		Filename:    fmt.Sprintf("%sFEC%s.txt", siren, formatCompact(opts.Now)),
		ContentType: "text/plain",
	}, nil
}

func writeFECRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte('\t')
		}
		buf.WriteString(sanitizeFECField(f))
	}
	buf.WriteString("\r\n")
}

// sanitizeFECField keeps the column grid intact: the format has no quoting,
// so separator characters inside a value must not survive.
func sanitizeFECField(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return ' '
		}
		return r
	}, s)
}
