// Package export renders one canonical ledger entry list into the externally
// mandated file formats. Every encoder is a lossless projection: re-parsing
// any output and summing its Debit/Credit columns recovers the totals of the
// source entries. Output is byte-identical across invocations for identical
// inputs, since the files may be filed with the tax authority and must be
// reproducible.
package export

import (
	"fmt"
	"time"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

// Format selects an encoder.
type Format string

const (
	// FormatCSV is the generic semicolon-delimited export.
	FormatCSV Format = "csv"
	// FormatFEC is the regulatory Fichier des Écritures Comptables.
	FormatFEC Format = "fec"
	// FormatSpreadsheet is the tab-separated, BOM-prefixed variant that
	// spreadsheet applications open with the right encoding.
	FormatSpreadsheet Format = "excel"
)

// Valid reports whether f names a known encoder.
func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatFEC, FormatSpreadsheet:
		return true
	}
	return false
}

// Options carries the context an encoder needs beyond the entries.
type Options struct {
	Company ledger.Company
	Period  ledger.Period
	// Journal is the active journal filter, reflected in the generic and
	// spreadsheet filenames. Empty or "all" means no filter.
	Journal string
	// Now is the export date stamped into the regulatory filename.
	Now time.Time
}

// Result is the finished file handed to the delivery collaborator.
type Result struct {
	Content     []byte `json:"content"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Render encodes entries in the requested format.
func Render(format Format, entries []ledger.Entry, opts Options) (Result, error) {
	switch format {
	case FormatCSV:
		return renderCSV(entries, opts)
	case FormatFEC:
		return renderFEC(entries, opts)
	case FormatSpreadsheet:
		return renderSpreadsheet(entries, opts)
	default:
		return Result{}, fmt.Errorf("export: unknown format %q", format)
	}
}

// sirenPlaceholder keeps the regulatory filename well-formed when the company
// profile has no tax identifier yet.
const sirenPlaceholder = "000000000"

func periodFilename(opts Options, ext string) string {
	suffix := ""
	if opts.Journal != "" && opts.Journal != "all" {
		suffix = "_" + opts.Journal
	}
	return fmt.Sprintf("export_comptable_%s%s.%s", opts.Period.From.Format("2006-01"), suffix, ext)
}

func formatDay(d time.Time) string { return d.Format("02/01/2006") }

func formatCompact(d time.Time) string { return d.Format("20060102") }
