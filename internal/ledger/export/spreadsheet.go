package export

import (
	"bytes"
	"strings"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
)

// utf8BOM makes spreadsheet applications auto-detect the encoding instead of
// mangling accented labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// renderSpreadsheet writes the same seven logical columns as the generic
// export, tab-separated and BOM-prefixed.
func renderSpreadsheet(entries []ledger.Entry, opts Options) (Result, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writeTabRow(&buf, delimitedHeader)
	for _, e := range entries {
		writeTabRow(&buf, delimitedRow(e))
	}

	return Result{
		Content:     buf.Bytes(),
		Filename:    periodFilename(opts, "csv"),
		ContentType: "text/csv",
	}, nil
}

func writeTabRow(buf *bytes.Buffer, fields []string) {
	sanitized := make([]string, len(fields))
	for i, f := range fields {
		sanitized[i] = sanitizeFECField(f)
	}
	buf.WriteString(strings.Join(sanitized, "\t"))
	buf.WriteString("\r\n")
}
