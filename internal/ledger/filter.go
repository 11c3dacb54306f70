package ledger

import "time"

// Dated is any document carrying a posting date.
type Dated interface {
	DocDate() time.Time
}

// FilterByPeriod returns the documents whose date falls inside the period,
// bounds included. Documents with a missing (zero) date are dropped rather
// than treated as an error: persistence occasionally hands back rows whose
// date column never got filled in.
func FilterByPeriod[T Dated](records []T, period Period) []T {
	var out []T
	for _, rec := range records {
		d := rec.DocDate()
		if d.IsZero() {
			continue
		}
		if period.Contains(d) {
			out = append(out, rec)
		}
	}
	return out
}
