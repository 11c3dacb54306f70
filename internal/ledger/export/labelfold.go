package export

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// labelFolder strips combining marks: "TVA collectée" -> "TVA collectee".
var labelFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldLabel(s string) string {
	out, _, err := transform.String(labelFolder, s)
	if err != nil {
		return s
	}
	return out
}
