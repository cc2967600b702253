package report

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Filename returns the download name of a report:
// Report_<ship name with underscores>_<YYYY-MM-DD>.pdf. The ship name is
// folded to printable ASCII and stripped of path separators and quotes.
func Filename(shipName string, date time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ';':
			return -1
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
			return -1
		}
		return r
	}, removeDiacritics(shipName))

	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Report_" + date.Format(dateLayout) + ".pdf"
	}
	return "Report_" + strings.Join(parts, "_") + "_" + date.Format(dateLayout) + ".pdf"
}
