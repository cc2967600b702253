package report

import (
	"fmt"
	"slices"
	"time"
)

const stampLayout = "2006-01-02 15:04 MST"

// Stamp returns copies of pages numbered 1..N with "page i of N" footers and
// the generation timestamp. The input pages are not modified.
func Stamp(pages []Page, generatedAt time.Time) []Page {
	stamp := "Generated " + generatedAt.UTC().Format(stampLayout)
	out := make([]Page, len(pages))
	for i, p := range pages {
		p.Number = i + 1
		p.Footer = fmt.Sprintf("page %d of %d", i+1, len(pages))
		p.Stamp = stamp
		p.Blocks = slices.Clone(p.Blocks)
		p.Findings = slices.Clone(p.Findings)
		out[i] = p
	}
	return out
}
