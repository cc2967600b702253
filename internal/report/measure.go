package report

import (
	"log"
	"strings"
	"sync"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

const ellipsis = "..."

// Measurer reports the rendered width in mm of a single line of text.
type Measurer interface {
	TextWidth(text string, sizePt float64, bold bool) float64
}

// pdfMeasurer measures with the embedded font metrics the renderer uses.
type pdfMeasurer struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
}

// NewPDFMeasurer returns a Measurer backed by the report font's metrics.
func NewPDFMeasurer() Measurer {
	pdf := gofpdf.New("L", "mm", "A4", "")
	registerFonts(pdf)
	if pdf.Err() {
		log.Printf("WARNING: could not load report fonts: %v", pdf.Error())
	}
	return &pdfMeasurer{pdf: pdf}
}

func (m *pdfMeasurer) TextWidth(text string, sizePt float64, bold bool) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(fontFamily, fontStyle(bold), sizePt)
	return m.pdf.GetStringWidth(text)
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// singleLine collapses all whitespace runs, newlines included, into one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate fits text on one line of at most maxW mm, cutting it and appending
// "..." when it is too long. Returns "" if not even the ellipsis fits.
func Truncate(m Measurer, text string, maxW, sizePt float64, bold bool) string {
	text = singleLine(text)
	if m.TextWidth(text, sizePt, bold) <= maxW {
		return text
	}

	r := []rune(text)
	fits := func(n int) bool {
		return m.TextWidth(string(r[:n])+ellipsis, sizePt, bold) <= maxW
	}
	if !fits(0) {
		return ""
	}
	// Largest prefix length n with fits(n); width grows with n.
	lo, hi := 0, len(r)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return strings.TrimRightFunc(string(r[:lo]), unicode.IsSpace) + ellipsis
}
