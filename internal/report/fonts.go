package report

import (
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontFamily is the embedded UTF-8 family used for all report text. It covers
// Latin, Greek and Cyrillic scripts.
const fontFamily = "GoSans"

// registerFonts embeds the regular and bold Go fonts into pdf.
func registerFonts(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
}
