package report

import (
	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

// Rect is an axis-aligned rectangle in mm, origin at the top-left of the page.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the X of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Align is the horizontal alignment of a text block.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Block is a positioned drawing primitive. The set of block types is closed.
type Block interface {
	Bounds() Rect
	block()
}

// TextBlock is a single line of text vertically centered in its rect.
type TextBlock struct {
	Rect
	Text   string
	SizePt float64
	Bold   bool
	Align  Align
	Gray   int // text color, 0 = black
}

// ImageBlock places an optimized image. The image is looked up by Key at
// render time, so the document itself holds no image bytes.
type ImageBlock struct {
	Rect
	Key imageopt.Key
}

// BoxBlock is a rectangle with an optional fill and border.
type BoxBlock struct {
	Rect
	Fill   int // fill gray level, -1 for no fill
	Border bool
}

// LineBlock is a straight rule from (X1, Y1) to (X2, Y2).
type LineBlock struct {
	X1, Y1, X2, Y2 float64
}

func (b TextBlock) Bounds() Rect  { return b.Rect }
func (b ImageBlock) Bounds() Rect { return b.Rect }
func (b BoxBlock) Bounds() Rect   { return b.Rect }
func (b LineBlock) Bounds() Rect {
	return Rect{X: min(b.X1, b.X2), Y: min(b.Y1, b.Y2), W: abs(b.X2 - b.X1), H: abs(b.Y2 - b.Y1)}
}

func (TextBlock) block()  {}
func (ImageBlock) block() {}
func (BoxBlock) block()   {}
func (LineBlock) block()  {}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Section names the part of the report a page belongs to.
type Section string

const (
	SectionTable  Section = "table"
	SectionDetail Section = "detail"
)

// Page is one laid-out page. Number and footer fields are empty until Stamp runs.
type Page struct {
	Number   int
	Section  Section
	Findings []int // sequence numbers of findings placed on this page
	Blocks   []Block
	Footer   string // "page i of N"
	Stamp    string // generation timestamp
}

// Document is the ordered list of pages of a report.
type Document struct {
	Pages []Page
}

func (p *Page) add(b ...Block) {
	p.Blocks = append(p.Blocks, b...)
}
