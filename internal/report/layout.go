package report

// Page dimensions in mm (A4 landscape).
const (
	PageW = 297.0
	PageH = 210.0
)

// Table column indexes.
const (
	colNo = iota
	colDate
	colDescription
	colCategory
	colPICShip
	colPICOffice
	colStatus
	colBefore
	colAfter
	colComment
	numColumns
)

// ColumnTitles are the table header labels, in column order.
var ColumnTitles = [numColumns]string{
	"No.", "Date", "Description", "Category", "PIC Ship", "PIC Office", "Status", "Before", "After", "Comment",
}

// LayoutConfig holds the page zones and the fixed table and tile geometry.
type LayoutConfig struct {
	MarginMM        float64 // 10mm on all sides
	HeaderHeightMM  float64 // 14mm title band at the top of every page
	FooterHeightMM  float64 // 8mm band for page numbers and timestamp
	HeaderRowMM     float64 // 8mm table header row
	RowHeightMM     float64 // 22mm table row, fits one table thumbnail
	CellPaddingMM   float64 // 1.2mm inset inside table cells
	ColumnWeights   [numColumns]float64
	FontSizePt      float64 // 8pt body text
	TitleFontSizePt float64 // 14pt page title
	SmallFontSizePt float64 // 6.5pt footer, badges and placeholders

	BadgeWMM float64 // "+N" badge size
	BadgeHMM float64

	SectionTitleMM  float64 // 10mm detail section title
	FindingHeaderMM float64 // 7mm "#<seq> <description>" line
	SetLabelMM      float64 // 5mm "Before"/"After" label
	TileWMM         float64 // 45mm detail tile
	TileHMM         float64 // 34mm
	TileGutterMM    float64 // 4mm between tiles and tile rows
	FindingGapMM    float64 // 5mm between finding blocks
}

// DefaultLayoutConfig returns the report layout configuration.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MarginMM:        10.0,
		HeaderHeightMM:  14.0,
		FooterHeightMM:  8.0,
		HeaderRowMM:     8.0,
		RowHeightMM:     22.0,
		CellPaddingMM:   1.2,
		ColumnWeights:   [numColumns]float64{4, 8, 22, 9, 9, 9, 6, 10, 10, 13},
		FontSizePt:      8.0,
		TitleFontSizePt: 14.0,
		SmallFontSizePt: 6.5,
		BadgeWMM:        8.0,
		BadgeHMM:        5.0,
		SectionTitleMM:  10.0,
		FindingHeaderMM: 7.0,
		SetLabelMM:      5.0,
		TileWMM:         45.0,
		TileHMM:         34.0,
		TileGutterMM:    4.0,
		FindingGapMM:    5.0,
	}
}

// ContentLeft returns the X of the left content edge.
func (c LayoutConfig) ContentLeft() float64 { return c.MarginMM }

// ContentRight returns the X of the right content edge.
func (c LayoutConfig) ContentRight() float64 { return PageW - c.MarginMM }

// ContentWidth returns the usable horizontal space.
// 297 - 2*10 = 277mm.
func (c LayoutConfig) ContentWidth() float64 { return c.ContentRight() - c.ContentLeft() }

// ContentTop returns the Y of the top content edge.
func (c LayoutConfig) ContentTop() float64 { return c.MarginMM }

// ContentBottom returns the Y of the bottom content edge.
func (c LayoutConfig) ContentBottom() float64 { return PageH - c.MarginMM }

// BodyTop returns the Y where page body starts, below the title band.
func (c LayoutConfig) BodyTop() float64 { return c.ContentTop() + c.HeaderHeightMM }

// BodyBottom returns the Y where page body ends, above the footer band.
// 210 - 10 - 8 = 192mm.
func (c LayoutConfig) BodyBottom() float64 { return c.ContentBottom() - c.FooterHeightMM }

// BodyHeight returns the vertical space available for body content on an empty page.
func (c LayoutConfig) BodyHeight() float64 { return c.BodyBottom() - c.BodyTop() }

// ColumnWidths distributes the content width over the table columns by weight.
func (c LayoutConfig) ColumnWidths() [numColumns]float64 {
	var total float64
	for _, w := range c.ColumnWeights {
		total += w
	}
	var widths [numColumns]float64
	for i, w := range c.ColumnWeights {
		widths[i] = c.ContentWidth() * w / total
	}
	return widths
}

// ColumnOffset returns the absolute X of a 0-indexed column's left edge.
func (c LayoutConfig) ColumnOffset(col int) float64 {
	widths := c.ColumnWidths()
	x := c.ContentLeft()
	for i := range col {
		x += widths[i]
	}
	return x
}

// RowsPerPage returns how many table rows fit under the header row.
func (c LayoutConfig) RowsPerPage() int {
	n := int((c.BodyHeight() - c.HeaderRowMM) / c.RowHeightMM)
	return max(n, 1)
}

// TilesPerRow returns how many detail tiles fit across the content width, at least 1.
func (c LayoutConfig) TilesPerRow() int {
	n := int(c.ContentWidth() / (c.TileWMM + c.TileGutterMM))
	return max(n, 1)
}

// tileGridHeight returns the height of a grid of n tiles.
func (c LayoutConfig) tileGridHeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	rows := (n + c.TilesPerRow() - 1) / c.TilesPerRow()
	return float64(rows)*c.TileHMM + float64(rows-1)*c.TileGutterMM
}
