package report

import (
	"fmt"
	"strconv"

	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

const dateLayout = "2006-01-02"

// layoutTable emits one row per finding, repeating the header row on every
// page. With no findings a single page with an empty table is produced.
func (b *builder) layoutTable() {
	cfg := b.cfg
	perPage := cfg.RowsPerPage()

	if len(b.in.Findings) == 0 {
		y := b.newPage(SectionTable)
		b.tableHeader(y)
		return
	}

	var y float64
	for i, f := range b.in.Findings {
		if i%perPage == 0 {
			y = b.newPage(SectionTable)
			y = b.tableHeader(y)
		}
		b.tableRow(y, f)
		b.page().Findings = append(b.page().Findings, f.SeqNo)
		y += cfg.RowHeightMM
	}
}

// tableHeader draws the header row at y and returns the Y below it.
func (b *builder) tableHeader(y float64) float64 {
	cfg := b.cfg
	widths := cfg.ColumnWidths()
	x := cfg.ContentLeft()
	for col, title := range ColumnTitles {
		cell := Rect{X: x, Y: y, W: widths[col], H: cfg.HeaderRowMM}
		b.page().add(BoxBlock{Rect: cell, Fill: grayHeaderFill, Border: true})
		b.text(cell, title, cfg.FontSizePt, true, AlignLeft, 0)
		x += widths[col]
	}
	return y + cfg.HeaderRowMM
}

func (b *builder) tableRow(y float64, f FindingPhotos) {
	cfg := b.cfg
	widths := cfg.ColumnWidths()

	values := [numColumns]string{
		colNo:          strconv.Itoa(f.SeqNo),
		colDate:        f.Date.Format(dateLayout),
		colDescription: f.Description,
		colCategory:    f.Category,
		colPICShip:     f.PICShip,
		colPICOffice:   f.PICOffice,
		colStatus:      f.Status.Label(),
		colComment:     f.Comment,
	}

	x := cfg.ContentLeft()
	for col := range numColumns {
		cell := Rect{X: x, Y: y, W: widths[col], H: cfg.RowHeightMM}
		b.page().add(BoxBlock{Rect: cell, Fill: noFill, Border: true})
		switch col {
		case colBefore:
			b.photoCell(cell, f.BeforeURIs)
		case colAfter:
			b.photoCell(cell, f.AfterURIs)
		default:
			b.text(cell, values[col], cfg.FontSizePt, false, AlignLeft, 0)
		}
		x += widths[col]
	}
}

// photoCell shows the first photo as a thumbnail, "none" for an empty set,
// "present" when the thumbnail could not be produced, and a "+N" badge when
// more photos are deferred to the detail section.
func (b *builder) photoCell(cell Rect, uris []string) {
	cfg := b.cfg
	if len(uris) == 0 {
		b.text(cell, "none", cfg.SmallFontSizePt, false, AlignCenter, grayMuted)
		return
	}

	inner := inset(cell, cfg.CellPaddingMM)
	key := imageopt.Key{URI: uris[0], Preset: imageopt.PresetTable}
	if !b.image(inner, key) {
		b.page().add(BoxBlock{Rect: inner, Fill: grayPlaceholderFill, Border: false})
		b.text(cell, "present", cfg.SmallFontSizePt, false, AlignCenter, grayMuted)
	}

	if len(uris) > 1 {
		badge := Rect{
			X: inner.Right() - cfg.BadgeWMM,
			Y: inner.Y,
			W: min(cfg.BadgeWMM, inner.W),
			H: min(cfg.BadgeHMM, inner.H),
		}
		b.page().add(
			BoxBlock{Rect: badge, Fill: grayBadgeFill, Border: false},
			TextBlock{Rect: badge, Text: fmt.Sprintf("+%d", len(uris)-1), SizePt: cfg.SmallFontSizePt, Bold: true, Align: AlignCenter, Gray: grayWhite},
		)
	}
}
