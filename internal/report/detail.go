package report

import (
	"fmt"

	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

type photoGroup struct {
	label string
	uris  []string
}

// multiPhotoGroups returns the sets of a finding that hold more than one photo.
func multiPhotoGroups(f FindingPhotos) []photoGroup {
	var groups []photoGroup
	if len(f.BeforeURIs) > 1 {
		groups = append(groups, photoGroup{label: "Before", uris: f.BeforeURIs})
	}
	if len(f.AfterURIs) > 1 {
		groups = append(groups, photoGroup{label: "After", uris: f.AfterURIs})
	}
	return groups
}

// detailHeight returns the height of a finding's detail block.
func (b *builder) detailHeight(groups []photoGroup) float64 {
	cfg := b.cfg
	h := cfg.FindingHeaderMM
	for i, g := range groups {
		if i > 0 {
			h += cfg.TileGutterMM
		}
		h += cfg.SetLabelMM + cfg.tileGridHeight(len(g.uris))
	}
	return h
}

// newDetailPage starts a detail page and returns the Y below the section title.
func (b *builder) newDetailPage(continued bool) float64 {
	cfg := b.cfg
	y := b.newPage(SectionDetail)
	title := "Photo details"
	if continued {
		title += " (continued)"
	}
	b.page().add(TextBlock{
		Rect:   Rect{X: cfg.ContentLeft(), Y: y, W: cfg.ContentWidth(), H: cfg.SectionTitleMM},
		Text:   title,
		SizePt: cfg.FontSizePt + 3,
		Bold:   true,
		Align:  AlignLeft,
	})
	return y + cfg.SectionTitleMM
}

// layoutDetail emits one block per finding with a multi-photo set. A block
// is moved to a new page rather than split; a block taller than an empty
// page is clipped and a warning is recorded.
func (b *builder) layoutDetail() {
	cfg := b.cfg
	started := false
	var y float64

	for _, f := range b.in.Findings {
		groups := multiPhotoGroups(f)
		if len(groups) == 0 {
			continue
		}
		if !started {
			y = b.newDetailPage(false)
			started = true
		} else {
			y += cfg.FindingGapMM
		}

		h := b.detailHeight(groups)
		if y+h > cfg.BodyBottom() && len(b.page().Findings) > 0 {
			y = b.newDetailPage(true)
		}
		y = b.detailBlock(y, f, groups)
		b.page().Findings = append(b.page().Findings, f.SeqNo)
	}
}

// detailBlock draws a finding's header and tile grids starting at y and
// returns the Y below the last drawn element.
func (b *builder) detailBlock(y float64, f FindingPhotos, groups []photoGroup) float64 {
	cfg := b.cfg
	bottom := cfg.BodyBottom()

	header := Rect{X: cfg.ContentLeft(), Y: y, W: cfg.ContentWidth(), H: cfg.FindingHeaderMM}
	b.text(header, fmt.Sprintf("#%d %s", f.SeqNo, singleLine(f.Description)), cfg.FontSizePt+1, true, AlignLeft, 0)
	y += cfg.FindingHeaderMM

	total, shown := 0, 0
	perRow := cfg.TilesPerRow()
	for i, g := range groups {
		total += len(g.uris)
		if i > 0 {
			y += cfg.TileGutterMM
		}
		if y+cfg.SetLabelMM > bottom {
			continue
		}
		label := Rect{X: cfg.ContentLeft(), Y: y, W: cfg.ContentWidth(), H: cfg.SetLabelMM}
		b.text(label, fmt.Sprintf("%s (%d photos)", g.label, len(g.uris)), cfg.FontSizePt, true, AlignLeft, grayMuted)
		y += cfg.SetLabelMM

		for j, uri := range g.uris {
			col := j % perRow
			if col == 0 && j > 0 {
				y += cfg.TileHMM + cfg.TileGutterMM
			}
			if y+cfg.TileHMM > bottom {
				break
			}
			tile := Rect{
				X: cfg.ContentLeft() + float64(col)*(cfg.TileWMM+cfg.TileGutterMM),
				Y: y,
				W: cfg.TileWMM,
				H: cfg.TileHMM,
			}
			b.tile(tile, imageopt.Key{URI: uri, Preset: imageopt.PresetDetail})
			shown++
		}
		y = min(y+cfg.TileHMM, bottom)
	}

	if shown < total {
		b.warnf("finding #%d: detail block does not fit on a page, %d of %d photos shown", f.SeqNo, shown, total)
	}
	return y
}

func (b *builder) tile(r Rect, key imageopt.Key) {
	if b.image(r, key) {
		return
	}
	b.page().add(BoxBlock{Rect: r, Fill: grayPlaceholderFill, Border: true})
	b.page().add(TextBlock{
		Rect:   r,
		Text:   Truncate(b.m, "could not load", r.W, b.cfg.SmallFontSizePt, false),
		SizePt: b.cfg.SmallFontSizePt,
		Align:  AlignCenter,
		Gray:   grayMuted,
	})
}
