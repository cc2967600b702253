package report

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

// FindingPhotos is a finding with both photo fields decoded.
type FindingPhotos struct {
	database.Finding
	BeforeURIs []string
	AfterURIs  []string
}

// Input is everything the layout pass needs.
type Input struct {
	Ship        database.Ship
	Findings    []FindingPhotos
	Images      map[imageopt.Key]imageopt.Result
	GeneratedAt time.Time
}

// Gray levels used for drawing.
const (
	grayHeaderFill      = 225
	grayPlaceholderFill = 242
	grayBadgeFill       = 60
	grayMuted           = 110
	grayWhite           = 255
	noFill              = -1
)

type builder struct {
	cfg      LayoutConfig
	m        Measurer
	in       Input
	pages    []Page
	warnings []string
}

// BuildDocument lays out the table section and, when any finding has more
// than one photo in a set, the detail section. It is pure: the same input
// always yields the same pages. The returned warnings describe clipped content.
func BuildDocument(in Input, cfg LayoutConfig, m Measurer) (Document, []string) {
	in.Findings = slices.Clone(in.Findings)
	slices.SortStableFunc(in.Findings, func(a, b FindingPhotos) int {
		return cmp.Compare(a.SeqNo, b.SeqNo)
	})

	b := &builder{cfg: cfg, m: m, in: in}
	b.layoutTable()
	b.layoutDetail()
	return Document{Pages: b.pages}, b.warnings
}

func (b *builder) page() *Page {
	return &b.pages[len(b.pages)-1]
}

// newPage starts a page with the running title band and returns the body top Y.
func (b *builder) newPage(section Section) float64 {
	b.pages = append(b.pages, Page{Section: section})
	p := b.page()
	cfg := b.cfg

	ship := b.in.Ship
	title := "Inspection Report: " + ship.Name
	p.add(TextBlock{
		Rect:   Rect{X: cfg.ContentLeft(), Y: cfg.ContentTop(), W: cfg.ContentWidth(), H: 8},
		Text:   Truncate(b.m, title, cfg.ContentWidth(), cfg.TitleFontSizePt, true),
		SizePt: cfg.TitleFontSizePt,
		Bold:   true,
		Align:  AlignLeft,
	})

	sub := "Ship code " + ship.Code
	if ship.IMO != "" {
		sub += " | IMO " + ship.IMO
	}
	p.add(TextBlock{
		Rect:   Rect{X: cfg.ContentLeft(), Y: cfg.ContentTop() + 8, W: cfg.ContentWidth(), H: 4.5},
		Text:   Truncate(b.m, sub, cfg.ContentWidth(), cfg.SmallFontSizePt, false),
		SizePt: cfg.SmallFontSizePt,
		Align:  AlignLeft,
		Gray:   grayMuted,
	})

	ruleY := cfg.BodyTop() - 0.5
	p.add(LineBlock{X1: cfg.ContentLeft(), Y1: ruleY, X2: cfg.ContentRight(), Y2: ruleY})
	return cfg.BodyTop()
}

// text adds a truncated single-line text block inset by the cell padding.
func (b *builder) text(cell Rect, s string, sizePt float64, bold bool, align Align, gray int) {
	inner := inset(cell, b.cfg.CellPaddingMM)
	b.page().add(TextBlock{
		Rect:   inner,
		Text:   Truncate(b.m, s, inner.W, sizePt, bold),
		SizePt: sizePt,
		Bold:   bold,
		Align:  align,
		Gray:   gray,
	})
}

// image places an optimized image fitted into r, or reports false when the
// image is missing or failed.
func (b *builder) image(r Rect, key imageopt.Key) bool {
	opt, ok := b.in.Images[key].(*imageopt.Optimized)
	if !ok {
		return false
	}
	b.page().add(ImageBlock{Rect: fit(r, opt.Width, opt.Height), Key: key})
	return true
}

func inset(r Rect, d float64) Rect {
	w := max(r.W-2*d, 0)
	h := max(r.H-2*d, 0)
	return Rect{X: r.X + d, Y: r.Y + d, W: w, H: h}
}

// fit returns the largest rect with the image's aspect ratio centered in r.
func fit(r Rect, w, h int) Rect {
	if w <= 0 || h <= 0 {
		return r
	}
	scale := min(r.W/float64(w), r.H/float64(h))
	fw, fh := float64(w)*scale, float64(h)*scale
	return Rect{X: r.X + (r.W-fw)/2, Y: r.Y + (r.H-fh)/2, W: fw, H: fh}
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}
