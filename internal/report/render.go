package report

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

// Metadata is written into the PDF information dictionary.
type Metadata struct {
	Title     string
	Subject   string
	CreatedAt time.Time
}

// Render serializes stamped pages to PDF. Image blocks are resolved against
// images; an image that cannot be embedded is drawn as a placeholder box and
// reported in the returned warnings. Output is byte-identical for identical input.
func Render(
	pages []Page, images map[imageopt.Key]imageopt.Result, cfg LayoutConfig, meta Metadata,
) ([]byte, []string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(cfg.MarginMM, cfg.MarginMM, cfg.MarginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(meta.CreatedAt)
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("inspection-report", true)
	registerFonts(pdf)
	if pdf.Err() {
		return nil, nil, fmt.Errorf("loading fonts: %w", pdf.Error())
	}

	r := &renderer{
		pdf:        pdf,
		cfg:        cfg,
		images:     images,
		registered: make(map[imageopt.Key]bool),
		broken:     make(map[imageopt.Key]bool),
	}
	for _, page := range pages {
		r.page(page)
	}

	if pdf.Err() {
		return nil, nil, fmt.Errorf("building PDF: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), r.warnings, nil
}

type renderer struct {
	pdf        *gofpdf.Fpdf
	cfg        LayoutConfig
	images     map[imageopt.Key]imageopt.Result
	registered map[imageopt.Key]bool
	broken     map[imageopt.Key]bool
	warnings   []string
}

func (r *renderer) page(page Page) {
	r.pdf.AddPage()
	r.pdf.SetLineWidth(0.2)
	for _, blk := range page.Blocks {
		switch b := blk.(type) {
		case TextBlock:
			r.text(b)
		case ImageBlock:
			r.image(b)
		case BoxBlock:
			r.box(b)
		case LineBlock:
			r.pdf.SetDrawColor(0, 0, 0)
			r.pdf.Line(b.X1, b.Y1, b.X2, b.Y2)
		}
	}
	r.footer(page)
}

func (r *renderer) text(b TextBlock) {
	r.pdf.SetFont(fontFamily, fontStyle(b.Bold), b.SizePt)
	r.pdf.SetTextColor(b.Gray, b.Gray, b.Gray)
	r.pdf.SetXY(b.X, b.Y)
	r.pdf.CellFormat(b.W, b.H, b.Text, "", 0, string(b.Align)+"M", false, 0, "")
}

func (r *renderer) box(b BoxBlock) {
	style := ""
	if b.Fill >= 0 {
		r.pdf.SetFillColor(b.Fill, b.Fill, b.Fill)
		style += "F"
	}
	if b.Border {
		r.pdf.SetDrawColor(0, 0, 0)
		style += "D"
	}
	if style == "" {
		return
	}
	r.pdf.Rect(b.X, b.Y, b.W, b.H, style)
}

func (r *renderer) image(b ImageBlock) {
	opt, ok := r.images[b.Key].(*imageopt.Optimized)
	if !ok || r.broken[b.Key] {
		r.box(BoxBlock{Rect: b.Rect, Fill: grayPlaceholderFill, Border: true})
		return
	}

	name := b.Key.String()
	opts := gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
	if !r.registered[b.Key] {
		r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(opt.Data))
		if r.pdf.Err() {
			log.Printf("WARNING: could not embed image %s: %v", sanitizeForLog(name), r.pdf.Error())
			r.warnings = append(r.warnings, fmt.Sprintf("image %s could not be embedded: %v", name, r.pdf.Error()))
			r.pdf.ClearError()
			r.broken[b.Key] = true
			r.box(BoxBlock{Rect: b.Rect, Fill: grayPlaceholderFill, Border: true})
			return
		}
		r.registered[b.Key] = true
	}
	r.pdf.ImageOptions(name, b.X, b.Y, b.W, b.H, false, opts, 0, "")
}

func (r *renderer) footer(page Page) {
	cfg := r.cfg
	y := cfg.BodyBottom()
	r.pdf.SetFont(fontFamily, "", cfg.SmallFontSizePt)
	r.pdf.SetTextColor(grayMuted, grayMuted, grayMuted)
	r.pdf.SetXY(cfg.ContentLeft(), y)
	r.pdf.CellFormat(cfg.ContentWidth(), cfg.FooterHeightMM, page.Stamp, "", 0, "LM", false, 0, "")
	r.pdf.SetXY(cfg.ContentLeft(), y)
	r.pdf.CellFormat(cfg.ContentWidth(), cfg.FooterHeightMM, page.Footer, "", 0, "RM", false, 0, "")
}
