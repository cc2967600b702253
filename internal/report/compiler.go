// Package report compiles a ship's findings and their photos into a
// paginated PDF inspection report.
package report

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
	"github.com/kozaktomas/inspection-report/internal/photoset"
)

// lowResDPIThreshold is the effective DPI below which a placed image is flagged.
const lowResDPIThreshold = 100.0

const mmPerInch = 25.4

// Batcher optimizes a set of images concurrently. *imageopt.Optimizer implements it.
type Batcher interface {
	Batch(ctx context.Context, keys []imageopt.Key, opts imageopt.BatchOptions) map[imageopt.Key]imageopt.Result
}

// Compiler turns findings into a PDF report.
type Compiler struct {
	Optimizer   Batcher
	Concurrency int                                       // parallel image optimizations, 0 = imageopt.DefaultConcurrency
	Now         func() time.Time                          // clock for the footer timestamp, nil = time.Now
	Layout      LayoutConfig                              // zero value = DefaultLayoutConfig()
	Measurer    Measurer                                  // nil = gofpdf core font metrics
	OnPlan      func(images int)                          // called once with the number of images to optimize
	OnImage     func(key imageopt.Key, r imageopt.Result) // progress callback, called concurrently
}

// NewCompiler creates a compiler with the default layout.
func NewCompiler(optimizer Batcher, concurrency int) *Compiler {
	return &Compiler{
		Optimizer:   optimizer,
		Concurrency: concurrency,
		Layout:      DefaultLayoutConfig(),
	}
}

// Result is a compiled report.
type Result struct {
	PDF      []byte
	Report   *ExportReport
	Filename string
}

// --- Export Report Types ---

// ExportReport contains metadata about a PDF export for quality analysis.
type ExportReport struct {
	ShipCode     string         `json:"ship_code"`
	ShipName     string         `json:"ship_name"`
	GeneratedAt  time.Time      `json:"generated_at"`
	PageCount    int            `json:"page_count"`
	FindingCount int            `json:"finding_count"`
	ImageCount   int            `json:"image_count"`
	FailedImages int            `json:"failed_images"`
	Pages        []ReportPage   `json:"pages"`
	Failures     []ImageFailure `json:"failures"`
	Warnings     []string       `json:"warnings"`
}

// ReportPage describes a single page in the export report.
type ReportPage struct {
	PageNumber int           `json:"page_number"`
	Section    Section       `json:"section"`
	Findings   []int         `json:"findings,omitempty"`
	Images     []ReportImage `json:"images,omitempty"`
}

// ReportImage describes a single image placement in the export report.
type ReportImage struct {
	URI          string  `json:"uri"`
	Preset       string  `json:"preset"`
	EffectiveDPI float64 `json:"effective_dpi"`
	LowRes       bool    `json:"low_res"`
}

// ImageFailure records an image that could not be optimized.
type ImageFailure struct {
	URI    string `json:"uri"`
	Preset string `json:"preset"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func (c *Compiler) layout() LayoutConfig {
	if c.Layout.RowHeightMM == 0 {
		return DefaultLayoutConfig()
	}
	return c.Layout
}

func (c *Compiler) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// CompileShip loads a ship and its findings from reader and compiles them.
// Read errors are returned; per-image failures never are.
func (c *Compiler) CompileShip(ctx context.Context, reader database.FindingReader, shipCode string) (*Result, error) {
	ship, err := reader.GetShip(ctx, shipCode)
	if err != nil {
		return nil, fmt.Errorf("load ship: %w", err)
	}
	findings, err := reader.ListFindings(ctx, shipCode)
	if err != nil {
		return nil, fmt.Errorf("load findings: %w", err)
	}
	return c.Compile(ctx, *ship, findings)
}

// Compile decodes photo fields, optimizes every referenced image, lays out
// the pages, stamps them and serializes the PDF. Individual image failures
// degrade to placeholders. A canceled context aborts compilation and no
// document is returned.
func (c *Compiler) Compile(ctx context.Context, ship database.Ship, findings []database.Finding) (*Result, error) {
	if c.Optimizer == nil {
		return nil, errors.New("no image optimizer configured")
	}
	cfg := c.layout()
	measurer := c.Measurer
	if measurer == nil {
		measurer = NewPDFMeasurer()
	}

	decoded := decodeFindings(findings)
	keys := collectKeys(decoded)
	if c.OnPlan != nil {
		c.OnPlan(len(keys))
	}

	images := c.Optimizer.Batch(ctx, keys, imageopt.BatchOptions{
		Concurrency: c.Concurrency,
		OnResult:    c.OnImage,
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compile report: %w", err)
	}

	generatedAt := c.now()
	doc, layoutWarnings := BuildDocument(Input{
		Ship:        ship,
		Findings:    decoded,
		Images:      images,
		GeneratedAt: generatedAt,
	}, cfg, measurer)
	pages := Stamp(doc.Pages, generatedAt)

	report := newExportReport(ship, len(findings), generatedAt, pages, images, cfg)
	report.Warnings = append(report.Warnings, layoutWarnings...)
	for _, vw := range ValidatePages(pages, cfg) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Layout: page %d block %d: %s", vw.PageNumber, vw.BlockIndex, vw.Message))
	}
	logFailures(ship.Code, report.Failures)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compile report: %w", err)
	}
	pdf, renderWarnings, err := Render(pages, images, cfg, Metadata{
		Title:     "Inspection Report: " + ship.Name,
		Subject:   "Findings of " + ship.Code,
		CreatedAt: generatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	report.Warnings = append(report.Warnings, renderWarnings...)

	return &Result{
		PDF:      pdf,
		Report:   report,
		Filename: Filename(ship.Name, generatedAt.UTC()),
	}, nil
}

// decodeFindings decodes both photo fields of every finding.
func decodeFindings(findings []database.Finding) []FindingPhotos {
	out := make([]FindingPhotos, len(findings))
	for i, f := range findings {
		out[i] = FindingPhotos{
			Finding:    f,
			BeforeURIs: photoset.Decode(f.Before),
			AfterURIs:  photoset.Decode(f.After),
		}
	}
	return out
}

// collectKeys lists the images the layout will need: the first photo of each
// set as a table thumbnail and every photo of a multi-photo set as a detail tile.
func collectKeys(findings []FindingPhotos) []imageopt.Key {
	var keys []imageopt.Key
	for _, f := range findings {
		for _, uris := range [][]string{f.BeforeURIs, f.AfterURIs} {
			if len(uris) == 0 {
				continue
			}
			keys = append(keys, imageopt.Key{URI: uris[0], Preset: imageopt.PresetTable})
			if len(uris) > 1 {
				for _, u := range uris {
					keys = append(keys, imageopt.Key{URI: u, Preset: imageopt.PresetDetail})
				}
			}
		}
	}
	return imageopt.UniqueKeys(keys)
}

func newExportReport(
	ship database.Ship, findingCount int, generatedAt time.Time, pages []Page,
	images map[imageopt.Key]imageopt.Result, cfg LayoutConfig,
) *ExportReport {
	report := &ExportReport{
		ShipCode:     ship.Code,
		ShipName:     ship.Name,
		GeneratedAt:  generatedAt,
		PageCount:    len(pages),
		FindingCount: findingCount,
		ImageCount:   len(images),
		Failures:     []ImageFailure{},
		Warnings:     []string{},
	}

	for _, r := range images {
		if f, ok := r.(*imageopt.Failed); ok {
			report.Failures = append(report.Failures, ImageFailure{
				URI:    f.Key.URI,
				Preset: string(f.Key.Preset),
				Kind:   string(f.Kind),
				Reason: f.Reason,
			})
		}
	}
	slices.SortFunc(report.Failures, func(a, b ImageFailure) int {
		return cmp.Or(cmp.Compare(a.URI, b.URI), cmp.Compare(a.Preset, b.Preset))
	})
	report.FailedImages = len(report.Failures)

	for _, p := range pages {
		rp := ReportPage{PageNumber: p.Number, Section: p.Section, Findings: p.Findings}
		for _, blk := range p.Blocks {
			img, ok := blk.(ImageBlock)
			if !ok {
				continue
			}
			opt, ok := images[img.Key].(*imageopt.Optimized)
			if !ok || img.W <= 0 {
				continue
			}
			dpi := float64(opt.Width) / (img.W / mmPerInch)
			ri := ReportImage{
				URI:          img.Key.URI,
				Preset:       string(img.Key.Preset),
				EffectiveDPI: dpi,
				LowRes:       dpi < lowResDPIThreshold,
			}
			rp.Images = append(rp.Images, ri)
			if ri.LowRes {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("Page %d (%s): effective DPI %.0f is below %d",
						p.Number, ri.URI, dpi, int(lowResDPIThreshold)))
			}
		}
		report.Pages = append(report.Pages, rp)
	}
	return report
}

func logFailures(shipCode string, failures []ImageFailure) {
	for _, f := range failures {
		log.Printf("WARNING: report %s: image %s (%s) failed: %s: %s", //nolint:gosec // values sanitized
			sanitizeForLog(shipCode), sanitizeForLog(f.URI), f.Preset, f.Kind, sanitizeForLog(f.Reason))
	}
}

// sanitizeForLog removes newline characters to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
