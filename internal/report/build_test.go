package report

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
)

var testShip = database.Ship{Code: "SB01", Name: "Sea Breeze", IMO: "9876543"}

var testTime = time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

func testFinding(seq int, before, after []string) FindingPhotos {
	return FindingPhotos{
		Finding: database.Finding{
			ID:          fmt.Sprintf("f-%d", seq),
			ShipCode:    testShip.Code,
			SeqNo:       seq,
			Date:        time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			Description: fmt.Sprintf("Finding number %d", seq),
			Category:    "Hull",
			PICShip:     "Bosun",
			PICOffice:   "Superintendent",
			Status:      database.StatusOpen,
		},
		BeforeURIs: before,
		AfterURIs:  after,
	}
}

func uris(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://photos.example.com/%s-%d.jpg", prefix, i)
	}
	return out
}

// allOptimized returns a successful result for every key the findings need.
func allOptimized(findings []FindingPhotos) map[imageopt.Key]imageopt.Result {
	images := make(map[imageopt.Key]imageopt.Result)
	for _, k := range collectKeys(findings) {
		p := imageopt.MustPreset(k.Preset)
		images[k] = &imageopt.Optimized{Key: k, Width: p.MaxWidth, Height: p.MaxHeight}
	}
	return images
}

// allFailed returns a fetch failure for every key the findings need.
func allFailed(findings []FindingPhotos) map[imageopt.Key]imageopt.Result {
	images := make(map[imageopt.Key]imageopt.Result)
	for _, k := range collectKeys(findings) {
		images[k] = &imageopt.Failed{Key: k, Kind: imageopt.FailFetch, Reason: "404"}
	}
	return images
}

func build(t *testing.T, findings []FindingPhotos, images map[imageopt.Key]imageopt.Result) (Document, []string) {
	t.Helper()
	return BuildDocument(Input{
		Ship:        testShip,
		Findings:    findings,
		Images:      images,
		GeneratedAt: testTime,
	}, DefaultLayoutConfig(), runeMeasurer{})
}

func pageTexts(p Page) []string {
	var out []string
	for _, b := range p.Blocks {
		if tb, ok := b.(TextBlock); ok {
			out = append(out, tb.Text)
		}
	}
	return out
}

func pageImages(p Page) []ImageBlock {
	var out []ImageBlock
	for _, b := range p.Blocks {
		if ib, ok := b.(ImageBlock); ok {
			out = append(out, ib)
		}
	}
	return out
}

func pagesIn(doc Document, s Section) []Page {
	var out []Page
	for _, p := range doc.Pages {
		if p.Section == s {
			out = append(out, p)
		}
	}
	return out
}

func TestBuildDocument_NoFindings(t *testing.T) {
	doc, warnings := build(t, nil, nil)

	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	p := doc.Pages[0]
	if p.Section != SectionTable {
		t.Errorf("expected table section, got %s", p.Section)
	}
	texts := pageTexts(p)
	for _, title := range ColumnTitles {
		if !slices.Contains(texts, title) {
			t.Errorf("header row is missing column %q", title)
		}
	}
	if !slices.Contains(texts, "Inspection Report: Sea Breeze") {
		t.Errorf("missing page title, got %v", texts)
	}
	if len(p.Findings) != 0 {
		t.Errorf("expected no findings on page, got %v", p.Findings)
	}

	stamped := Stamp(doc.Pages, testTime)
	if stamped[0].Footer != "page 1 of 1" {
		t.Errorf("footer = %q", stamped[0].Footer)
	}
}

func TestBuildDocument_MultiPhotoBefore(t *testing.T) {
	findings := []FindingPhotos{testFinding(1, uris("before", 3), nil)}
	doc, warnings := build(t, findings, allOptimized(findings))

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	tables := pagesIn(doc, SectionTable)
	details := pagesIn(doc, SectionDetail)
	if len(tables) != 1 || len(details) != 1 {
		t.Fatalf("expected 1 table and 1 detail page, got %d and %d", len(tables), len(details))
	}

	texts := pageTexts(tables[0])
	if !slices.Contains(texts, "+2") {
		t.Errorf("expected +2 badge, got %v", texts)
	}
	if !slices.Contains(texts, "none") {
		t.Errorf("expected 'none' for the empty after set, got %v", texts)
	}
	thumbs := pageImages(tables[0])
	if len(thumbs) != 1 {
		t.Fatalf("expected 1 thumbnail, got %d", len(thumbs))
	}
	if thumbs[0].Key != (imageopt.Key{URI: findings[0].BeforeURIs[0], Preset: imageopt.PresetTable}) {
		t.Errorf("thumbnail should be the first before photo, got %v", thumbs[0].Key)
	}

	tiles := pageImages(details[0])
	if len(tiles) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(tiles))
	}
	for i, tile := range tiles {
		if tile.Key.Preset != imageopt.PresetDetail || tile.Key.URI != findings[0].BeforeURIs[i] {
			t.Errorf("tile %d = %v", i, tile.Key)
		}
		if i > 0 && (tile.Y != tiles[0].Y || tile.X <= tiles[i-1].X) {
			t.Errorf("tiles should share one row left to right, tile %d at (%.1f, %.1f)", i, tile.X, tile.Y)
		}
	}
	dtexts := pageTexts(details[0])
	if !slices.Contains(dtexts, "Photo details") || !slices.Contains(dtexts, "Before (3 photos)") {
		t.Errorf("unexpected detail texts %v", dtexts)
	}
	if !slices.Contains(dtexts, "#1 Finding number 1") {
		t.Errorf("missing finding header, got %v", dtexts)
	}
	if !slices.Equal(details[0].Findings, []int{1}) {
		t.Errorf("detail page findings = %v", details[0].Findings)
	}
}

func TestBuildDocument_SinglePhotosHaveNoDetailSection(t *testing.T) {
	var findings []FindingPhotos
	for i := range 50 {
		findings = append(findings, testFinding(i+1, uris(fmt.Sprintf("b%d", i), 1), uris(fmt.Sprintf("a%d", i), 1)))
	}
	doc, _ := build(t, findings, allOptimized(findings))

	if len(doc.Pages) != 8 {
		t.Fatalf("expected 8 table pages, got %d", len(doc.Pages))
	}
	if len(pagesIn(doc, SectionDetail)) != 0 {
		t.Error("expected no detail section")
	}

	var seen []int
	for i, p := range doc.Pages {
		if len(p.Findings) > 7 {
			t.Errorf("page %d holds %d rows", i+1, len(p.Findings))
		}
		if !slices.Contains(pageTexts(p), "Description") {
			t.Errorf("page %d is missing the repeated header row", i+1)
		}
		seen = append(seen, p.Findings...)
	}
	if len(seen) != 50 || !slices.IsSorted(seen) {
		t.Errorf("every finding should appear once in order, got %v", seen)
	}
	if last := doc.Pages[7].Findings; !slices.Equal(last, []int{50}) {
		t.Errorf("last page findings = %v", last)
	}
}

func TestBuildDocument_SortsBySeqNo(t *testing.T) {
	findings := []FindingPhotos{testFinding(3, nil, nil), testFinding(1, nil, nil), testFinding(2, nil, nil)}
	doc, _ := build(t, findings, nil)
	if !slices.Equal(doc.Pages[0].Findings, []int{1, 2, 3}) {
		t.Errorf("rows not ordered by sequence number: %v", doc.Pages[0].Findings)
	}
	if findings[0].SeqNo != 3 {
		t.Error("input slice must not be reordered")
	}
}

func TestBuildDocument_FailedImages(t *testing.T) {
	findings := []FindingPhotos{testFinding(1, uris("b", 2), uris("a", 1))}
	doc, _ := build(t, findings, allFailed(findings))

	table := pagesIn(doc, SectionTable)[0]
	if n := len(pageImages(table)); n != 0 {
		t.Errorf("failed images must not be placed, got %d", n)
	}
	present := 0
	for _, s := range pageTexts(table) {
		if s == "present" {
			present++
		}
	}
	if present != 2 {
		t.Errorf("expected 2 'present' placeholders, got %d", present)
	}

	detail := pagesIn(doc, SectionDetail)[0]
	failed := 0
	for _, s := range pageTexts(detail) {
		if s == "could not load" {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 'could not load' tiles, got %d", failed)
	}
}

func TestBuildDocument_DetailBlocksMoveToNextPage(t *testing.T) {
	findings := []FindingPhotos{
		testFinding(1, uris("one", 10), nil),
		testFinding(2, uris("two", 10), nil),
	}
	doc, warnings := build(t, findings, allOptimized(findings))

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	details := pagesIn(doc, SectionDetail)
	if len(details) != 2 {
		t.Fatalf("expected 2 detail pages, got %d", len(details))
	}
	if !slices.Equal(details[0].Findings, []int{1}) || !slices.Equal(details[1].Findings, []int{2}) {
		t.Errorf("blocks split unexpectedly: %v / %v", details[0].Findings, details[1].Findings)
	}
	if !slices.Contains(pageTexts(details[1]), "Photo details (continued)") {
		t.Errorf("second detail page should be titled as continued, got %v", pageTexts(details[1]))
	}
	for _, p := range details {
		if n := len(pageImages(p)); n != 10 {
			t.Errorf("expected 10 tiles per page, got %d", n)
		}
	}
}

func TestBuildDocument_OversizedBlockIsClipped(t *testing.T) {
	findings := []FindingPhotos{testFinding(7, uris("many", 20), nil)}
	doc, warnings := build(t, findings, allOptimized(findings))

	want := "finding #7: detail block does not fit on a page, 15 of 20 photos shown"
	if !slices.Contains(warnings, want) {
		t.Errorf("expected clipping warning %q, got %v", want, warnings)
	}
	details := pagesIn(doc, SectionDetail)
	if len(details) != 1 {
		t.Fatalf("expected a single clipped detail page, got %d", len(details))
	}
	if n := len(pageImages(details[0])); n != 15 {
		t.Errorf("expected 15 tiles, got %d", n)
	}

	stamped := Stamp(doc.Pages, testTime)
	if vw := ValidatePages(stamped, DefaultLayoutConfig()); len(vw) != 0 {
		t.Errorf("clipped page should still validate, got %+v", vw)
	}
}

func TestBuildDocument_LongTextIsTruncated(t *testing.T) {
	f := testFinding(1, nil, nil)
	f.Description = strings.Repeat("corrosion ", 40)
	doc, _ := build(t, []FindingPhotos{f}, nil)

	var found bool
	for _, s := range pageTexts(doc.Pages[0]) {
		if strings.HasPrefix(s, "corrosion") {
			found = true
			if !strings.HasSuffix(s, "...") {
				t.Errorf("long description not truncated: %q", s)
			}
		}
	}
	if !found {
		t.Error("description cell missing")
	}
}

func TestBuildDocument_Deterministic(t *testing.T) {
	findings := []FindingPhotos{
		testFinding(2, uris("b2", 4), uris("a2", 2)),
		testFinding(1, uris("b1", 1), nil),
		testFinding(3, nil, uris("a3", 6)),
	}
	images := allOptimized(findings)
	first, w1 := build(t, findings, images)
	second, w2 := build(t, findings, images)
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(w1, w2) {
		t.Error("identical input produced different documents")
	}
	if vw := ValidatePages(Stamp(first.Pages, testTime), DefaultLayoutConfig()); len(vw) != 0 {
		t.Errorf("layout validation failed: %+v", vw)
	}
}

func TestStamp(t *testing.T) {
	pages := []Page{{Section: SectionTable}, {Section: SectionTable}, {Section: SectionDetail}}
	local := time.Date(2026, 3, 1, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	stamped := Stamp(pages, local)
	for i, p := range stamped {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i+1, p.Number)
		}
		want := fmt.Sprintf("page %d of 3", i+1)
		if p.Footer != want {
			t.Errorf("footer = %q, want %q", p.Footer, want)
		}
		if p.Stamp != "Generated 2026-03-01 08:30 UTC" {
			t.Errorf("stamp = %q", p.Stamp)
		}
	}
	if pages[0].Number != 0 || pages[0].Footer != "" {
		t.Error("Stamp must not modify its input")
	}
}

func TestValidatePages(t *testing.T) {
	cfg := DefaultLayoutConfig()
	key := func(u string) imageopt.Key { return imageopt.Key{URI: u, Preset: imageopt.PresetDetail} }

	t.Run("clean page", func(t *testing.T) {
		p := Page{Number: 1, Blocks: []Block{
			ImageBlock{Rect: Rect{X: 10, Y: 30, W: 40, H: 30}, Key: key("a")},
			ImageBlock{Rect: Rect{X: 50, Y: 30, W: 40, H: 30}, Key: key("b")},
		}}
		if vw := ValidatePages([]Page{p}, cfg); len(vw) != 0 {
			t.Errorf("expected no warnings, got %+v", vw)
		}
	})

	t.Run("overlap and footer band", func(t *testing.T) {
		p := Page{Number: 2, Blocks: []Block{
			ImageBlock{Rect: Rect{X: 10, Y: 30, W: 40, H: 30}, Key: key("a")},
			ImageBlock{Rect: Rect{X: 30, Y: 40, W: 40, H: 30}, Key: key("b")},
			TextBlock{Rect: Rect{X: 10, Y: 190, W: 20, H: 5}, Text: "low"},
		}}
		vw := ValidatePages([]Page{p}, cfg)
		if len(vw) != 2 {
			t.Fatalf("expected 2 warnings, got %+v", vw)
		}
		for _, w := range vw {
			if w.PageNumber != 2 || w.Severity != "error" {
				t.Errorf("unexpected warning %+v", w)
			}
		}
	})

	t.Run("outside margins", func(t *testing.T) {
		p := Page{Number: 1, Blocks: []Block{
			BoxBlock{Rect: Rect{X: 5, Y: 5, W: 290, H: 10}},
		}}
		if vw := ValidatePages([]Page{p}, cfg); len(vw) != 3 {
			t.Errorf("expected left, right and top violations, got %+v", vw)
		}
	})

	t.Run("zero area image", func(t *testing.T) {
		p := Page{Number: 1, Blocks: []Block{
			ImageBlock{Rect: Rect{X: 20, Y: 30, W: 0, H: 10}, Key: key("a")},
		}}
		vw := ValidatePages([]Page{p}, cfg)
		if len(vw) != 1 || vw[0].Severity != "warning" {
			t.Errorf("expected one warning, got %+v", vw)
		}
	})
}
