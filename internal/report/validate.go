package report

import (
	"fmt"
)

// ValidationWarning describes a layout issue found during validation.
type ValidationWarning struct {
	PageNumber int
	BlockIndex int
	Message    string
	Severity   string // "error" or "warning"
}

// ValidatePages checks all pages for layout integrity issues.
func ValidatePages(pages []Page, config LayoutConfig) []ValidationWarning {
	var warnings []ValidationWarning
	for _, page := range pages {
		warnings = append(warnings, validatePage(page, config)...)
	}
	return warnings
}

func validatePage(page Page, config LayoutConfig) []ValidationWarning {
	var warnings []ValidationWarning
	const eps = 0.01

	warn := func(i int, severity, format string, args ...any) {
		warnings = append(warnings, ValidationWarning{
			PageNumber: page.Number,
			BlockIndex: i,
			Message:    fmt.Sprintf(format, args...),
			Severity:   severity,
		})
	}

	for i, blk := range page.Blocks {
		r := blk.Bounds()

		// Zone integrity: block within content area and above the footer band
		if r.X < config.ContentLeft()-eps {
			warn(i, "error", "block X (%.2f) extends past content left edge (%.2f)", r.X, config.ContentLeft())
		}
		if r.Right() > config.ContentRight()+eps {
			warn(i, "error", "block right edge (%.2f) extends past content right edge (%.2f)", r.Right(), config.ContentRight())
		}
		if r.Y < config.ContentTop()-eps {
			warn(i, "error", "block top (%.2f) extends above content top (%.2f)", r.Y, config.ContentTop())
		}
		if r.Bottom() > config.BodyBottom()+eps {
			warn(i, "error", "block bottom (%.2f) extends into footer band (%.2f)", r.Bottom(), config.BodyBottom())
		}

		if img, ok := blk.(ImageBlock); ok && (img.W <= eps || img.H <= eps) {
			warn(i, "warning", "image %s has no visible area", img.Key)
		}
	}

	// No overlaps between images
	for i := 0; i < len(page.Blocks); i++ {
		bi, ok := page.Blocks[i].(ImageBlock)
		if !ok {
			continue
		}
		for j := i + 1; j < len(page.Blocks); j++ {
			bj, ok := page.Blocks[j].(ImageBlock)
			if !ok {
				continue
			}
			if rectsOverlap(bi.Rect, bj.Rect, eps) {
				warn(i, "error", "image block %d overlaps with image block %d", i, j)
			}
		}
	}

	return warnings
}

// rectsOverlap checks if two axis-aligned rectangles overlap with tolerance.
func rectsOverlap(a, b Rect, eps float64) bool {
	if a.Right() <= b.X+eps || b.Right() <= a.X+eps {
		return false
	}
	if a.Bottom() <= b.Y+eps || b.Bottom() <= a.Y+eps {
		return false
	}
	return true
}
