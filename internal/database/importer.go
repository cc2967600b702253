package database

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ImportStats summarizes a legacy import run.
type ImportStats struct {
	ShipsCreated  int
	ShipsExisting int
	Findings      int
	Skipped       int
}

// ImportFindings copies ships and findings from src into dst. When codes is
// empty every ship in src is imported. Sequence numbers and photo fields are
// copied verbatim; findings whose sequence number already exists in dst are
// skipped so the import can be re-run. onFinding, if set, is called after
// each finding is handled.
func ImportFindings(
	ctx context.Context, src FindingReader, dst FindingWriter, codes []string, onFinding func(Finding),
) (ImportStats, error) {
	var stats ImportStats

	if len(codes) == 0 {
		ships, err := src.ListShips(ctx)
		if err != nil {
			return stats, fmt.Errorf("list source ships: %w", err)
		}
		for _, s := range ships {
			codes = append(codes, s.Code)
		}
	}

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("import canceled: %w", err)
		}
		ship, err := src.GetShip(ctx, code)
		if err != nil {
			return stats, fmt.Errorf("read source ship: %w", err)
		}

		switch _, err := dst.GetShip(ctx, code); {
		case err == nil:
			stats.ShipsExisting++
		case errors.Is(err, ErrNotFound):
			if err := dst.CreateShip(ctx, &Ship{Code: ship.Code, Name: ship.Name, IMO: ship.IMO}); err != nil {
				return stats, fmt.Errorf("create ship %s: %w", code, err)
			}
			stats.ShipsCreated++
		default:
			return stats, fmt.Errorf("check target ship: %w", err)
		}

		findings, err := src.ListFindings(ctx, code)
		if err != nil {
			return stats, fmt.Errorf("read source findings: %w", err)
		}
		for _, f := range findings {
			f.ID = ""
			err := dst.CreateFinding(ctx, &f)
			switch {
			case err == nil:
				stats.Findings++
			case errors.Is(err, ErrConflict):
				stats.Skipped++
			case errors.Is(err, ErrNotFound), ctx.Err() != nil:
				return stats, fmt.Errorf("import finding %s #%d: %w", code, f.SeqNo, err)
			default:
				log.Printf("WARNING: skipping finding %s #%d: %v", code, f.SeqNo, err)
				stats.Skipped++
			}
			if onFinding != nil {
				onFinding(f)
			}
		}
	}
	return stats, nil
}
