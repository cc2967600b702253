package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kozaktomas/inspection-report/internal/database"
)

// LegacyReader implements database.FindingReader over the legacy schema
// (tables vessels and findings, integer finding IDs).
type LegacyReader struct {
	pool *Pool
}

// NewLegacyReader creates a reader on top of pool.
func NewLegacyReader(pool *Pool) *LegacyReader {
	return &LegacyReader{pool: pool}
}

func (r *LegacyReader) GetShip(ctx context.Context, code string) (*database.Ship, error) {
	var s database.Ship
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT code, name, COALESCE(imo, ''), created_at FROM vessels WHERE code = ?`, code).
		Scan(&s.Code, &s.Name, &s.IMO, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ship %s: %w", code, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get legacy ship: %w", err)
	}
	return &s, nil
}

func (r *LegacyReader) ListShips(ctx context.Context) ([]database.Ship, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT code, name, COALESCE(imo, ''), created_at FROM vessels ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list legacy ships: %w", err)
	}
	defer rows.Close()

	var ships []database.Ship
	for rows.Next() {
		var s database.Ship
		if err := rows.Scan(&s.Code, &s.Name, &s.IMO, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan legacy ship: %w", err)
		}
		ships = append(ships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy ships: %w", err)
	}
	return ships, nil
}

const legacyFindingColumns = `id, vessel_code, seq_no, finding_date, description,
	COALESCE(category, ''), COALESCE(pic_ship, ''), COALESCE(pic_office, ''), COALESCE(status, ''),
	photo_before, photo_after, COALESCE(comment, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLegacyFinding(row rowScanner) (*database.Finding, error) {
	var f database.Finding
	var id int64
	var status string
	if err := row.Scan(&id, &f.ShipCode, &f.SeqNo, &f.Date, &f.Description, &f.Category,
		&f.PICShip, &f.PICOffice, &status, &f.Before, &f.After, &f.Comment,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ID = strconv.FormatInt(id, 10)
	// Legacy rows use free text ("Open", "closed", "CLOSED"); anything unknown stays open.
	if s, err := database.ParseStatus(status); err == nil {
		f.Status = s
	} else {
		f.Status = database.StatusOpen
	}
	return &f, nil
}

func (r *LegacyReader) ListFindings(ctx context.Context, shipCode string) ([]database.Finding, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT `+legacyFindingColumns+` FROM findings WHERE vessel_code = ? ORDER BY seq_no`, shipCode)
	if err != nil {
		return nil, fmt.Errorf("list legacy findings: %w", err)
	}
	defer rows.Close()

	var findings []database.Finding
	for rows.Next() {
		f, err := scanLegacyFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan legacy finding: %w", err)
		}
		findings = append(findings, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy findings: %w", err)
	}
	return findings, nil
}

func (r *LegacyReader) GetFinding(ctx context.Context, id string) (*database.Finding, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	f, err := scanLegacyFinding(r.pool.db.QueryRowContext(ctx,
		`SELECT `+legacyFindingColumns+` FROM findings WHERE id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get legacy finding: %w", err)
	}
	return f, nil
}
