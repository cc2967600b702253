package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/inspection-report/internal/database"
)

// FindingRepository provides PostgreSQL-backed storage of ships and findings
type FindingRepository struct {
	pool *Pool
}

// NewFindingRepository creates a new FindingRepository
func NewFindingRepository(pool *Pool) *FindingRepository {
	return &FindingRepository{pool: pool}
}

func newID() string {
	return uuid.New().String()
}

// --- Ships ---

func (r *FindingRepository) CreateShip(ctx context.Context, ship *database.Ship) error {
	if err := ship.Validate(); err != nil {
		return err
	}
	ship.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ships (code, name, imo, created_at) VALUES ($1, $2, $3, $4)`,
		ship.Code, ship.Name, ship.IMO, ship.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("ship %s: %w", ship.Code, database.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create ship: %w", err)
	}
	return nil
}

func (r *FindingRepository) GetShip(ctx context.Context, code string) (*database.Ship, error) {
	var s database.Ship
	err := r.pool.QueryRow(ctx,
		`SELECT code, name, imo, created_at FROM ships WHERE code = $1`, code).
		Scan(&s.Code, &s.Name, &s.IMO, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ship %s: %w", code, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get ship: %w", err)
	}
	return &s, nil
}

func (r *FindingRepository) ListShips(ctx context.Context) ([]database.Ship, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, imo, created_at FROM ships ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	defer rows.Close()
	var ships []database.Ship
	for rows.Next() {
		var s database.Ship
		if err := rows.Scan(&s.Code, &s.Name, &s.IMO, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ship: %w", err)
		}
		ships = append(ships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ships: %w", err)
	}
	return ships, nil
}

// --- Findings ---

const findingColumns = `id, ship_code, seq_no, finding_date, description, category, pic_ship, pic_office,
	status, before_photos, after_photos, comment, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFinding(row rowScanner) (*database.Finding, error) {
	var f database.Finding
	var status string
	if err := row.Scan(&f.ID, &f.ShipCode, &f.SeqNo, &f.Date, &f.Description, &f.Category,
		&f.PICShip, &f.PICOffice, &status, &f.Before, &f.After, &f.Comment,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with context
	}
	f.Status = database.Status(status)
	return &f, nil
}

func (r *FindingRepository) ListFindings(ctx context.Context, shipCode string) ([]database.Finding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+findingColumns+` FROM findings WHERE ship_code = $1 ORDER BY seq_no`, shipCode)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()
	var findings []database.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		findings = append(findings, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return findings, nil
}

func (r *FindingRepository) GetFinding(ctx context.Context, id string) (*database.Finding, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	f, err := scanFinding(r.pool.QueryRow(ctx,
		`SELECT `+findingColumns+` FROM findings WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get finding: %w", err)
	}
	return f, nil
}

func (r *FindingRepository) CreateFinding(ctx context.Context, finding *database.Finding) error {
	if err := finding.Validate(); err != nil {
		return err
	}
	if finding.ID == "" {
		finding.ID = newID()
	}
	now := time.Now()
	finding.CreatedAt = now
	finding.UpdatedAt = now

	err := r.pool.InTx(ctx, func(tx *sql.Tx) error {
		// Lock the ship row so concurrent inserts for one ship get distinct numbers
		var code string
		err := tx.QueryRowContext(ctx,
			`SELECT code FROM ships WHERE code = $1 FOR UPDATE`, finding.ShipCode).Scan(&code)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("ship %s: %w", finding.ShipCode, database.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock ship: %w", err)
		}

		if finding.SeqNo == 0 {
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(seq_no), 0) + 1 FROM findings WHERE ship_code = $1`, finding.ShipCode).
				Scan(&finding.SeqNo); err != nil {
				return fmt.Errorf("get next sequence number: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO findings (`+findingColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			finding.ID, finding.ShipCode, finding.SeqNo, finding.Date, finding.Description, finding.Category,
			finding.PICShip, finding.PICOffice, string(finding.Status), finding.Before, finding.After,
			finding.Comment, finding.CreatedAt, finding.UpdatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("finding %s #%d: %w", finding.ShipCode, finding.SeqNo, database.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create finding: %w", err)
	}
	return nil
}

func (r *FindingRepository) UpdateFinding(ctx context.Context, finding *database.Finding) error {
	if err := finding.Validate(); err != nil {
		return err
	}
	finding.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx,
		`UPDATE findings SET finding_date = $1, description = $2, category = $3, pic_ship = $4,
			pic_office = $5, status = $6, comment = $7, updated_at = $8
		 WHERE id = $9`,
		finding.Date, finding.Description, finding.Category, finding.PICShip,
		finding.PICOffice, string(finding.Status), finding.Comment, finding.UpdatedAt, finding.ID)
	if err != nil {
		return fmt.Errorf("update finding: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finding %s: %w", finding.ID, database.ErrNotFound)
	}
	return nil
}

func photoColumn(slot database.Slot) string {
	if slot == database.SlotAfter {
		return "after_photos"
	}
	return "before_photos"
}

func (r *FindingRepository) UpdatePhotos(
	ctx context.Context, id string, slot database.Slot, fn func(*string) *string,
) (*database.Finding, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	var updated *database.Finding
	err := r.pool.InTx(ctx, func(tx *sql.Tx) error {
		f, err := scanFinding(tx.QueryRowContext(ctx,
			`SELECT `+findingColumns+` FROM findings WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read finding: %w", err)
		}

		f.SetPhotos(slot, fn(f.Photos(slot)))
		f.UpdatedAt = time.Now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE findings SET `+photoColumn(slot)+` = $1, updated_at = $2 WHERE id = $3`,
			f.Photos(slot), f.UpdatedAt, id); err != nil {
			return fmt.Errorf("write photos: %w", err)
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update photos: %w", err)
	}
	return updated, nil
}

func (r *FindingRepository) DeleteFinding(ctx context.Context, id string) (*database.Finding, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	f, err := scanFinding(r.pool.QueryRow(ctx,
		`DELETE FROM findings WHERE id = $1 RETURNING `+findingColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete finding: %w", err)
	}
	return f, nil
}
