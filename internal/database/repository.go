package database

import (
	"context"
)

// FindingReader provides read-only access to ships and their findings
type FindingReader interface {
	// GetShip retrieves a ship by code, returns ErrNotFound if missing
	GetShip(ctx context.Context, code string) (*Ship, error)
	// ListShips returns all ships ordered by code
	ListShips(ctx context.Context) ([]Ship, error)
	// ListFindings returns the findings of a ship ordered by sequence number
	ListFindings(ctx context.Context, shipCode string) ([]Finding, error)
	// GetFinding retrieves a finding by ID, returns ErrNotFound if missing
	GetFinding(ctx context.Context, id string) (*Finding, error)
}

// FindingWriter provides write access to ships and findings
type FindingWriter interface {
	FindingReader

	// CreateShip stores a new ship, returns ErrConflict if the code is taken
	CreateShip(ctx context.Context, ship *Ship) error

	// CreateFinding stores a new finding. A zero SeqNo is assigned as the
	// ship's highest sequence number plus one; ID and timestamps are filled in.
	CreateFinding(ctx context.Context, finding *Finding) error

	// UpdateFinding updates the descriptive fields of a finding.
	// Photo fields and the sequence number are left untouched.
	UpdateFinding(ctx context.Context, finding *Finding) error

	// UpdatePhotos atomically rewrites one photo field of a finding.
	// fn receives the current encoded value and returns the new one.
	UpdatePhotos(ctx context.Context, id string, slot Slot, fn func(*string) *string) (*Finding, error)

	// DeleteFinding removes a finding and returns the deleted record
	DeleteFinding(ctx context.Context, id string) (*Finding, error)
}
