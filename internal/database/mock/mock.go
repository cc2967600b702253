// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/inspection-report/internal/database"
)

// MockFindingStore is an in-memory implementation of database.FindingWriter
type MockFindingStore struct {
	mu       sync.RWMutex
	ships    map[string]*database.Ship
	findings map[string]*database.Finding

	findingCounter int

	// Error injection
	GetShipError       error
	ListShipsError     error
	ListFindingsError  error
	GetFindingError    error
	CreateShipError    error
	CreateFindingError error
	UpdateFindingError error
	UpdatePhotosError  error
	DeleteFindingError error
}

// NewMockFindingStore creates a new mock finding store
func NewMockFindingStore() *MockFindingStore {
	return &MockFindingStore{
		ships:    make(map[string]*database.Ship),
		findings: make(map[string]*database.Finding),
	}
}

// AddShip adds a ship to the mock store
func (m *MockFindingStore) AddShip(ship database.Ship) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ships[ship.Code] = &ship
}

// AddFinding adds a finding to the mock store as-is
func (m *MockFindingStore) AddFinding(finding database.Finding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findings[finding.ID] = &finding
}

func (m *MockFindingStore) GetShip(ctx context.Context, code string) (*database.Ship, error) {
	if m.GetShipError != nil {
		return nil, m.GetShipError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.ships[code]
	if !ok {
		return nil, fmt.Errorf("ship %s: %w", code, database.ErrNotFound)
	}
	out := *s
	return &out, nil
}

func (m *MockFindingStore) ListShips(ctx context.Context) ([]database.Ship, error) {
	if m.ListShipsError != nil {
		return nil, m.ListShipsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ships := make([]database.Ship, 0, len(m.ships))
	for _, s := range m.ships {
		ships = append(ships, *s)
	}
	slices.SortFunc(ships, func(a, b database.Ship) int { return cmp.Compare(a.Code, b.Code) })
	return ships, nil
}

func (m *MockFindingStore) ListFindings(ctx context.Context, shipCode string) ([]database.Finding, error) {
	if m.ListFindingsError != nil {
		return nil, m.ListFindingsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var findings []database.Finding
	for _, f := range m.findings {
		if f.ShipCode == shipCode {
			findings = append(findings, *f)
		}
	}
	slices.SortFunc(findings, func(a, b database.Finding) int { return cmp.Compare(a.SeqNo, b.SeqNo) })
	return findings, nil
}

func (m *MockFindingStore) GetFinding(ctx context.Context, id string) (*database.Finding, error) {
	if m.GetFindingError != nil {
		return nil, m.GetFindingError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.findings[id]
	if !ok {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	out := *f
	return &out, nil
}

func (m *MockFindingStore) CreateShip(ctx context.Context, ship *database.Ship) error {
	if m.CreateShipError != nil {
		return m.CreateShipError
	}
	if err := ship.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ships[ship.Code]; ok {
		return fmt.Errorf("ship %s: %w", ship.Code, database.ErrConflict)
	}
	ship.CreatedAt = time.Now()
	stored := *ship
	m.ships[ship.Code] = &stored
	return nil
}

func (m *MockFindingStore) CreateFinding(ctx context.Context, finding *database.Finding) error {
	if m.CreateFindingError != nil {
		return m.CreateFindingError
	}
	if err := finding.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ships[finding.ShipCode]; !ok {
		return fmt.Errorf("ship %s: %w", finding.ShipCode, database.ErrNotFound)
	}
	maxSeq := 0
	for _, f := range m.findings {
		if f.ShipCode != finding.ShipCode {
			continue
		}
		if finding.SeqNo != 0 && f.SeqNo == finding.SeqNo {
			return fmt.Errorf("finding %s #%d: %w", finding.ShipCode, finding.SeqNo, database.ErrConflict)
		}
		maxSeq = max(maxSeq, f.SeqNo)
	}
	if finding.SeqNo == 0 {
		finding.SeqNo = maxSeq + 1
	}
	if finding.ID == "" {
		m.findingCounter++
		finding.ID = fmt.Sprintf("finding-%d", m.findingCounter)
	}
	now := time.Now()
	finding.CreatedAt = now
	finding.UpdatedAt = now
	stored := *finding
	m.findings[finding.ID] = &stored
	return nil
}

func (m *MockFindingStore) UpdateFinding(ctx context.Context, finding *database.Finding) error {
	if m.UpdateFindingError != nil {
		return m.UpdateFindingError
	}
	if err := finding.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.findings[finding.ID]
	if !ok {
		return fmt.Errorf("finding %s: %w", finding.ID, database.ErrNotFound)
	}
	existing.Date = finding.Date
	existing.Description = finding.Description
	existing.Category = finding.Category
	existing.PICShip = finding.PICShip
	existing.PICOffice = finding.PICOffice
	existing.Status = finding.Status
	existing.Comment = finding.Comment
	existing.UpdatedAt = time.Now()
	finding.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *MockFindingStore) UpdatePhotos(
	ctx context.Context, id string, slot database.Slot, fn func(*string) *string,
) (*database.Finding, error) {
	if m.UpdatePhotosError != nil {
		return nil, m.UpdatePhotosError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.findings[id]
	if !ok {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	f.SetPhotos(slot, fn(f.Photos(slot)))
	f.UpdatedAt = time.Now()
	out := *f
	return &out, nil
}

func (m *MockFindingStore) DeleteFinding(ctx context.Context, id string) (*database.Finding, error) {
	if m.DeleteFindingError != nil {
		return nil, m.DeleteFindingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.findings[id]
	if !ok {
		return nil, fmt.Errorf("finding %s: %w", id, database.ErrNotFound)
	}
	delete(m.findings, id)
	return f, nil
}
