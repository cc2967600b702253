package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a ship or finding does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record with the same key already exists.
	ErrConflict = errors.New("already exists")
)

// Status is the lifecycle state of a finding.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ParseStatus normalizes a status string. Empty input means open.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StatusOpen):
		return StatusOpen, nil
	case string(StatusClosed):
		return StatusClosed, nil
	default:
		return "", fmt.Errorf("invalid status %q", s)
	}
}

// Label returns the display form used in reports.
func (s Status) Label() string {
	switch s {
	case StatusClosed:
		return "Closed"
	default:
		return "Open"
	}
}

// Slot names one of the two photo sets of a finding.
type Slot string

const (
	SlotBefore Slot = "before"
	SlotAfter  Slot = "after"
)

// ParseSlot validates a photo slot name.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(s)) {
	case SlotBefore:
		return SlotBefore, nil
	case SlotAfter:
		return SlotAfter, nil
	default:
		return "", fmt.Errorf("invalid photo slot %q", s)
	}
}

// Ship is the vessel a set of findings belongs to.
type Ship struct {
	Code      string
	Name      string
	IMO       string
	CreatedAt time.Time
}

// Validate checks the fields required to store a ship.
func (s *Ship) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return errors.New("ship code is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("ship name is required")
	}
	return nil
}

// Finding is a single inspection observation. Before and After hold the
// encoded photo reference field (see package photoset); nil means no photos.
type Finding struct {
	ID          string
	ShipCode    string
	SeqNo       int
	Date        time.Time
	Description string
	Category    string
	PICShip     string
	PICOffice   string
	Status      Status
	Before      *string
	After       *string
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required to store a finding.
func (f *Finding) Validate() error {
	if strings.TrimSpace(f.ShipCode) == "" {
		return errors.New("ship code is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		return errors.New("description is required")
	}
	if f.Date.IsZero() {
		return errors.New("date is required")
	}
	if f.Status != StatusOpen && f.Status != StatusClosed {
		return fmt.Errorf("invalid status %q", f.Status)
	}
	return nil
}

// Photos returns the encoded photo field for a slot.
func (f *Finding) Photos(slot Slot) *string {
	if slot == SlotAfter {
		return f.After
	}
	return f.Before
}

// SetPhotos replaces the encoded photo field for a slot.
func (f *Finding) SetPhotos(slot Slot, value *string) {
	if slot == SlotAfter {
		f.After = value
		return
	}
	f.Before = value
}
