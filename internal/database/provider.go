package database

import (
	"context"
	"errors"
)

var (
	postgresFindingReader func() FindingReader
	postgresFindingWriter func() FindingWriter
	postgresInitialized   bool
)

// RegisterPostgresBackend registers PostgreSQL repository constructors.
// This is called from the command layer to avoid import cycles.
func RegisterPostgresBackend(reader func() FindingReader, writer func() FindingWriter) {
	postgresFindingReader = reader
	postgresFindingWriter = writer
	postgresInitialized = true
}

// IsInitialized returns whether the PostgreSQL backend has been initialized.
func IsInitialized() bool {
	return postgresInitialized
}

// GetFindingReader returns a FindingReader from the PostgreSQL backend
func GetFindingReader(ctx context.Context) (FindingReader, error) {
	if !postgresInitialized {
		return nil, errors.New("PostgreSQL backend not initialized: DATABASE_URL is required")
	}
	if postgresFindingReader == nil {
		return nil, errors.New("PostgreSQL finding reader not registered")
	}
	return postgresFindingReader(), nil
}

// GetFindingWriter returns a FindingWriter from the PostgreSQL backend
func GetFindingWriter(ctx context.Context) (FindingWriter, error) {
	if !postgresInitialized {
		return nil, errors.New("PostgreSQL backend not initialized: DATABASE_URL is required")
	}
	if postgresFindingWriter == nil {
		return nil, errors.New("PostgreSQL finding writer not registered")
	}
	return postgresFindingWriter(), nil
}

// ResetForTesting clears all registered backends.
func ResetForTesting() {
	postgresFindingReader = nil
	postgresFindingWriter = nil
	postgresInitialized = false
}
