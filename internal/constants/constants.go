// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Report compilation constants
const (
	// DefaultConcurrency is the default number of parallel image optimizations
	DefaultConcurrency = 5

	// DefaultFetchTimeout bounds fetching and optimizing a single image
	DefaultFetchTimeout = 20 * time.Second

	// ReportTimeout bounds a whole report compilation triggered over HTTP
	ReportTimeout = 5 * time.Minute
)

// Storage constants
const (
	// DefaultPhotoDir is the local photo directory used when no other is configured
	DefaultPhotoDir = "./photos"

	// MaxUploadSize is the maximum photo upload request size in bytes (100MB)
	MaxUploadSize = 100 << 20

	// MaxPhotosPerUpload is the maximum number of files accepted in one upload request
	MaxPhotosPerUpload = 50
)

// Web server constants
const (
	// DefaultWebPort is the port the HTTP server listens on
	DefaultWebPort = 8080

	// DefaultWebHost is the address the HTTP server binds to
	DefaultWebHost = "0.0.0.0"

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 30 * time.Second
)
