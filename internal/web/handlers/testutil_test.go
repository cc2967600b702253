package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/database/mock"
	"github.com/kozaktomas/inspection-report/internal/storage"
)

var errMock = errors.New("mock error")

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Report: config.ReportConfig{Concurrency: 2, FetchTimeout: time.Second},
	}
}

// setupStore registers a MockFindingStore via the database provider system.
// Cleanup deregisters the mock.
func setupStore(t *testing.T) *mock.MockFindingStore {
	t.Helper()
	store := mock.NewMockFindingStore()
	database.RegisterPostgresBackend(
		func() database.FindingReader { return store },
		func() database.FindingWriter { return store },
	)
	t.Cleanup(func() {
		database.ResetForTesting()
	})
	return store
}

// memPhotoStore is an in-memory storage.Store
type memPhotoStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	deleted   []string
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{objects: make(map[string][]byte)}
}

func (m *memPhotoStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[uri]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memPhotoStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	uri := "mem://" + name
	m.objects[uri] = data
	return uri, nil
}

func (m *memPhotoStore) Delete(ctx context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, uri)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, uri)
	return nil
}

// testPNG returns a small PNG image
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

// addTestShip adds a ship with one finding and returns the finding
func addTestShip(store *mock.MockFindingStore) database.Finding {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	store.AddShip(database.Ship{Code: "SB01", Name: "Sea Breeze", IMO: "9876543", CreatedAt: now})
	f := database.Finding{
		ID:          "f1",
		ShipCode:    "SB01",
		SeqNo:       1,
		Date:        time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Description: "Rust on hatch",
		Category:    "Hull",
		Status:      database.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	store.AddFinding(f)
	return f
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
