package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPStore talks to an object store that serves photos over HTTP.
// Objects live under <base>/photos/<name>. The bearer token, if set, is only
// sent to the host of the base URL.
type HTTPStore struct {
	parsedURL *url.URL
	token     string
	client    *http.Client
}

// NewHTTPStore creates a store rooted at baseURL.
func NewHTTPStore(baseURL, token string, client *http.Client) (*HTTPStore, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid photo storage URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("photo storage URL must be http(s), got %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{parsedURL: parsed, token: token, client: client}, nil
}

// resolveURL builds an object URL from the base URL and path segments.
func (s *HTTPStore) resolveURL(pathSegments ...string) string {
	return s.parsedURL.JoinPath(pathSegments...).String()
}

func (s *HTTPStore) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	if s.token != "" && strings.EqualFold(req.URL.Host, s.parsedURL.Host) {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// Fetch implements Store. uri must be an absolute http(s) URL.
func (s *HTTPStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := s.newRequest(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req) //nolint:gosec // photo URIs come from our own records
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return data, nil
}

type putResponse struct {
	URI string `json:"uri"`
}

// Put implements Store. The server may answer with {"uri": "..."}; otherwise
// the object URL itself is returned.
func (s *HTTPStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	target := s.resolveURL("photos", name)
	req, err := s.newRequest(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", http.DetectContentType(data))

	resp, err := s.client.Do(req) //nolint:gosec // URL built from configured base via resolveURL
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	var pr putResponse
	if len(body) > 0 && json.Unmarshal(body, &pr) == nil && pr.URI != "" {
		return pr.URI, nil
	}
	return target, nil
}

// Delete implements Store.
func (s *HTTPStore) Delete(ctx context.Context, uri string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, uri, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req) //nolint:gosec // photo URIs come from our own records
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
}

// readErrorBody reads the response body for error messages.
// Returns a placeholder if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}
