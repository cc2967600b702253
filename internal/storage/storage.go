// Package storage provides access to the bytes behind photo URIs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotFound is returned when a photo does not exist in its store.
var ErrNotFound = errors.New("photo not found")

// Store reads, writes and deletes photo objects.
type Store interface {
	// Fetch returns the raw bytes of the photo at uri.
	Fetch(ctx context.Context, uri string) ([]byte, error)
	// Put stores data under name and returns the URI to reference it by.
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Delete removes the photo at uri. Deleting a missing photo is not an error.
	Delete(ctx context.Context, uri string) error
}

// Router dispatches by URI scheme: http(s) URIs go to the remote store,
// everything else (file:// and bare keys) to the local one.
type Router struct {
	remote Store
	local  Store
	// uploads decides where Put writes; defaults to local.
	uploads Store
}

// NewRouter creates a router. remote may be nil when no HTTP store is configured.
func NewRouter(remote, local Store) *Router {
	uploads := local
	if remote != nil {
		uploads = remote
	}
	return &Router{remote: remote, local: local, uploads: uploads}
}

func (r *Router) pick(uri string) (Store, error) {
	scheme := ""
	if u, err := url.Parse(uri); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	switch scheme {
	case "http", "https":
		if r.remote == nil {
			return nil, fmt.Errorf("no remote photo store configured for %s", uri)
		}
		return r.remote, nil
	case "", "file":
		if r.local == nil {
			return nil, fmt.Errorf("no local photo store configured for %s", uri)
		}
		return r.local, nil
	default:
		return nil, fmt.Errorf("unsupported photo uri scheme %q", scheme)
	}
}

// Fetch implements Store.
func (r *Router) Fetch(ctx context.Context, uri string) ([]byte, error) {
	s, err := r.pick(uri)
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, uri)
}

// Put implements Store.
func (r *Router) Put(ctx context.Context, name string, data []byte) (string, error) {
	if r.uploads == nil {
		return "", errors.New("no photo store configured")
	}
	return r.uploads.Put(ctx, name, data)
}

// Delete implements Store.
func (r *Router) Delete(ctx context.Context, uri string) error {
	s, err := r.pick(uri)
	if err != nil {
		return err
	}
	return s.Delete(ctx, uri)
}
