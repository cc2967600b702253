// Package photoset encodes the ordered list of photos attached to a finding
// into the single nullable text column that used to hold one photo URI.
//
// Stored forms:
//
//	NULL                    no photos
//	http://host/a.jpg       exactly one photo (legacy form)
//	["http://..","http://.."] two or more photos, JSON array
package photoset

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Kind tells which of the three stored forms a Set flattens to.
type Kind int

const (
	KindEmpty Kind = iota
	KindSingle
	KindMany
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSingle:
		return "single"
	case KindMany:
		return "many"
	default:
		return "unknown"
	}
}

// Set is an ordered list of photo URIs. Order is display order (upload order)
// and duplicates are allowed. The zero value is an empty set.
type Set struct {
	uris []string
}

// New returns a set holding the given URIs in order.
func New(uris ...string) Set {
	if len(uris) == 0 {
		return Set{}
	}
	return Set{uris: slices.Clone(uris)}
}

// Parse decodes a stored value. It never fails: anything that is not a JSON
// array of strings is treated as a single literal URI. An array with a null
// element is not an array of strings.
func Parse(value *string) Set {
	if value == nil || *value == "" {
		return Set{}
	}
	raw := *value
	if !strings.HasPrefix(raw, "[") {
		return Set{uris: []string{raw}}
	}
	var list []*string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return Set{uris: []string{raw}}
	}
	uris := make([]string, len(list))
	for i, uri := range list {
		if uri == nil {
			return Set{uris: []string{raw}}
		}
		uris[i] = *uri
	}
	return New(uris...)
}

// Kind reports the stored form of the set.
func (s Set) Kind() Kind {
	switch len(s.uris) {
	case 0:
		return KindEmpty
	case 1:
		return KindSingle
	default:
		return KindMany
	}
}

// Len returns the number of photos.
func (s Set) Len() int {
	return len(s.uris)
}

// URIs returns a copy of the URIs in display order. Never nil.
func (s Set) URIs() []string {
	if len(s.uris) == 0 {
		return []string{}
	}
	return slices.Clone(s.uris)
}

// First returns the first photo, if any.
func (s Set) First() (string, bool) {
	if len(s.uris) == 0 {
		return "", false
	}
	return s.uris[0], true
}

// Add returns a new set with uris appended.
func (s Set) Add(uris ...string) Set {
	out := make([]string, 0, len(s.uris)+len(uris))
	out = append(out, s.uris...)
	out = append(out, uris...)
	return Set{uris: out}
}

// Remove returns a new set without the first occurrence of uri.
// The set is returned unchanged when uri is not present.
func (s Set) Remove(uri string) Set {
	idx := slices.Index(s.uris, uri)
	if idx < 0 {
		return s
	}
	return Set{uris: slices.Delete(slices.Clone(s.uris), idx, idx+1)}
}

// Encode flattens the set to its stored form. An empty set encodes to nil.
func (s Set) Encode() *string {
	switch s.Kind() {
	case KindEmpty:
		return nil
	case KindSingle:
		uri := s.uris[0]
		// A bare value that would read back as something else ("" or a
		// string that is itself a JSON array) is written as a one-element array.
		if readsBackAsItself(uri) {
			return &uri
		}
		return encodeArray(s.uris)
	default:
		return encodeArray(s.uris)
	}
}

func readsBackAsItself(uri string) bool {
	back := Parse(&uri)
	return back.Len() == 1 && back.uris[0] == uri
}

// encodeArray writes the JSON array without HTML escaping so query strings
// keep their literal '&', matching rows written by the old frontend.
func encodeArray(uris []string) *string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a []string cannot fail.
	_ = enc.Encode(uris)
	out := strings.TrimSuffix(buf.String(), "\n")
	return &out
}
