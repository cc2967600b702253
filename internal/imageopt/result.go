package imageopt

import "fmt"

// Key identifies one optimization request: a photo URI rendered with a preset.
type Key struct {
	URI    string
	Preset PresetName
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.URI, k.Preset)
}

// Result is either *Optimized or *Failed. Callers are expected to switch on
// the concrete type; nothing in this package panics or returns an error for
// a single bad image.
type Result interface {
	result()
}

// Optimized is a resized, re-encoded JPEG ready for embedding.
type Optimized struct {
	Key    Key
	Data   []byte
	Width  int
	Height int
}

func (*Optimized) result() {}

// FailureKind classifies why an image could not be produced.
type FailureKind string

const (
	FailFetch    FailureKind = "fetch"
	FailDecode   FailureKind = "decode"
	FailEncode   FailureKind = "encode"
	FailTimeout  FailureKind = "timeout"
	FailCanceled FailureKind = "canceled"
)

// Failed records a per-image failure. It is a value, not an error: the report
// draws a placeholder and carries on.
type Failed struct {
	Key    Key
	Kind   FailureKind
	Reason string
}

func (*Failed) result() {}

func (f *Failed) String() string {
	return fmt.Sprintf("%s: %s failed: %s", f.Key, f.Kind, f.Reason)
}

func failed(key Key, kind FailureKind, err error) *Failed {
	return &Failed{Key: key, Kind: kind, Reason: err.Error()}
}
