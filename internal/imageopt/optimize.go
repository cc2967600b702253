// Package imageopt turns raw photo bytes into small JPEGs suitable for
// embedding in a report, under one of a few fixed size/quality presets.
package imageopt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Fetcher retrieves the raw bytes behind a photo URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, error)

// Fetch calls f(ctx, uri).
func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// ScaledSize returns the output size for a w x h source under preset p.
// The scale factor is min(maxW/w, maxH/h, 1), so images are never upscaled.
func ScaledSize(w, h int, p Preset) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(p.MaxWidth)/float64(w), float64(p.MaxHeight)/float64(h))
	scale = math.Min(scale, 1)
	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)
	return nw, nh
}

// Optimize decodes src, resizes it to fit p and re-encodes it as JPEG.
// The result carries an empty URI; Optimizer.Run fills it in.
func Optimize(src []byte, p Preset) Result {
	return optimize(Key{Preset: p.Name}, src, p)
}

func optimize(key Key, src []byte, p Preset) Result {
	if len(src) == 0 {
		return failed(key, FailDecode, errors.New("empty image data"))
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return failed(key, FailDecode, fmt.Errorf("failed to decode image: %w", err))
	}

	bounds := img.Bounds()
	w, h := ScaledSize(bounds.Dx(), bounds.Dy(), p)
	if w == 0 || h == 0 {
		return failed(key, FailDecode, fmt.Errorf("image has no pixels (%dx%d)", bounds.Dx(), bounds.Dy()))
	}

	var out image.Image = img
	if w != bounds.Dx() || h != bounds.Dy() {
		out = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(p.JPEGQuality())); err != nil {
		return failed(key, FailEncode, fmt.Errorf("failed to encode image: %w", err))
	}

	return &Optimized{
		Key:    key,
		Data:   buf.Bytes(),
		Width:  w,
		Height: h,
	}
}

// Optimizer fetches a photo and optimizes it under a per-item time limit.
type Optimizer struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewOptimizer creates an optimizer. A zero timeout disables the per-item limit.
func NewOptimizer(fetcher Fetcher, timeout time.Duration) *Optimizer {
	return &Optimizer{fetcher: fetcher, timeout: timeout}
}

// Run fetches key.URI and optimizes it with key.Preset. Every failure,
// including an expired timeout or a cancelled context, comes back as *Failed.
func (o *Optimizer) Run(ctx context.Context, key Key) Result {
	p, ok := Lookup(key.Preset)
	if !ok {
		return &Failed{Key: key, Kind: FailEncode, Reason: fmt.Sprintf("unknown preset %q", key.Preset)}
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return contextFailure(key, err)
	}

	data, err := o.fetcher.Fetch(ctx, key.URI)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return contextFailure(key, ctxErr)
		}
		return failed(key, FailFetch, err)
	}

	// Decoding and resizing cannot be interrupted; an expired deadline
	// abandons the result and the goroutine finishes on its own.
	done := make(chan Result, 1)
	go func() { done <- optimize(key, data, p) }()
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return contextFailure(key, ctx.Err())
	}
}

func contextFailure(key Key, err error) *Failed {
	if errors.Is(err, context.DeadlineExceeded) {
		return failed(key, FailTimeout, err)
	}
	return failed(key, FailCanceled, err)
}
