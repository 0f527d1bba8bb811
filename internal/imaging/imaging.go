// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalises uploaded raster images into a single lossy
// WebP rendition using libvips. Images wider than the configured maximum
// are scaled down with their aspect ratio kept; smaller images are never
// enlarged. WebP input is re-encoded too so every stored file shares one
// compression setting.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// ContentType is the MIME type of every normalised image.
	ContentType = "image/webp"
	// Ext is the file extension of every normalised image.
	Ext = ".webp"

	// maxImagePixels rejects decompression bombs before libvips allocates.
	maxImagePixels = 100_000_000
)

var (
	// ErrDecode is returned when the input is not a decodable image.
	ErrDecode = errors.New("imaging: cannot decode image")
	// ErrTooLarge is returned when the declared dimensions exceed maxImagePixels.
	ErrTooLarge = errors.New("imaging: image dimensions too large")
)

// Options controls normalisation.
type Options struct {
	MaxWidth int // pixels; wider images are scaled down to this width
	Quality  int // WebP quality 1-100
}

// Result is one normalised image ready to store.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024,
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// FitWidth returns the output size for a w×h source so that the width does
// not exceed maxWidth. The height follows the aspect ratio, rounded to the
// nearest pixel and at least 1. Sources already narrow enough are unchanged.
func FitWidth(w, h, maxWidth int) (int, int) {
	if w <= maxWidth || w <= 0 {
		return w, h
	}
	nh := (h*maxWidth + w/2) / w
	return maxWidth, max(nh, 1)
}

// Probe reads image dimensions from the header without decoding pixels.
// ok is false for formats the Go decoders do not know (AVIF for example);
// libvips still handles those in Normalize.
func Probe(data []byte) (w, h int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// Normalize decodes data, applies EXIF orientation, fits it to
// opt.MaxWidth and encodes it as WebP at opt.Quality with metadata stripped.
func Normalize(data []byte, opt Options) (*Result, error) {
	if w, h, ok := Probe(data); ok && int64(w)*int64(h) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}

	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return nil, fmt.Errorf("imaging: autorotate: %w", err)
	}

	if w := img.Width(); w > opt.MaxWidth {
		scale := float64(opt.MaxWidth) / float64(w)
		if err := img.Resize(scale, vips.KernelLanczos3); err != nil {
			return nil, fmt.Errorf("imaging: resize to %dpx: %w", opt.MaxWidth, err)
		}
	}

	params := vips.NewWebpExportParams()
	params.Quality = opt.Quality
	params.Lossless = false
	params.StripMetadata = true

	buf, meta, err := img.ExportWebp(params)
	if err != nil {
		return nil, fmt.Errorf("imaging: export webp: %w", err)
	}

	return &Result{Data: buf, Width: meta.Width, Height: meta.Height}, nil
}
