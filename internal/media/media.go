// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media turns uploaded files into stored objects. Raster images
// are normalised to WebP; anything else is kept byte for byte. Every file
// gets a sanitised, timestamped name inside a sanitised folder, and the
// returned URL points at the application's file route.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"arvix/internal/imaging"
	"arvix/internal/metrics"
	"arvix/internal/slug"
	"arvix/internal/storage"
)

// FileRoute is the URL prefix that serves stored objects.
const FileRoute = "/api/files/"

// DefaultFolder is used when the upload names no usable folder.
const DefaultFolder = "general"

// rasterExts lists the extensions decoded and re-encoded as WebP.
var rasterExts = map[string]bool{
	".bmp": true, ".jpg": true, ".jpeg": true, ".png": true,
	".tif": true, ".tiff": true, ".gif": true, ".avif": true, ".webp": true,
}

// IsRaster reports whether filename has an image extension that is normalised.
func IsRaster(filename string) bool {
	return rasterExts[strings.ToLower(path.Ext(filename))]
}

// ErrEmpty is returned for zero-byte uploads.
var ErrEmpty = errors.New("media: empty file")

// Result describes a stored upload.
type Result struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Key      string `json:"key"`
	Size     int    `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// NormalizeFunc converts raster bytes; imaging.Normalize in production.
type NormalizeFunc func(data []byte, opt imaging.Options) (*imaging.Result, error)

// Ingestor stores uploads in a backend.
type Ingestor struct {
	backend   storage.Backend
	opt       imaging.Options
	normalize NormalizeFunc
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewIngestor returns an Ingestor writing to backend. m may be nil.
func NewIngestor(backend storage.Backend, opt imaging.Options, m *metrics.Metrics) *Ingestor {
	return &Ingestor{
		backend:   backend,
		opt:       opt,
		normalize: imaging.Normalize,
		metrics:   m,
		now:       time.Now,
	}
}

// Ingest stores one uploaded file under folder. Raster images that fail
// to decode return an error and leave nothing behind.
func (in *Ingestor) Ingest(ctx context.Context, folder, filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		in.metrics.ObserveIngest("rejected")
		return nil, ErrEmpty
	}

	folder = SanitizeFolder(folder)
	base, ext := SanitizeFilename(filename)
	res := &Result{}
	contentType := ""

	if IsRaster(filename) {
		img, err := in.normalize(data, in.opt)
		if err != nil {
			in.metrics.ObserveIngest("rejected")
			return nil, fmt.Errorf("normalise %s: %w", filename, err)
		}
		data = img.Data
		ext = imaging.Ext
		contentType = imaging.ContentType
		res.Width, res.Height = img.Width, img.Height
	} else {
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
	}

	name := fmt.Sprintf("%s-%d%s", base, in.now().UnixMilli(), ext)
	key := folder + "/" + name
	if err := in.backend.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}

	kind := "file"
	if res.Width > 0 {
		kind = "image"
	}
	in.metrics.ObserveIngest(kind)
	slog.Info("media stored", "key", key, "kind", kind, "bytes", len(data))

	res.URL = FileRoute + key
	res.Filename = name
	res.Key = key
	res.Size = len(data)
	return res, nil
}

// SanitizeFolder reduces a client-supplied folder to one slug segment.
func SanitizeFolder(folder string) string {
	if s := slug.Generate(strings.ReplaceAll(folder, "/", "-")); s != "" {
		return s
	}
	return DefaultFolder
}

// SanitizeFilename splits a client filename into a slugged base and a
// lowercased extension. Directory parts are discarded.
func SanitizeFilename(filename string) (base, ext string) {
	filename = path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext = strings.ToLower(path.Ext(filename))
	if !validExt(ext) {
		ext = ""
	}
	base = slug.Generate(strings.TrimSuffix(filename, path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	if len(base) > 80 {
		base = strings.Trim(base[:80], "-")
	}
	return base, ext
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
