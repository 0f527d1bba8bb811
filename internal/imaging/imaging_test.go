// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

func TestMain(m *testing.M) {
	Startup(0)
	code := m.Run()
	Shutdown()
	os.Exit(code)
}

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"wider than max", 3840, 2160, 1920, 1920, 1080},
		{"exactly max", 1920, 600, 1920, 1920, 600},
		{"narrower never upscaled", 800, 600, 1920, 800, 600},
		{"odd ratio rounds", 3000, 1001, 1920, 1920, 641},
		{"extreme panorama keeps one row", 100000, 10, 1920, 1920, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWidth(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitWidth(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestProbe(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, gradient(40, 30)); err != nil {
		t.Fatal(err)
	}
	w, h, ok := Probe(buf.Bytes())
	if !ok || w != 40 || h != 30 {
		t.Errorf("Probe(bmp) = %d, %d, %v", w, h, ok)
	}

	if _, _, ok := Probe([]byte("%PDF-1.7")); ok {
		t.Error("Probe accepted a PDF header")
	}
}

func TestNormalize_DownscalesBitmap(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, gradient(2400, 1200)); err != nil {
		t.Fatal(err)
	}

	res, err := Normalize(buf.Bytes(), Options{MaxWidth: 1920, Quality: 80})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 1920 || res.Height != 960 {
		t.Errorf("size = %dx%d, want 1920x960", res.Width, res.Height)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if cfg.Width != 1920 {
		t.Errorf("encoded width = %d", cfg.Width)
	}
}

func TestNormalize_KeepsSmallImages(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(300, 200)); err != nil {
		t.Fatal(err)
	}
	res, err := Normalize(buf.Bytes(), Options{MaxWidth: 1920, Quality: 80})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Width != 300 || res.Height != 200 {
		t.Errorf("size = %dx%d, want unchanged 300x200", res.Width, res.Height)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), Options{MaxWidth: 1920, Quality: 80})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}
