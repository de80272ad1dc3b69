// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package texel

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"honnef.co/go/texel/engine/wgpu_engine"
	"honnef.co/go/texel/gfx"
)

func TestSaveToFilePNG(t *testing.T) {
	const w, h = 64, 36
	pipe := &fakePipe{
		readFrame: func(width, height uint32, format gfx.Format) wgpu_engine.Frame {
			return solidFrame(width, height, format, [4]byte{10, 200, 30, 255})
		},
	}
	c := newTestCanvas(Options{Width: w, Height: h, SuperSample: SuperSampleNone}, pipe)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := c.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	img, err := png.Decode(fh)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("decoded bounds = %v, want %d×%d", b, w, h)
	}
	// The readback rows were padded to the alignment; the padding must not
	// leak into the image, in particular not into the last pixel of a row.
	r, g, b, a := img.At(w-1, h-1).RGBA()
	if r>>8 != 10 || g>>8 != 200 || b>>8 != 30 || a>>8 != 255 {
		t.Errorf("pixel (63, 35) = %d %d %d %d, want 10 200 30 255", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestSaveToFileBGRASwizzle(t *testing.T) {
	pipe := &fakePipe{
		readFrame: func(width, height uint32, format gfx.Format) wgpu_engine.Frame {
			// Bytes in BGRA order: blue 30, green 20, red 10.
			return solidFrame(width, height, format, [4]byte{30, 20, 10, 255})
		},
	}
	c := newTestCanvas(Options{Width: 2, Height: 2, SuperSample: SuperSampleNone}, pipe)
	c.srcFormat = gfx.BGRA8

	path := filepath.Join(t.TempDir(), "frame.bmp")
	if err := c.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	img, err := bmp.Decode(fh)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel (0, 0) = %d %d %d, want 10 20 30", r>>8, g>>8, b>>8)
	}
}

func TestSaveToFileSupersampledResolution(t *testing.T) {
	const w, h = 4, 2
	pipe := &fakePipe{
		readFrame: func(width, height uint32, format gfx.Format) wgpu_engine.Frame {
			return solidFrame(width, height, format, [4]byte{0, 0, 0, 255})
		},
	}
	c := newTestCanvas(Options{Width: w, Height: h, SuperSample: SuperSampleCPU}, pipe)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := c.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	fh, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	cfg, err := png.DecodeConfig(fh)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != w*2 || cfg.Height != h*2 {
		t.Errorf("saved %d×%d, want the doubled render resolution %d×%d", cfg.Width, cfg.Height, w*2, h*2)
	}
}

func TestSaveToFileErrors(t *testing.T) {
	pipe := &fakePipe{}
	c := newTestCanvas(Options{Width: 2, Height: 2}, pipe)

	// The extension is validated before any readback happens.
	if err := c.SaveToFile("frame.webp"); !errors.Is(err, ErrUnknownImageFormat) {
		t.Errorf("SaveToFile(webp) = %v, want ErrUnknownImageFormat", err)
	}
	if len(pipe.reads) != 0 {
		t.Errorf("reads = %d for rejected extension, want 0", len(pipe.reads))
	}

	c.src = nil
	if err := c.SaveToFile(filepath.Join(t.TempDir(), "frame.png")); !errors.Is(err, ErrNoSource) {
		t.Errorf("SaveToFile without source = %v, want ErrNoSource", err)
	}

	bare := New(nil, nil, Options{Width: 2, Height: 2})
	if err := bare.SaveToFile(filepath.Join(t.TempDir(), "frame.png")); !errors.Is(err, ErrNoContext) {
		t.Errorf("SaveToFile without context = %v, want ErrNoContext", err)
	}
}
