// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package texel

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"honnef.co/go/texel/engine/wgpu_engine"
	"honnef.co/go/texel/gfx"
)

// SaveToFile reads the current source texture back at the active resolution
// and writes it to an image file. The encoding follows the file extension:
// .png, .jpg/.jpeg, .bmp or .tif/.tiff. Unrecognized extensions fail with
// ErrUnknownImageFormat before any GPU work happens.
//
// This is a one-shot diagnostic export; the alignment padding of the
// readback rows is stripped, so the written image has exactly the source
// dimensions.
func (c *Canvas) SaveToFile(path string) error {
	if c.released {
		return ErrReleased
	}
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = png.Encode
	case ".jpg", ".jpeg":
		encode = func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, nil) }
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, img image.Image) error { return tiff.Encode(w, img, nil) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownImageFormat, path)
	}
	if c.pipe == nil {
		return ErrNoContext
	}
	if c.src == nil {
		return ErrNoSource
	}

	width, height := c.PixelSize()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := c.pipe.ReadFrame(c.src, uint32(width), uint32(height), c.srcFormat, func(f wgpu_engine.Frame) error {
		for y := 0; y < f.Height; y++ {
			row := f.Data[y*f.BytesPerRow:]
			for x := 0; x < f.Width; x++ {
				p := row[x*gfx.BytesPerPixel : x*gfx.BytesPerPixel+gfx.BytesPerPixel]
				i := img.PixOffset(x, y)
				if f.Format == gfx.BGRA8 {
					img.Pix[i+0] = p[2]
					img.Pix[i+1] = p[1]
					img.Pix[i+2] = p[0]
				} else {
					img.Pix[i+0] = p[0]
					img.Pix[i+1] = p[1]
					img.Pix[i+2] = p[2]
				}
				img.Pix[i+3] = p[3]
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(fh, img); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
