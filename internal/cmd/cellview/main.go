// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Command cellview renders an image file to the terminal as colored block
// glyphs, using the same CPU supersampling path the pixel pipeline applies
// to GPU frames. It exists to eyeball the quadrant quantization without a
// GPU in the loop.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"golang.org/x/term"

	"honnef.co/go/texel/cellbuf"
	"honnef.co/go/texel/gfx"
)

func main() {
	width := flag.Int("width", 0, "output width in cells (default: terminal width)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-width cells] image\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *width); err != nil {
		fmt.Fprintln(os.Stderr, "cellview:", err)
		os.Exit(1)
	}
}

func run(path string, cols int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	if cols <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			cols = 80
		} else {
			cols = w
		}
	}

	// Each cell shows a 2×2 quadrant grid, and a terminal cell is roughly
	// twice as tall as it is wide, so quadrants come out approximately
	// square. Fitting the image into the quadrant grid preserves its aspect
	// ratio.
	b := img.Bounds()
	pw := cols * 2
	ph := b.Dy() * pw / b.Dx()
	if ph < 2 {
		ph = 2
	}
	rows := (ph + 1) / 2

	// Lay the rows out with the GPU copy stride so this exercises the same
	// padded-row handling as a real readback.
	stride := int(gfx.AlignedBytesPerRow(uint32(pw)))
	pixels := make([]byte, stride*ph)
	for y := 0; y < ph; y++ {
		sy := b.Min.Y + y*b.Dy()/ph
		row := pixels[y*stride:]
		for x := 0; x < pw; x++ {
			sx := b.Min.X + x*b.Dx()/pw
			r, g, bl, a := img.At(sx, sy).RGBA()
			o := x * gfx.BytesPerPixel
			row[o+0] = uint8(r >> 8)
			row[o+1] = uint8(g >> 8)
			row[o+2] = uint8(bl >> 8)
			row[o+3] = uint8(a >> 8)
		}
	}

	buf := cellbuf.New(cols, rows)
	if err := buf.DrawSuperSampleBuffer(0, 0, pixels, gfx.RGBA8, stride, pw, ph); err != nil {
		return err
	}
	return buf.Render(os.Stdout)
}
