// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cellbuf

import (
	"fmt"

	"honnef.co/go/texel/gfx"
)

// DrawPackedBuffer unpacks wCells×hCells packed cell records, in row-major
// order, into the buffer at (posX, posY). data must use the layout of
// gfx.PackedCell, exactly gfx.PackedCellSize bytes per cell.
func (b *Buffer) DrawPackedBuffer(data []byte, posX, posY, wCells, hCells int) error {
	need := wCells * hCells * gfx.PackedCellSize
	if len(data) < need {
		return fmt.Errorf("cellbuf: packed buffer too short: got %d bytes, need %d for %d×%d cells",
			len(data), need, wCells, hCells)
	}
	cells := gfx.PackedCells(data[:need])
	for y := 0; y < hCells; y++ {
		for x := 0; x < wCells; x++ {
			c := cells[y*wCells+x]
			b.SetCell(posX+x, posY+y, rune(c.Char), c.Fg, c.Bg)
		}
	}
	return nil
}

// DrawSuperSampleBuffer reduces raw pixel data to cells on the CPU. pixels
// holds srcWidth×srcHeight pixels with the given channel order and an
// explicit per-row stride; rows are not assumed to be tightly packed. Each
// cell consumes a 2×2 block of source pixels, one per quadrant, quantized
// the same way the supersample shader does it and written at (x+cx, y+cy).
//
// Pixels beyond the source edge, for odd source dimensions, repeat the last
// row or column.
func (b *Buffer) DrawSuperSampleBuffer(x, y int, pixels []byte, format gfx.Format, alignedBytesPerRow, srcWidth, srcHeight int) error {
	if srcWidth <= 0 || srcHeight <= 0 {
		return fmt.Errorf("cellbuf: invalid supersample source %d×%d", srcWidth, srcHeight)
	}
	if alignedBytesPerRow < srcWidth*gfx.BytesPerPixel {
		return fmt.Errorf("cellbuf: stride %d shorter than row of %d pixels", alignedBytesPerRow, srcWidth)
	}
	if need := alignedBytesPerRow * srcHeight; len(pixels) < need {
		return fmt.Errorf("cellbuf: pixel buffer too short: got %d bytes, need %d", len(pixels), need)
	}

	sample := func(px, py int) [4]float32 {
		if px >= srcWidth {
			px = srcWidth - 1
		}
		if py >= srcHeight {
			py = srcHeight - 1
		}
		off := py*alignedBytesPerRow + px*gfx.BytesPerPixel
		return format.RGBA(pixels[off:])
	}

	wCells := (srcWidth + 1) / 2
	hCells := (srcHeight + 1) / 2
	for cy := 0; cy < hCells; cy++ {
		for cx := 0; cx < wCells; cx++ {
			quads := [4][4]float32{
				sample(cx*2, cy*2),
				sample(cx*2+1, cy*2),
				sample(cx*2, cy*2+1),
				sample(cx*2+1, cy*2+1),
			}
			mask, fg, bg := gfx.QuantizeQuadrants(quads)
			b.SetCell(x+cx, y+cy, gfx.QuadrantRunes[mask], fg, bg)
		}
	}
	return nil
}
