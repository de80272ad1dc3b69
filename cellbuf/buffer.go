// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package cellbuf implements the terminal pixel buffer that the pipeline
// writes into: a 2D grid of character cells, each carrying a glyph and
// foreground/background colors.
package cellbuf

import (
	"honnef.co/go/color"

	"honnef.co/go/texel/gfx"
)

// Cell is one character-sized unit of terminal output.
type Cell struct {
	Glyph rune
	Fg    [4]float32
	Bg    [4]float32
}

// Buffer is a width×height grid of cells. It is not safe for concurrent use.
type Buffer struct {
	width  int
	height int
	cells  []Cell
}

func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		panic("cellbuf: negative dimensions")
	}
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Cell returns the cell at (x, y). Out-of-bounds coordinates return the zero
// Cell.
func (b *Buffer) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// SetCell writes one cell. Writes outside the buffer are ignored, so drawing
// operations can clip against the edges without checking themselves.
func (b *Buffer) SetCell(x, y int, glyph rune, fg, bg [4]float32) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Glyph: glyph, Fg: fg, Bg: bg}
}

// SetCellColor is SetCell for callers working with color-managed colors.
func (b *Buffer) SetCellColor(x, y int, glyph rune, fg, bg *color.Color) {
	b.SetCell(x, y, glyph, gfx.Float32(fg), gfx.Float32(bg))
}

// Fill sets every cell to the same glyph and colors.
func (b *Buffer) Fill(glyph rune, fg, bg [4]float32) {
	c := Cell{Glyph: glyph, Fg: fg, Bg: bg}
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear resets every cell to the zero value.
func (b *Buffer) Clear() {
	clear(b.cells)
}
