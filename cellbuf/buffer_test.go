// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package cellbuf

import "testing"

func TestBufferSetCell(t *testing.T) {
	b := New(4, 3)
	if b.Width() != 4 || b.Height() != 3 {
		t.Fatalf("size = %d×%d, want 4×3", b.Width(), b.Height())
	}

	fg := [4]float32{1, 0, 0, 1}
	bg := [4]float32{0, 0, 1, 1}
	b.SetCell(2, 1, '▀', fg, bg)

	got := b.Cell(2, 1)
	if got.Glyph != '▀' || got.Fg != fg || got.Bg != bg {
		t.Errorf("cell = %+v", got)
	}
	if b.Cell(0, 0) != (Cell{}) {
		t.Errorf("untouched cell = %+v, want zero", b.Cell(0, 0))
	}
}

func TestBufferClipsOutOfBounds(t *testing.T) {
	b := New(2, 2)
	fg := [4]float32{1, 1, 1, 1}

	// None of these may panic or disturb the grid.
	b.SetCell(-1, 0, 'x', fg, fg)
	b.SetCell(0, -1, 'x', fg, fg)
	b.SetCell(2, 0, 'x', fg, fg)
	b.SetCell(0, 2, 'x', fg, fg)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if b.Cell(x, y) != (Cell{}) {
				t.Errorf("cell (%d, %d) = %+v, want zero", x, y, b.Cell(x, y))
			}
		}
	}
	if b.Cell(5, 5) != (Cell{}) {
		t.Errorf("out-of-bounds read = %+v, want zero", b.Cell(5, 5))
	}
}

func TestBufferFillAndClear(t *testing.T) {
	b := New(3, 2)
	fg := [4]float32{0.5, 0.5, 0.5, 1}
	b.Fill('█', fg, fg)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c := b.Cell(x, y); c.Glyph != '█' || c.Fg != fg {
				t.Fatalf("cell (%d, %d) = %+v after Fill", x, y, c)
			}
		}
	}
	b.Clear()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if b.Cell(x, y) != (Cell{}) {
				t.Fatalf("cell (%d, %d) not cleared", x, y)
			}
		}
	}
}
