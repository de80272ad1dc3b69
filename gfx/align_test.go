// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import "testing"

func TestAlignedBytesPerRow(t *testing.T) {
	// Widths deliberately not multiples of 64 pixels, where padding is
	// required.
	widths := []uint32{1, 3, 5, 13, 63, 65, 100, 127, 129, 200, 255, 257, 1000}
	for _, w := range widths {
		got := AlignedBytesPerRow(w)
		if got < w*BytesPerPixel {
			t.Errorf("AlignedBytesPerRow(%d) = %d, smaller than row data %d", w, got, w*BytesPerPixel)
		}
		if got%RowAlignment != 0 {
			t.Errorf("AlignedBytesPerRow(%d) = %d, not a multiple of %d", w, got, RowAlignment)
		}
		if got-w*BytesPerPixel >= RowAlignment {
			t.Errorf("AlignedBytesPerRow(%d) = %d, padded by a full alignment unit or more", w, got)
		}
	}

	// Already aligned widths gain no padding.
	if got := AlignedBytesPerRow(64); got != 256 {
		t.Errorf("AlignedBytesPerRow(64) = %d, want 256", got)
	}
	if got := AlignedBytesPerRow(128); got != 512 {
		t.Errorf("AlignedBytesPerRow(128) = %d, want 512", got)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, align, want int
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{5, 4, 8},
		{8, 4, 8},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.v, tt.align); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.v, tt.align, got, tt.want)
		}
	}
}

// TestPaddedRowRoundTrip writes known pixels into a buffer with an aligned
// stride, poisons the padding, and checks that reading rows back with the
// stride recovers exactly the original values.
func TestPaddedRowRoundTrip(t *testing.T) {
	const width, height = 5, 3
	stride := int(AlignedBytesPerRow(width))
	if stride == width*BytesPerPixel {
		t.Fatal("test requires a width that needs padding")
	}

	pixel := func(x, y int) [4]byte {
		return [4]byte{byte(x*16 + y), byte(x * 2), byte(y * 3), 255}
	}

	data := make([]byte, stride*height)
	for i := range data {
		data[i] = 0xab // poison; must never be read as pixel data
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixel(x, y)
			copy(data[y*stride+x*BytesPerPixel:], p[:])
		}
	}

	for y := 0; y < height; y++ {
		row := data[y*stride:]
		for x := 0; x < width; x++ {
			want := pixel(x, y)
			got := RGBA8.RGBA(row[x*BytesPerPixel:])
			for c := 0; c < 4; c++ {
				w := float32(want[c]) / 255
				if got[c] != w {
					t.Fatalf("pixel (%d,%d) channel %d = %v, want %v", x, y, c, got[c], w)
				}
			}
		}
	}
}
