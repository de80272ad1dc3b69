// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"math"
	"testing"
)

func approxEq(a, b [4]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func TestQuantizeQuadrantsSolid(t *testing.T) {
	c := [4]float32{0.25, 0.5, 0.75, 1}
	mask, fg, bg := QuantizeQuadrants([4][4]float32{c, c, c, c})
	if mask != 15 {
		t.Errorf("mask = %d, want 15", mask)
	}
	if QuadrantRunes[mask] != '█' {
		t.Errorf("glyph = %q, want full block", QuadrantRunes[mask])
	}
	if !approxEq(fg, c) || !approxEq(bg, c) {
		t.Errorf("fg = %v, bg = %v, want both %v", fg, bg, c)
	}
}

func TestQuantizeQuadrantsSplit(t *testing.T) {
	white := [4]float32{1, 1, 1, 1}
	black := [4]float32{0, 0, 0, 1}

	tests := []struct {
		name  string
		quads [4][4]float32 // TL, TR, BL, BR
		mask  int
		glyph rune
	}{
		{"top-left only", [4][4]float32{white, black, black, black}, 1, '▘'},
		{"left half", [4][4]float32{white, black, white, black}, 5, '▌'},
		{"top half", [4][4]float32{white, white, black, black}, 3, '▀'},
		{"bottom-right only", [4][4]float32{black, black, black, white}, 8, '▗'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, fg, bg := QuantizeQuadrants(tt.quads)
			if mask != tt.mask {
				t.Fatalf("mask = %d, want %d", mask, tt.mask)
			}
			if QuadrantRunes[mask] != tt.glyph {
				t.Errorf("glyph = %q, want %q", QuadrantRunes[mask], tt.glyph)
			}
			if !approxEq(fg, white) {
				t.Errorf("fg = %v, want white", fg)
			}
			if !approxEq(bg, black) {
				t.Errorf("bg = %v, want black", bg)
			}
		})
	}
}

func TestQuantizeQuadrantsClusterAverage(t *testing.T) {
	// Two near-white and two near-black quadrants. Each cluster's color is
	// the average of its members.
	a := [4]float32{1, 1, 1, 1}
	b := [4]float32{0.9, 0.9, 0.9, 1}
	c := [4]float32{0, 0, 0, 1}
	d := [4]float32{0.1, 0.1, 0.1, 1}

	mask, fg, bg := QuantizeQuadrants([4][4]float32{a, b, c, d})
	if mask != 3 {
		t.Fatalf("mask = %d, want 3", mask)
	}
	if !approxEq(fg, [4]float32{0.95, 0.95, 0.95, 1}) {
		t.Errorf("fg = %v, want cluster average 0.95", fg)
	}
	if !approxEq(bg, [4]float32{0.05, 0.05, 0.05, 1}) {
		t.Errorf("bg = %v, want cluster average 0.05", bg)
	}
}
