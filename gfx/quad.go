// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

// QuadrantRunes maps a 4-bit quadrant occupancy mask to the matching block
// glyph. Bit 0 is the top-left quadrant, bit 1 top-right, bit 2 bottom-left,
// bit 3 bottom-right. The GLYPHS table in supersample.wgsl encodes the same
// mapping as code points.
var QuadrantRunes = [16]rune{
	' ', '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}

// lumEpsilon is the luminance span below which a cell is considered a solid
// color. One step of an 8-bit channel.
const lumEpsilon = 1.0 / 255.0

func luminance(c [4]float32) float32 {
	// Rec. 601 weights, same as the shader.
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

func distSq(a, b [4]float32) float32 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

// QuantizeQuadrants partitions four quadrant colors into a foreground and a
// background cluster and returns the occupancy mask indexing QuadrantRunes,
// along with the two cluster averages. It is the CPU mirror of the packing
// step in supersample.wgsl.
//
// Quadrants join the cluster whose seed (the brightest respectively darkest
// quadrant) they are closer to. A cell whose quadrants all share one color
// quantizes to a solid block with fg == bg.
func QuantizeQuadrants(quads [4][4]float32) (mask int, fg, bg [4]float32) {
	minI, maxI := 0, 0
	for i := 1; i < 4; i++ {
		if luminance(quads[i]) < luminance(quads[minI]) {
			minI = i
		}
		if luminance(quads[i]) > luminance(quads[maxI]) {
			maxI = i
		}
	}

	if luminance(quads[maxI])-luminance(quads[minI]) < lumEpsilon {
		var avg [4]float32
		for _, q := range quads {
			for c := range avg {
				avg[c] += q[c] * 0.25
			}
		}
		return 15, avg, avg
	}

	hi, lo := quads[maxI], quads[minI]
	var nfg, nbg float32
	for i, q := range quads {
		if distSq(q, hi) <= distSq(q, lo) {
			mask |= 1 << i
			for c := range fg {
				fg[c] += q[c]
			}
			nfg++
		} else {
			for c := range bg {
				bg[c] += q[c]
			}
			nbg++
		}
	}
	for c := range fg {
		fg[c] /= nfg
	}
	if nbg > 0 {
		for c := range bg {
			bg[c] /= nbg
		}
	}
	return mask, fg, bg
}
