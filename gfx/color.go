// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"honnef.co/go/color"
)

// Float32 converts c to non-premultiplied sRGB components in RGBA order,
// the encoding terminal emulators expect for truecolor escape sequences.
func Float32(c *color.Color) [4]float32 {
	cc := c.Convert(color.SRGB)
	return [4]float32{
		float32(cc.Values[0]),
		float32(cc.Values[1]),
		float32(cc.Values[2]),
		float32(cc.Values[3]),
	}
}
