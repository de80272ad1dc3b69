// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import "fmt"

// Format identifies the channel order of 32-bit pixel data in a render
// target. Presentable surfaces commonly store blue first; storage textures
// are usually RGBA.
type Format int

const (
	RGBA8 Format = iota
	BGRA8
)

func (f Format) String() string {
	switch f {
	case RGBA8:
		return "rgba8"
	case BGRA8:
		return "bgra8"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// RGBA returns the pixel whose bytes start at p[0], normalized to [0, 1]
// floats in RGBA order. For BGRA8 the red and blue channels are swapped
// relative to their byte order.
func (f Format) RGBA(p []byte) [4]float32 {
	const s = 1.0 / 255.0
	switch f {
	case RGBA8:
		return [4]float32{
			float32(p[0]) * s,
			float32(p[1]) * s,
			float32(p[2]) * s,
			float32(p[3]) * s,
		}
	case BGRA8:
		return [4]float32{
			float32(p[2]) * s,
			float32(p[1]) * s,
			float32(p[0]) * s,
			float32(p[3]) * s,
		}
	default:
		panic(fmt.Sprintf("unhandled format %d", f))
	}
}
