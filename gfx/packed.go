// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import (
	"structs"
	"unsafe"

	"honnef.co/go/safeish"
)

// PackedCell is one terminal cell's worth of supersampled output, as written
// by the supersample compute shader into its storage buffer. The WGSL Cell
// struct in engine/wgpu_engine/shaders/supersample.wgsl has this exact
// layout; the two must only ever change together.
//
// The trailing padding is the WGSL struct stride: a struct containing a
// vec4<f32> is 16-byte aligned, rounding 36 bytes of fields up to 48.
type PackedCell struct {
	_ structs.HostLayout

	Fg   [4]float32
	Bg   [4]float32
	Char uint32
	_    [3]uint32
}

// PackedCellSize is the stride of one PackedCell in a packed cell buffer.
const PackedCellSize = 48

var _ [PackedCellSize]byte = [unsafe.Sizeof(PackedCell{})]byte{}

// PackedCells reinterprets a packed cell buffer, in row-major cell order, as
// a slice of records. data must be a mapped or copied buffer produced by the
// supersample shader; its length must be a multiple of PackedCellSize.
func PackedCells(data []byte) []PackedCell {
	return safeish.SliceCast[[]PackedCell](data)
}
