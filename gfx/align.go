// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gfx

import "golang.org/x/exp/constraints"

// BytesPerPixel is the size of one pixel in every format this package
// supports.
const BytesPerPixel = 4

// RowAlignment is wgpu's COPY_BYTES_PER_ROW_ALIGNMENT. The destination
// stride of a texture-to-buffer copy must be a multiple of it.
const RowAlignment = 256

// AlignUp rounds v up to the next multiple of align. align must be positive.
func AlignUp[T constraints.Integer](v, align T) T {
	return (v + align - 1) / align * align
}

// AlignedBytesPerRow returns the padded per-row stride required to copy a
// texture of the given width into a host-mappable buffer. The trailing
// padding bytes of each row are not pixel data and must be skipped by
// consumers.
func AlignedBytesPerRow(width uint32) uint32 {
	return AlignUp(width*BytesPerPixel, RowAlignment)
}
