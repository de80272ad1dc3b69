// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package texel turns GPU-rendered frames into terminal character cells.
//
// An external renderer draws a 3D scene into a wgpu texture each frame; a
// Canvas reads the pixels back across the GPU/CPU boundary and packs them
// into a cell buffer of colored block glyphs. Three paths are available:
//
//   - SuperSampleGPU: a compute shader reduces a 2× resolution render to one
//     packed record per cell entirely on the GPU.
//   - SuperSampleCPU: the 2× render is read back raw and averaged into cells
//     on the CPU.
//   - SuperSampleNone: one source pixel maps to one solid cell.
//
// The GPU device handle is passed in explicitly and shared read-only with
// the renderer that produced the source texture; the canvas owns every
// buffer it allocates and never mutates the source.
package texel
