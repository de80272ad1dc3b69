// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package shaders holds the WGSL source and binding metadata of the
// engine's compute shaders.
package shaders

import _ "embed"

type BindType int

const (
	Buffer BindType = iota + 1
	BufReadOnly
	Uniform
	ImageRead
)

func (typ BindType) IsMutable() bool {
	return typ == Buffer
}

type ComputeShader struct {
	Name          string
	WorkgroupSize [3]uint32
	Bindings      []BindType
	WGSL          []byte
}

//go:embed supersample.wgsl
var supersampleWGSL []byte

// Collection lists every compute shader the engine can run.
var Collection = struct {
	Supersample ComputeShader
}{
	Supersample: ComputeShader{
		Name:          "supersample",
		WorkgroupSize: [3]uint32{8, 8, 1},
		Bindings:      []BindType{Uniform, ImageRead, Buffer},
		WGSL:          supersampleWGSL,
	},
}
