// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"structs"
	"time"

	"honnef.co/go/safeish"
	"honnef.co/go/texel/engine/wgpu_engine/shaders"
	"honnef.co/go/texel/gfx"
	"honnef.co/go/wgpu"
)

// Algorithm selects how the supersample shader samples the source texture.
type Algorithm uint32

const (
	// AlgorithmStandard resolves all four quadrants of a cell's texel block
	// independently.
	AlgorithmStandard Algorithm = iota
	// AlgorithmPreSqueezed assumes the source was already squeezed
	// vertically to terminal cell aspect; only the left and right halves of
	// a block carry information.
	AlgorithmPreSqueezed
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmStandard:
		return "standard"
	case AlgorithmPreSqueezed:
		return "pre-squeezed"
	default:
		return "unknown"
	}
}

// ssUniforms is the supersample shader's uniform block. The layout matches
// the Params struct in shaders/supersample.wgsl.
type ssUniforms struct {
	_ structs.HostLayout

	SrcWidth  uint32
	SrcHeight uint32
	CellsW    uint32
	CellsH    uint32
	Algorithm uint32
	_         [3]uint32
}

// packedBufferSize is the size of the storage and readback buffers holding
// one packed record per terminal cell.
func packedBufferSize(cellsW, cellsH uint32) uint64 {
	return uint64(cellsW) * uint64(cellsH) * gfx.PackedCellSize
}

func dispatchSize(cells, workgroup uint32) uint32 {
	return (cells + workgroup - 1) / workgroup
}

// superSampler owns the compute pipeline that downsamples a rendered texture
// into one gfx.PackedCell per terminal cell, plus the storage buffer the
// shader writes and the readback buffer its result is copied through.
type superSampler struct {
	eng *Engine

	pipe     *computePipeline
	uniforms *wgpu.Buffer
	output   *wgpu.Buffer
	readback *wgpu.Buffer

	params   ssUniforms
	dirty    bool // uniforms must be rewritten before the next dispatch
	inFlight bool
}

func newSuperSampler(eng *Engine) (*superSampler, error) {
	pipe, err := eng.createComputePipeline(&shaders.Collection.Supersample)
	if err != nil {
		return nil, err
	}
	ss := &superSampler{
		eng:  eng,
		pipe: pipe,
	}
	ss.uniforms = eng.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "supersample uniforms",
		Size:  uint64(len(safeish.AsBytes(&ss.params))),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	return ss, nil
}

// resize recomputes the cell-count-dependent buffer sizes and reallocates
// the output buffers. It is a no-op when the dimensions are unchanged.
// Buffer byte layouts are a function of the full dimensions, so there is no
// partial resize.
func (ss *superSampler) resize(srcW, srcH, cellsW, cellsH uint32) error {
	if ss.inFlight {
		return ErrInFlight
	}
	if ss.output != nil &&
		ss.params.SrcWidth == srcW && ss.params.SrcHeight == srcH &&
		ss.params.CellsW == cellsW && ss.params.CellsH == cellsH {
		return nil
	}
	if ss.output != nil {
		ss.output.Release()
		ss.readback.Release()
	}
	size := packedBufferSize(cellsW, cellsH)
	ss.output = ss.eng.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "supersample cells",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	ss.readback = ss.eng.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "supersample cells readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	ss.params.SrcWidth = srcW
	ss.params.SrcHeight = srcH
	ss.params.CellsW = cellsW
	ss.params.CellsH = cellsH
	ss.dirty = true
	return nil
}

// setAlgorithm updates the algorithm selector. The uniform buffer is
// rewritten before the next dispatch; calling it with the unchanged value
// skips the write, but correctness does not depend on that.
func (ss *superSampler) setAlgorithm(algo Algorithm) {
	if ss.params.Algorithm == uint32(algo) {
		return
	}
	ss.params.Algorithm = uint32(algo)
	ss.dirty = true
}

func (ss *superSampler) writeUniforms() {
	ss.eng.queue.WriteBuffer(ss.uniforms, 0, safeish.AsBytes(&ss.params))
	ss.dirty = false
}

// dispatch binds tex as the shader input, covers every output cell with the
// workgroup grid, copies the packed result to the readback buffer, maps it
// and visits the mapped bytes. The same in-flight rule as readback.read
// applies.
func (ss *superSampler) dispatch(tex *wgpu.Texture, visit func(data []byte) error) error {
	if ss.inFlight {
		return ErrInFlight
	}
	if ss.dirty {
		ss.writeUniforms()
	}
	size := packedBufferSize(ss.params.CellsW, ss.params.CellsH)
	wg := shaders.Collection.Supersample.WorkgroupSize

	view := tex.CreateView(nil)
	defer view.Release()
	bindGroup := ss.eng.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: ss.pipe.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: ss.uniforms, Size: ^uint64(0)},
			{Binding: 1, TextureView: view, Size: ^uint64(0)},
			{Binding: 2, Buffer: ss.output, Size: ^uint64(0)},
		},
	})
	defer bindGroup.Release()

	drawStart := time.Now()
	enc := ss.eng.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "supersample"})
	cpass := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: ss.pipe.label})
	cpass.SetPipeline(ss.pipe.pipeline)
	cpass.SetBindGroup(0, bindGroup, nil)
	cpass.DispatchWorkgroups(
		dispatchSize(ss.params.CellsW, wg[0]),
		dispatchSize(ss.params.CellsH, wg[1]),
		1,
	)
	cpass.End()
	cpass.Release()
	enc.CopyBufferToBuffer(ss.output, 0, ss.readback, 0, size)
	cmd := enc.Finish(nil)
	enc.Release()
	ss.eng.queue.Submit(cmd)
	cmd.Release()
	ss.eng.timings.Draw += time.Since(drawStart)

	ss.inFlight = true
	mapStart := time.Now()
	err := <-ss.readback.Map(ss.eng.dev, wgpu.MapModeRead, 0, int(size))
	ss.eng.timings.Map += time.Since(mapStart)
	if err != nil {
		ss.inFlight = false
		return &DeviceError{Err: err}
	}
	defer func() {
		ss.readback.Unmap()
		ss.inFlight = false
	}()

	return visit(ss.readback.ReadOnlyMappedRange(0, int(size)))
}

// invalidate drops the output buffers so the next resize reallocates them.
// The pipeline and uniform buffer are kept.
func (ss *superSampler) invalidate() {
	if ss.output != nil {
		ss.output.Release()
		ss.readback.Release()
		ss.output = nil
		ss.readback = nil
	}
}

func (ss *superSampler) release() {
	if ss.uniforms != nil {
		ss.uniforms.Release()
	}
	if ss.output != nil {
		ss.output.Release()
		ss.readback.Release()
	}
	if ss.pipe != nil {
		ss.pipe.pipeline.Release()
		ss.pipe.bindGroupLayout.Release()
	}
	*ss = superSampler{}
}

// ConfigureSupersampler builds the compute pipeline on first use and sizes
// its buffers for the given source and cell dimensions. A pipeline build
// failure is fatal to GPU supersampling only; the caller is expected to fall
// back to another mode.
func (eng *Engine) ConfigureSupersampler(srcW, srcH, cellsW, cellsH uint32, algo Algorithm) error {
	if eng.ss == nil {
		ss, err := newSuperSampler(eng)
		if err != nil {
			return err
		}
		eng.ss = ss
	}
	if err := eng.ss.resize(srcW, srcH, cellsW, cellsH); err != nil {
		return err
	}
	eng.ss.setAlgorithm(algo)
	return nil
}

// SetAlgorithm updates the algorithm selector of an already configured
// supersampler. It is a no-op before the first ConfigureSupersampler call.
func (eng *Engine) SetAlgorithm(algo Algorithm) {
	if eng.ss == nil {
		return
	}
	eng.ss.setAlgorithm(algo)
}

// DispatchSupersample runs the supersample shader against tex and visits the
// packed cell bytes, one gfx.PackedCell per terminal cell in row-major
// order. ConfigureSupersampler must have succeeded first.
func (eng *Engine) DispatchSupersample(tex *wgpu.Texture, visit func(data []byte) error) error {
	if eng.ss == nil {
		panic("wgpu_engine: DispatchSupersample before ConfigureSupersampler")
	}
	return eng.ss.dispatch(tex, visit)
}

// ReleaseSupersampler frees the compute pipeline and its buffers, returning
// the supersampler to its uninitialized state. The next
// ConfigureSupersampler call rebuilds it from scratch.
func (eng *Engine) ReleaseSupersampler() {
	if eng.ss == nil {
		return
	}
	eng.ss.release()
	eng.ss = nil
}
