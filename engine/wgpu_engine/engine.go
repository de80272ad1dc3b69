// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package wgpu_engine implements the GPU side of the pixel pipeline: copying
// rendered textures into host-mappable buffers and running the compute
// supersampler that packs them into terminal cell records.
package wgpu_engine

import (
	"errors"
	"fmt"

	"honnef.co/go/texel/engine/wgpu_engine/shaders"
	"honnef.co/go/texel/profiler"
	"honnef.co/go/wgpu"
)

// ErrInFlight reports that a buffer of this engine is still mapped or
// awaiting a map. The frame that hits it should be skipped rather than
// treated as fatal.
var ErrInFlight = errors.New("wgpu_engine: readback already in flight")

// DeviceError wraps an error reported by the underlying GPU device, such as
// a lost device. Unlike mode-specific initialization failures, it cannot be
// recovered from by switching supersample modes.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return "wgpu_engine: device error: " + e.Err.Error()
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Engine owns all GPU buffers of the pixel pipeline. The source textures it
// reads from belong to the external renderer and are never written to.
type Engine struct {
	dev   *wgpu.Device
	queue *wgpu.Queue

	readback *readback
	ss       *superSampler

	timings profiler.FrameTimings
}

func New(dev *wgpu.Device, queue *wgpu.Queue) *Engine {
	eng := &Engine{
		dev:   dev,
		queue: queue,
	}
	eng.readback = newReadback(eng)
	return eng
}

// Timings returns the engine's accumulated frame timings. The caller resets
// them at the start of each frame.
func (eng *Engine) Timings() *profiler.FrameTimings {
	return &eng.timings
}

// InvalidateBuffers releases every dimension-dependent buffer. They are
// recreated, sized to the caller's current configuration, on next use. The
// compute pipeline itself survives; only a resize of its output requires new
// buffers, not a recompile.
func (eng *Engine) InvalidateBuffers() {
	eng.readback.release()
	if eng.ss != nil {
		eng.ss.invalidate()
	}
}

// Release frees every GPU resource the engine owns. The engine must not be
// used afterwards.
func (eng *Engine) Release() {
	eng.readback.release()
	if eng.ss != nil {
		eng.ss.release()
		eng.ss = nil
	}
}

var bindGroupLayoutEntries = map[shaders.BindType]func(binding uint32) wgpu.BindGroupLayoutEntry{
	shaders.Buffer: func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: &wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeStorage,
			},
		}
	},
	shaders.BufReadOnly: func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: &wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeReadOnlyStorage,
			},
		}
	},
	shaders.Uniform: func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: &wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		}
	},
	shaders.ImageRead: func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Texture: &wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
				Multisampled:  false,
			},
		}
	},
}

type computePipeline struct {
	label           string
	pipeline        *wgpu.ComputePipeline
	bindGroupLayout *wgpu.BindGroupLayout
}

// createComputePipeline compiles a shader and builds its pipeline. The
// binding reports failures such as unsupported device features by panicking;
// those are recovered into an error so that the orchestrator can fall back to
// another mode instead of crashing the renderer.
func (eng *Engine) createComputePipeline(shader *shaders.ComputeShader) (_ *computePipeline, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wgpu_engine: building pipeline %q: %v", shader.Name, r)
		}
	}()

	entries := make([]wgpu.BindGroupLayoutEntry, len(shader.Bindings))
	for i, bindType := range shader.Bindings {
		mk, ok := bindGroupLayoutEntries[bindType]
		if !ok {
			panic(fmt.Sprintf("invalid bind type %d", bindType))
		}
		entries[i] = mk(uint32(i))
	}

	shaderModule := eng.dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  shader.Name,
		Source: wgpu.ShaderSourceWGSL(shader.WGSL),
	})
	bindGroupLayout := eng.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: entries,
	})
	pipelineLayout := eng.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	pipeline := eng.dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  shader.Name,
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shaderModule,
			EntryPoint: "main",
		},
	})
	pipelineLayout.Release()

	return &computePipeline{
		label:           shader.Name,
		pipeline:        pipeline,
		bindGroupLayout: bindGroupLayout,
	}, nil
}
