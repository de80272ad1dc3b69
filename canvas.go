// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package texel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"honnef.co/go/texel/engine/wgpu_engine"
	"honnef.co/go/texel/gfx"
	"honnef.co/go/texel/profiler"
	"honnef.co/go/wgpu"
)

// SuperSampleMode selects how rendered pixels are reduced to terminal cells.
type SuperSampleMode int

const (
	// SuperSampleNone maps one source pixel to one solid terminal cell. Only
	// meaningful when the render resolution equals the cell grid.
	SuperSampleNone SuperSampleMode = iota
	// SuperSampleCPU reads the full-resolution render back and averages it
	// into cells on the CPU.
	SuperSampleCPU
	// SuperSampleGPU runs the compute supersampler and reads back one packed
	// record per cell.
	SuperSampleGPU
)

func (m SuperSampleMode) String() string {
	switch m {
	case SuperSampleNone:
		return "none"
	case SuperSampleCPU:
		return "cpu"
	case SuperSampleGPU:
		return "gpu"
	default:
		return fmt.Sprintf("SuperSampleMode(%d)", int(m))
	}
}

// SuperSampleAlgorithm selects the sampling variant of the supersample
// shader.
type SuperSampleAlgorithm = wgpu_engine.Algorithm

const (
	AlgorithmStandard    = wgpu_engine.AlgorithmStandard
	AlgorithmPreSqueezed = wgpu_engine.AlgorithmPreSqueezed
)

// superSampleFactor is the resolution multiplier of a supersampled render
// relative to the terminal cell grid.
const superSampleFactor = 2

// ContextKind identifies a drawing context a Canvas can provide.
type ContextKind int

const (
	// ContextWGPU is the GPU surface context, the only kind this package
	// implements.
	ContextWGPU ContextKind = iota + 1
)

// CellWriter is the terminal pixel buffer the pipeline writes into.
// *cellbuf.Buffer implements it.
type CellWriter interface {
	SetCell(x, y int, glyph rune, fg, bg [4]float32)
	DrawPackedBuffer(data []byte, posX, posY, wCells, hCells int) error
	DrawSuperSampleBuffer(x, y int, pixels []byte, format gfx.Format, alignedBytesPerRow, srcWidth, srcHeight int) error
}

// gpuPipe is the engine surface the canvas drives. *wgpu_engine.Engine
// implements it; tests substitute fakes so no device is needed.
type gpuPipe interface {
	ReadFrame(tex *wgpu.Texture, width, height uint32, format gfx.Format, visit func(wgpu_engine.Frame) error) error
	ConfigureSupersampler(srcW, srcH, cellsW, cellsH uint32, algo wgpu_engine.Algorithm) error
	SetAlgorithm(algo wgpu_engine.Algorithm)
	DispatchSupersample(tex *wgpu.Texture, visit func(data []byte) error) error
	InvalidateBuffers()
	Timings() *profiler.FrameTimings
	Release()
}

var _ gpuPipe = (*wgpu_engine.Engine)(nil)

// Options configures a Canvas.
type Options struct {
	// Width and Height are the terminal cell grid dimensions.
	Width  int
	Height int

	SuperSample SuperSampleMode
	Algorithm   SuperSampleAlgorithm
}

// Canvas packs frames rendered by an external wgpu renderer into a terminal
// cell buffer.
//
// All methods are intended to be called from the render loop goroutine. The
// one concession to concurrency is the per-frame entry point: a frame
// request arriving while the previous one is still awaiting its GPU map is
// dropped with a debug log, and structural changes (resize, mode, algorithm)
// arriving during that window are applied after the in-flight frame
// completes, never while its buffers are mapped.
type Canvas struct {
	dev   *wgpu.Device
	queue *wgpu.Queue
	pipe  gpuPipe

	width  int
	height int
	mode   SuperSampleMode
	algo   SuperSampleAlgorithm

	src       *wgpu.Texture
	srcFormat gfx.Format

	// dirty marks the supersampler configuration stale; it is refreshed
	// before the next GPU-mode frame.
	dirty    bool
	released bool

	inFlight  atomic.Bool
	pendingMu sync.Mutex
	pending   []func()

	timings profiler.FrameTimings
}

// New creates a canvas on an explicitly provided device and queue. The
// device is shared read-only with the renderer producing the source
// texture.
func New(dev *wgpu.Device, queue *wgpu.Queue, opts Options) *Canvas {
	return &Canvas{
		dev:    dev,
		queue:  queue,
		width:  opts.Width,
		height: opts.Height,
		mode:   opts.SuperSample,
		algo:   opts.Algorithm,
	}
}

// Context requests a drawing context. Only ContextWGPU is supported; any
// other kind fails with ErrUnsupportedContext. The first successful call
// constructs the GPU-side engine; its buffers are sized lazily on first
// use.
func (c *Canvas) Context(kind ContextKind) (*Canvas, error) {
	if c.released {
		return nil, ErrReleased
	}
	if kind != ContextWGPU {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedContext, int(kind))
	}
	if c.pipe == nil {
		c.pipe = wgpu_engine.New(c.dev, c.queue)
		c.dirty = true
	}
	return c, nil
}

// SetSourceTexture hands the canvas the completed color texture to read
// from each frame. The texture's dimensions must match PixelSize and its
// channel order must match format; the canvas only ever reads from it.
// The external renderer must call this again after it recreates the texture
// on a resize.
func (c *Canvas) SetSourceTexture(tex *wgpu.Texture, format gfx.Format) {
	c.src = tex
	c.srcFormat = format
}

// PixelSize returns the source resolution the canvas expects for the
// current mode: the cell grid itself for SuperSampleNone, twice the grid
// otherwise.
func (c *Canvas) PixelSize() (width, height int) {
	if c.mode == SuperSampleNone {
		return c.width, c.height
	}
	return c.width * superSampleFactor, c.height * superSampleFactor
}

// Size returns the terminal cell grid dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// structural runs apply now, or defers it until after the in-flight frame
// if one is awaiting its map. GPU buffers must not be resized or released
// while mapped.
func (c *Canvas) structural(apply func()) {
	c.pendingMu.Lock()
	if c.inFlight.Load() {
		c.pending = append(c.pending, apply)
		c.pendingMu.Unlock()
		return
	}
	c.pendingMu.Unlock()
	apply()
}

func (c *Canvas) applyPending() {
	c.pendingMu.Lock()
	pending := c.pending
	c.pending = nil
	c.pendingMu.Unlock()
	for _, apply := range pending {
		apply()
	}
}

// invalidate drops all dimension-dependent GPU buffers. They are rebuilt,
// sized to the current configuration, on next use. Buffer byte layouts are
// a function of the full dimensions; there is no incremental resize.
func (c *Canvas) invalidate() {
	c.dirty = true
	if c.pipe != nil {
		c.pipe.InvalidateBuffers()
	}
}

// Resize updates the cell grid dimensions. Calling it with the current
// dimensions is a no-op.
func (c *Canvas) Resize(width, height int) {
	c.structural(func() {
		if width == c.width && height == c.height {
			return
		}
		c.width = width
		c.height = height
		c.invalidate()
	})
}

// SetSuperSample switches the readback mode. A mode change is structural:
// all mode-specific buffers are rebuilt on next use.
func (c *Canvas) SetSuperSample(mode SuperSampleMode) {
	c.structural(func() {
		if mode == c.mode {
			return
		}
		c.mode = mode
		c.invalidate()
	})
}

// SetSuperSampleAlgorithm switches the supersample shader's sampling
// variant. This rewrites the shader uniforms but keeps the pipeline and
// buffers.
func (c *Canvas) SetSuperSampleAlgorithm(algo SuperSampleAlgorithm) {
	c.structural(func() {
		if algo == c.algo {
			return
		}
		c.algo = algo
		if c.pipe != nil {
			c.pipe.SetAlgorithm(algo)
		}
	})
}

// ReadPixelsIntoBuffer is the per-frame entry point: it reads the source
// texture back and writes it into target using the current mode. At most
// one call per canvas may be in flight; a re-entrant call is dropped.
//
// On failure target is left untouched — cell writes only happen after the
// frame's bytes have been mapped successfully — so the previous frame's
// contents survive and the caller can simply retry next frame.
func (c *Canvas) ReadPixelsIntoBuffer(target CellWriter) error {
	if c.released {
		return ErrReleased
	}
	if c.pipe == nil {
		return ErrNoContext
	}
	if c.src == nil {
		return ErrNoSource
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		logger().Debug("texel: dropping frame, readback in flight")
		return nil
	}
	defer func() {
		c.inFlight.Store(false)
		c.applyPending()
	}()

	c.pipe.Timings().Reset()
	var err error
	switch c.mode {
	case SuperSampleGPU:
		err = c.readGPU(target)
	case SuperSampleCPU:
		err = c.readCPU(target)
	case SuperSampleNone:
		err = c.readDirect(target)
	default:
		panic(fmt.Sprintf("unhandled mode %d", c.mode))
	}
	c.timings = *c.pipe.Timings()

	if errors.Is(err, wgpu_engine.ErrInFlight) {
		logger().Debug("texel: dropping frame, engine buffer in flight")
		return nil
	}
	return err
}

func (c *Canvas) readGPU(target CellWriter) error {
	if c.dirty {
		srcW := uint32(c.width * superSampleFactor)
		srcH := uint32(c.height * superSampleFactor)
		if err := c.pipe.ConfigureSupersampler(srcW, srcH, uint32(c.width), uint32(c.height), c.algo); err != nil {
			logger().Warn("texel: GPU supersampling unavailable, falling back to CPU",
				"err", err)
			c.mode = SuperSampleCPU
			return c.readCPU(target)
		}
		c.dirty = false
	}
	return c.pipe.DispatchSupersample(c.src, func(data []byte) error {
		return target.DrawPackedBuffer(data, 0, 0, c.width, c.height)
	})
}

func (c *Canvas) readCPU(target CellWriter) error {
	w, h := c.width*superSampleFactor, c.height*superSampleFactor
	return c.pipe.ReadFrame(c.src, uint32(w), uint32(h), c.srcFormat, func(f wgpu_engine.Frame) error {
		span := profiler.Start(&c.pipe.Timings().Draw)
		defer span.End()
		return target.DrawSuperSampleBuffer(0, 0, f.Data, f.Format, f.BytesPerRow, f.Width, f.Height)
	})
}

func (c *Canvas) readDirect(target CellWriter) error {
	return c.pipe.ReadFrame(c.src, uint32(c.width), uint32(c.height), c.srcFormat, func(f wgpu_engine.Frame) error {
		span := profiler.Start(&c.pipe.Timings().Draw)
		defer span.End()
		unpackDirect(f, target)
		return nil
	})
}

// unpackDirect writes one solid cell per source pixel, skipping the
// alignment padding at the end of each row.
func unpackDirect(f wgpu_engine.Frame, target CellWriter) {
	for y := 0; y < f.Height; y++ {
		row := f.Data[y*f.BytesPerRow:]
		for x := 0; x < f.Width; x++ {
			px := f.Format.RGBA(row[x*gfx.BytesPerPixel:])
			target.SetCell(x, y, '█', px, px)
		}
	}
}

// LastDrawTime returns the time the previous frame spent dispatching the
// supersample pass or converting pixels to cells.
func (c *Canvas) LastDrawTime() time.Duration {
	return c.timings.Draw
}

// LastMapTime returns the time the previous frame spent waiting on GPU
// buffer maps.
func (c *Canvas) LastMapTime() time.Duration {
	return c.timings.Map
}

// Release frees all GPU buffers and the compute pipeline. The canvas cannot
// be used afterwards.
func (c *Canvas) Release() {
	if c.released {
		return
	}
	c.released = true
	if c.pipe != nil {
		c.pipe.Release()
		c.pipe = nil
	}
}
