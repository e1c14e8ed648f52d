/*
DESCRIPTION
  bufpool.go implements a fixed-size, blocking buffer pool for NV12/YUV420
  frame buffers. Unlike an unbounded sync.Pool, acquire blocks when the
  pool is exhausted rather than allocating past its configured size,
  since the orchestrator relies on the pool's bound to reason about
  steady-state memory use (§5).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bufpool implements the fixed-capacity, blocking frame-buffer
// pool used by the stitcher orchestrator for its remap output tiles, 2
// buffers per camera (§5). The pyramid blender allocates its own per-level
// planes and does not draw from a Pool.
package bufpool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ausocean/stitch360/geom"
)

// Pool hands out *geom.Frame buffers of a fixed format and size, up to a
// configured capacity. Acquire blocks when the pool is exhausted until a
// buffer is released back or the caller's context is done. The free list
// is mutex-protected; availability is signaled through a buffered
// channel so Acquire can select on ctx.Done() instead of an
// uninterruptible sync.Cond wait.
type Pool struct {
	mu sync.Mutex

	format        geom.Format
	width, height int
	yStride       int
	uvStride      int

	free  []*geom.Frame
	avail chan struct{}
	out   int32
	cap   int
}

// New creates a Pool of the given capacity, pre-allocating cap buffers of
// the given format and size.
func New(cap int, format geom.Format, width, height int) *Pool {
	p := &Pool{format: format, width: width, height: height, cap: cap}
	p.yStride = width
	p.uvStride = width
	p.avail = make(chan struct{}, cap)
	for i := 0; i < cap; i++ {
		p.free = append(p.free, p.newFrame())
		p.avail <- struct{}{}
	}
	return p
}

func (p *Pool) newFrame() *geom.Frame {
	f := &geom.Frame{
		Format:   p.format,
		Width:    p.width,
		Height:   p.height,
		YStride:  p.yStride,
		Y:        make([]uint8, p.yStride*p.height),
		UVStride: p.uvStride,
	}
	ch := (p.height + 1) / 2
	if p.format == geom.NV12 {
		f.UV = make([]uint8, p.uvStride*ch)
	} else {
		cw := (p.width + 1) / 2
		f.UStride, f.VStride = cw, cw
		f.U = make([]uint8, cw*ch)
		f.V = make([]uint8, cw*ch)
	}
	return f
}

// Acquire blocks until a buffer is available or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (*geom.Frame, error) {
	select {
	case <-p.avail:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.mu.Lock()
	f := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.mu.Unlock()
	atomic.AddInt32(&p.out, 1)
	return f, nil
}

// Release returns a buffer to the pool, unblocking one waiting Acquire.
func (p *Pool) Release(f *geom.Frame) {
	p.mu.Lock()
	p.free = append(p.free, f)
	p.mu.Unlock()
	atomic.AddInt32(&p.out, -1)
	p.avail <- struct{}{}
}

// InUse reports how many buffers are currently checked out, for
// diagnostics.
func (p *Pool) InUse() int {
	return int(atomic.LoadInt32(&p.out))
}

// Cap returns the pool's fixed capacity.
func (p *Pool) Cap() int { return p.cap }
