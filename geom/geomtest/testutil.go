// Package geomtest builds synthetic NV12 frames for tests across the
// stitcher's packages. It is not part of the public pipeline API.
package geomtest

import "github.com/ausocean/stitch360/geom"

// NewNV12 builds an NV12 Frame with tight strides (no padding), filling
// luma and chroma from the supplied functions. It is a test helper shared
// across packages that exercise the stitching pipeline on synthetic
// frames.
func NewNV12(width, height int, luma func(x, y int) uint8, chroma func(cx, cy int) (u, v uint8)) *geom.Frame {
	f := &geom.Frame{
		Format:   geom.NV12,
		Width:    width,
		Height:   height,
		YStride:  width,
		Y:        make([]uint8, width*height),
		UVStride: width, // interleaved U,V at half resolution: width bytes per row.
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Y[y*width+x] = luma(x, y)
		}
	}

	cw, ch := f.ChromaWidth(), f.ChromaHeight()
	f.UV = make([]uint8, f.UVStride*ch)
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			u, v := chroma(x, y)
			f.UV[y*f.UVStride+2*x] = u
			f.UV[y*f.UVStride+2*x+1] = v
		}
	}
	return f
}

// NewBlankNV12 builds a zero-filled NV12 frame of the given size.
func NewBlankNV12(width, height int) *geom.Frame {
	return NewNV12(width, height, func(int, int) uint8 { return 0 }, func(int, int) (uint8, uint8) { return 0, 0 })
}
