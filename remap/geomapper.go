/*
DESCRIPTION
  geomapper.go implements the geometric remapper (§4.C): it consumes a
  dewarp lookup table plus a per-camera left/right scale factor and emits a
  remapped output tile with bilinear sampling. On first use after any
  change to the table, factors, std_area, std_output_size or
  extended_offset, it rebuilds a dense per-output-pixel forward map; every
  Remap call after that only resamples the input frame through the cached
  map.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package remap applies a dewarp lookup table to an input frame with
// bilinear interpolation, under a dynamic per-half scale factor that the
// feature matcher updates between frames (§4.C).
package remap

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stitch360/dewarp"
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/xerror"
)

// GeoMapper is the per-camera geometric remapper.
type GeoMapper struct {
	Log logging.Logger

	table *dewarp.Table

	stdOutputSize geom.Rect // The natural remap output tile size.
	stdArea       geom.Rect // Sub-rectangle of stdOutputSize that feeds downstream.
	outputSize    geom.Rect // Actual output frame size (usually the panorama).
	extOffset     int       // X-offset at which stdArea is placed in outputSize.

	leftFactor  geom.F32Pair
	rightFactor geom.F32Pair

	dirty    bool
	denseMap []geom.F32Pair // len == stdArea.Width*stdArea.Height
}

// New returns a GeoMapper with unit scale factors.
func New(log logging.Logger) *GeoMapper {
	return &GeoMapper{
		Log:         log,
		leftFactor:  geom.F32Pair{X: 1, Y: 1},
		rightFactor: geom.F32Pair{X: 1, Y: 1},
		dirty:       true,
	}
}

func (g *GeoMapper) SetTable(t *dewarp.Table) {
	g.table = t
	g.dirty = true
}

func (g *GeoMapper) SetStdOutputSize(r geom.Rect) {
	g.stdOutputSize = r
	g.dirty = true
}

func (g *GeoMapper) SetStdArea(r geom.Rect) {
	g.stdArea = r
	g.dirty = true
}

func (g *GeoMapper) SetOutputSize(r geom.Rect) {
	g.outputSize = r
	g.dirty = true
}

func (g *GeoMapper) SetExtendedOffset(off int) {
	g.extOffset = off
	g.dirty = true
}

// SetFactors sets the left/right scale factors. Values outside (0,2) are
// logged but not rejected, per §4.C.
func (g *GeoMapper) SetFactors(left, right geom.F32Pair) {
	for _, f := range []geom.F32Pair{left, right} {
		if f.X <= 0 || f.X >= 2 || f.Y <= 0 || f.Y >= 2 {
			if g.Log != nil {
				g.Log.Warning("geomapper: scale factor outside expected (0,2) range", "factor", f)
			}
		}
	}
	g.leftFactor, g.rightFactor = left, right
	g.dirty = true
}

func (g *GeoMapper) validate() error {
	if g.table == nil || len(g.table.Data) == 0 {
		return xerror.New(xerror.Param, "remap", errStr("lookup table is empty"))
	}
	if g.stdOutputSize.Empty() || g.outputSize.Empty() {
		return xerror.New(xerror.Param, "remap", errStr("std_output_size or output_size is zero"))
	}
	if g.leftFactor.X == 0 || g.leftFactor.Y == 0 || g.rightFactor.X == 0 || g.rightFactor.Y == 0 {
		return xerror.New(xerror.Param, "remap", errStr("scale factor is zero"))
	}
	return nil
}

type errStr string

func (e errStr) Error() string { return string(e) }

// rebuild recomputes the dense forward map from stdArea output pixels to
// input fisheye coordinates, incorporating the current left/right factors.
func (g *GeoMapper) rebuild() {
	w, h := g.stdArea.Width, g.stdArea.Height
	if cap(g.denseMap) < w*h {
		g.denseMap = make([]geom.F32Pair, w*h)
	} else {
		g.denseMap = g.denseMap[:w*h]
	}

	tblView := g.table.View()
	halfWidth := w / 2

	for y := 0; y < h; y++ {
		outY := g.stdArea.Y + y
		tj := float32(outY) / dewarp.MapFactorY
		for x := 0; x < w; x++ {
			outX := g.stdArea.X + x
			ti := float32(outX) / dewarp.MapFactorX

			lookup := geom.BilinearF32Pair(tblView, ti, tj)

			factor := g.rightFactor
			if x < halfWidth {
				factor = g.leftFactor
			}

			g.denseMap[y*w+x] = geom.F32Pair{X: lookup.X / factor.X, Y: lookup.Y / factor.Y}
		}
	}
	g.dirty = false
}

// Remap samples in through the current dewarp table and scale factors,
// writing the result into out at (extOffset + x, y) for x,y in stdArea.
func (g *GeoMapper) Remap(in, out *geom.Frame) error {
	if err := g.validate(); err != nil {
		return err
	}
	if g.dirty {
		g.rebuild()
	}

	inY := in.LumaView()
	outY := out.LumaView()

	w, h := g.stdArea.Width, g.stdArea.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := g.denseMap[y*w+x]
			val := geom.BilinearU8(inY, m.X, m.Y)
			outY.Set(g.extOffset+x, y, val)
		}
	}

	cw, ch := (w+1)/2, (h+1)/2
	inU, inV := in.ChromaU(), in.ChromaV()
	outU, outV := out.ChromaU(), out.ChromaV()
	chromaOff := g.extOffset / 2
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			m := g.denseMap[(2*y)*w+min(2*x, w-1)]
			sx, sy := m.X/2, m.Y/2
			outU.Set(chromaOff+x, y, geom.BilinearU8(inU, sx, sy))
			outV.Set(chromaOff+x, y, geom.BilinearU8(inV, sx, sy))
		}
	}

	return nil
}
