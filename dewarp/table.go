/*
DESCRIPTION
  table.go defines the dense dewarp lookup table shared by both the sphere
  and bowl projection generators (§3, §4.B): a tbl_w x tbl_h array of
  (xf, yf) fisheye-source coordinates, sampled at MapFactorX x MapFactorY
  output-pixel spacing.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dewarp precomputes, per camera, a dense pixel-to-pixel lookup
// from output panorama coordinates back to input fisheye coordinates,
// for either a spherical equirectangular projection or a 3-D bowl
// ground/wall projection (§4.B).
package dewarp

import "github.com/ausocean/stitch360/geom"

// MapFactorX and MapFactorY are the table's sampling spacing in output
// pixels: one table cell covers a MapFactorX x MapFactorY output block.
const (
	MapFactorX = 16
	MapFactorY = 16
)

// Table is a dense tbl_w x tbl_h array of (xf, yf) fisheye-source
// coordinates.
type Table struct {
	Width, Height int
	Data          []geom.F32Pair
}

// NewTable allocates a table sized for an output of outW x outH pixels.
func NewTable(outW, outH int) *Table {
	w := (outW + MapFactorX - 1) / MapFactorX
	h := (outH + MapFactorY - 1) / MapFactorY
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	return &Table{Width: w, Height: h, Data: make([]geom.F32Pair, w*h)}
}

// View returns a read view over the table suitable for bilinear sampling.
func (t *Table) View() geom.View[geom.F32Pair] {
	return geom.New(t.Data, t.Width, t.Height, t.Width)
}

// Generator produces a dewarp table for one camera.
type Generator interface {
	GenTable(t *Table)
}
