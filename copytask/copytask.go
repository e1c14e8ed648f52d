/*
DESCRIPTION
  copytask.go copies a non-overlap rectangle from a remapped camera tile
  into the output panorama frame, the last step of each camera's
  contribution to a frame (§4.F).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package copytask copies a remapped tile's non-overlap region directly
// into the panorama, with no blending (§4.F).
package copytask

import (
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/xerror"
)

// Area is a non-overlap copy region: in_area of in_idx's remapped tile
// maps to out_area of the panorama. Both rectangles share the same size.
type Area struct {
	InIdx   int
	InArea  geom.Rect
	OutArea geom.Rect
}

// Copy copies in_area's luma and half-resolution chroma from tile into
// out's out_area, byte for byte (§4.F, invariant I4).
func Copy(tile, out *geom.Frame, inArea, outArea geom.Rect) error {
	if inArea.Width != outArea.Width || inArea.Height != outArea.Height {
		return xerror.New(xerror.Param, "copytask", errStr("in_area and out_area must share the same size"))
	}
	if inArea.Empty() {
		return xerror.New(xerror.Param, "copytask", errStr("copy area is empty"))
	}

	copyPlane(tile.LumaView(), out.LumaView(), inArea, outArea)

	cin := chromaRect(inArea)
	cout := chromaRect(outArea)
	copyPlane(tile.ChromaU(), out.ChromaU(), cin, cout)
	copyPlane(tile.ChromaV(), out.ChromaV(), cin, cout)

	return nil
}

func chromaRect(r geom.Rect) geom.Rect {
	return geom.Rect{X: r.X / 2, Y: r.Y / 2, Width: (r.Width + 1) / 2, Height: (r.Height + 1) / 2}
}

func copyPlane(src, dst geom.View[uint8], in, out geom.Rect) {
	row := make([]uint8, in.Width)
	for y := 0; y < in.Height; y++ {
		src.ReadArray(in.X, in.Y+y, row)
		dst.WriteArray(out.X, out.Y+y, row)
	}
}

// WidenForMergeWidth widens a camera's overlap-adjacent copy area outward
// by (overlapLeftWidth - mergeWidth) / 2, aligned up to 8 pixels, so that
// the blender only ever sees a narrower seam (§4.F). mergeWidth <= 0
// disables trimming and returns area unchanged.
func WidenForMergeWidth(area geom.Rect, overlapLeftWidth, mergeWidth int, towardLeft bool) geom.Rect {
	if mergeWidth <= 0 || mergeWidth >= overlapLeftWidth {
		return area
	}
	widen := geom.AlignUp((overlapLeftWidth-mergeWidth)/2, 8)
	if towardLeft {
		return geom.Rect{X: area.X - widen, Y: area.Y, Width: area.Width + widen, Height: area.Height}
	}
	return geom.Rect{X: area.X, Y: area.Y, Width: area.Width + widen, Height: area.Height}
}

type errStr string

func (e errStr) Error() string { return string(e) }
