/*
DESCRIPTION
  layout.go computes the panorama layout derived from each camera's
  configured viewpoint range: per-camera round-view slices, their
  pairwise overlaps, and the non-overlap copy areas left over after
  overlaps are removed (§4.G steps 1-4).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stitcher

import (
	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/copytask"
	"github.com/ausocean/stitch360/geom"
)

// sliceLayout is one camera's panorama geometry. Camera 0 straddles the
// panorama's x=0/x=W seam (its center is pinned to pixel 0), so its
// content is described as two pieces; every other camera occupies a
// single contiguous span.
type sliceLayout struct {
	slice cam.RoundSlice

	// centerX is the camera's nominal panorama pixel center, before the
	// seam wrap is applied for camera 0.
	centerX    int
	halfWidth  int
	rightEdge  int // centerX + halfWidth; always a position within [0, W].
	wraps      bool
	leftPieceX int // valid only when wraps: W - halfWidth.
}

// estimateRoundSlices distributes the configured viewpoint ranges evenly
// around the panorama: camera i's nominal center is i*W/N, and its slice
// width is its own range proportion of W, aligned to 8 (§4.G step 1).
func estimateRoundSlices(ranges []float32, outW, outH int) []sliceLayout {
	n := len(ranges)
	out := make([]sliceLayout, n)
	for i, r := range ranges {
		width := geom.AlignUp(int(float64(r)/360*float64(outW)+0.5), 8)
		centerX := i * outW / n
		half := width / 2

		s := sliceLayout{
			slice: cam.RoundSlice{
				Width:          width,
				Height:         outH,
				HoriAngleStart: float64(i)*360/float64(n) - float64(r)/2,
				HoriAngleRange: float64(r),
			},
			centerX:   centerX,
			halfWidth: half,
			rightEdge: centerX + half,
		}
		if i == 0 {
			s.wraps = true
			s.leftPieceX = outW - half
		}
		out[i] = s
	}
	return out
}

// leftEdgeAsNeighbor returns the pixel position at which camera i's slice
// begins, from the perspective of its left neighbor's overlap: camera 0's
// wrapped left piece starts near the panorama's right edge rather than at
// a negative coordinate.
func (s sliceLayout) leftEdgeAsNeighbor() int {
	if s.wraps {
		return s.leftPieceX
	}
	return s.centerX - s.halfWidth
}

// overlapInfo is one pair's overlap rectangle: since every camera's
// remapped tile is panorama-sized, the overlap occupies the same
// panorama rectangle in both tiles and in the output (§3, §4.E).
type overlapInfo struct {
	camI, camJ int // camJ = (camI+1) mod N.
	rect       geom.Rect
}

// estimateOverlap derives each adjacent pair's overlap rectangle from the
// slices' edges (§4.G step 3). A pair with non-positive width (slices
// that do not actually touch) is omitted.
func estimateOverlap(slices []sliceLayout, outH int) []overlapInfo {
	n := len(slices)
	if n < 2 {
		return nil
	}
	var out []overlapInfo
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		start := slices[j].leftEdgeAsNeighbor()
		end := slices[i].rightEdge
		width := end - start
		if width <= 0 {
			continue
		}
		rect := geom.AlignRect(geom.Rect{X: start, Y: 0, Width: width, Height: outH}, 8, 4)
		out = append(out, overlapInfo{camI: i, camJ: j, rect: rect})
	}
	return out
}

// pieceLayout is one contiguous panorama span a camera's GeoMapper
// writes into: a std_area rectangle in the camera's own local slice
// coordinates, placed at extendedOffset in the shared panorama buffer.
type pieceLayout struct {
	stdArea       geom.Rect // Local to the camera's own table/slice.
	extendedOffset int
}

// cameraPieces splits a camera's slice into the GeoMapper invocations
// needed to place its content into the panorama-sized tile buffer.
// Every camera except camera 0 needs exactly one; camera 0's wrap needs
// two (§4.G step 5).
func cameraPieces(s sliceLayout, outH int) []pieceLayout {
	if !s.wraps {
		return []pieceLayout{{
			stdArea:        geom.Rect{X: 0, Y: 0, Width: s.slice.Width, Height: outH},
			extendedOffset: s.centerX - s.halfWidth,
		}}
	}

	leftWidth := s.halfWidth                // the piece placed at leftPieceX.
	rightWidth := s.slice.Width - leftWidth // the piece placed at panorama pixel 0.
	return []pieceLayout{
		{
			stdArea:        geom.Rect{X: leftWidth, Y: 0, Width: rightWidth, Height: outH},
			extendedOffset: 0,
		},
		{
			stdArea:        geom.Rect{X: 0, Y: 0, Width: leftWidth, Height: outH},
			extendedOffset: s.leftPieceX,
		},
	}
}

// copyAreaPlan is a non-overlap copy region plus the width of whichever
// overlap trimmed each of its edges (0 when that edge is a piece
// boundary rather than an overlap seam), so the caller can apply §4.F's
// merge-width widening with the right reference width.
type copyAreaPlan struct {
	area          copytask.Area
	leftOverlapW  int
	rightOverlapW int
}

// updateCopyAreas produces the non-overlap copy regions for camera i,
// given its panorama pieces and the overlap rectangles that touch it
// (§4.G step 4, invariant I4).
func updateCopyAreas(camIdx int, pieces []pieceLayout, overlaps []overlapInfo, outH int) []copyAreaPlan {
	var plans []copyAreaPlan
	for _, p := range pieces {
		panoStart := p.extendedOffset
		panoEnd := p.extendedOffset + p.stdArea.Width

		trimStart, trimEnd := panoStart, panoEnd
		leftOverlapW, rightOverlapW := 0, 0
		for _, ov := range overlaps {
			if ov.camI != camIdx && ov.camJ != camIdx {
				continue
			}
			ovStart, ovEnd := ov.rect.X, ov.rect.Right()
			if ovStart <= trimStart && ovEnd > trimStart {
				trimStart = ovEnd
				leftOverlapW = ov.rect.Width
			}
			if ovEnd >= trimEnd && ovStart < trimEnd {
				trimEnd = ovStart
				rightOverlapW = ov.rect.Width
			}
		}
		if trimEnd <= trimStart {
			continue
		}

		// The remapped tile is panorama-sized, so the copy reads the tile at
		// the same panorama rectangle it writes in the output.
		width := trimEnd - trimStart
		plans = append(plans, copyAreaPlan{
			area: copytask.Area{
				InIdx:   camIdx,
				InArea:  geom.Rect{X: trimStart, Y: 0, Width: width, Height: outH},
				OutArea: geom.Rect{X: trimStart, Y: 0, Width: width, Height: outH},
			},
			leftOverlapW:  leftOverlapW,
			rightOverlapW: rightOverlapW,
		})
	}
	return plans
}
