/*
DESCRIPTION
  blender.go implements the per-overlap Laplacian pyramid blender (§4.E):
  it builds Gaussian pyramids of both input tiles' overlap rectangles,
  derives Laplacians, blends the pyramid top and every Laplacian level
  with the seam mask, and reconstructs the blended overlap into the
  output frame.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package blend implements the multi-level Gaussian/Laplacian pyramid
// blender that merges the overlap region of two adjacent remapped camera
// tiles along a 1-D seam mask (§4.E).
package blend

import (
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/xerror"
)

// MaxLevels is the largest supported pyramid level count (§3).
const MaxLevels = 4

// Blender blends one overlap pair across Levels pyramid levels.
type Blender struct {
	Levels int
}

// New returns a Blender with the given level count, clamped to [1, MaxLevels].
func New(levels int) *Blender {
	if levels < 1 {
		levels = 1
	}
	if levels > MaxLevels {
		levels = MaxLevels
	}
	return &Blender{Levels: levels}
}

func cropPlaneU8(v geom.View[uint8], r geom.Rect) plane {
	p := newPlane(r.Width, r.Height)
	row := make([]uint8, r.Width)
	for y := 0; y < r.Height; y++ {
		v.ReadArray(r.X, r.Y+y, row)
		for x, b := range row {
			p.data[y*r.Width+x] = float64(b)
		}
	}
	return p
}

func writePlaneU8(v geom.View[uint8], r geom.Rect, p plane) {
	row := make([]uint8, r.Width)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			row[x] = roundSatU8(p.at(x, y))
		}
		v.WriteArray(r.X, r.Y+y, row)
	}
}

// maskPlaneFromRow builds a 2-D plane by broadcasting a 1-D row mask down every
// row; the pyramid treats it as an ordinary plane so it downscales with
// the same separable gauss kernel as the image data.
func maskPlaneFromRow(row []float64, height int) plane {
	p := newPlane(len(row), height)
	for y := 0; y < height; y++ {
		copy(p.data[y*len(row):(y+1)*len(row)], row)
	}
	return p
}

// buildGaussPyramid produces the Gaussian pyramid [0..L-1] for one side, level 0
// being the original-resolution plane.
func buildGaussPyramid(base plane, levels int) []plane {
	pyr := make([]plane, levels)
	pyr[0] = base
	for l := 1; l < levels; l++ {
		pyr[l] = gaussDown(pyr[l-1])
	}
	return pyr
}

// buildLaplacians derives levels [0..L-2]; level l is gauss[l] minus the
// upsampled gauss[l+1].
func buildLaplacians(gauss []plane) []plane {
	levels := len(gauss)
	lap := make([]plane, levels-1)
	for l := 0; l < levels-1; l++ {
		up := gaussUp(gauss[l+1], gauss[l].w, gauss[l].h)
		d := newPlane(gauss[l].w, gauss[l].h)
		for i := range d.data {
			d.data[i] = gauss[l].data[i] - up.data[i]
		}
		lap[l] = d
	}
	return lap
}

// blendChannel performs the full pyramid blend for one image channel
// (luma or a chroma component), returning the reconstructed level-0 plane.
func blendChannel(a, b plane, maskRow []float64, levels int) plane {
	ga := buildGaussPyramid(a, levels)
	gb := buildGaussPyramid(b, levels)
	lapA := buildLaplacians(ga)
	lapB := buildLaplacians(gb)

	maskPyr := make([][]float64, levels)
	maskPyr[0] = maskRow
	for l := 1; l < levels; l++ {
		maskPyr[l] = downscaleMask(maskPyr[l-1])
	}

	top := levels - 1
	mTop := maskPlaneFromRow(maskPyr[top], ga[top].h)
	recon := newPlane(ga[top].w, ga[top].h)
	for i := range recon.data {
		recon.data[i] = (ga[top].data[i]-gb[top].data[i])*mTop.data[i]/255 + gb[top].data[i]
	}

	for l := levels - 2; l >= 0; l-- {
		up := gaussUp(recon, lapA[l].w, lapA[l].h)
		mLevel := maskPlaneFromRow(maskPyr[l], lapA[l].h)
		next := newPlane(lapA[l].w, lapA[l].h)
		for i := range next.data {
			blendedLap := (lapA[l].data[i]-lapB[l].data[i])*mLevel.data[i]/255 + lapB[l].data[i]
			next.data[i] = up.data[i] + blendedLap
		}
		recon = next
	}
	return recon
}

// Blend merges in0's overlapRect0 and in1's overlapRect1 into out's
// outArea, driven by a seam mask built fresh for overlapRect0's width
// (§4.E). All three rectangles must share the same size.
func (bl *Blender) Blend(in0, in1, out *geom.Frame, overlapIn0, overlapIn1, outArea geom.Rect) error {
	if overlapIn0.Width != overlapIn1.Width || overlapIn0.Height != overlapIn1.Height ||
		overlapIn0.Width != outArea.Width || overlapIn0.Height != outArea.Height {
		return xerror.New(xerror.Param, "blend", errStr("overlap rectangles must share the same size"))
	}
	if overlapIn0.Empty() {
		return xerror.New(xerror.Param, "blend", errStr("overlap rectangle is empty"))
	}

	lumaMask := maskRowF64(NewSeamMask(overlapIn0.Width))

	lumaA := cropPlaneU8(in0.LumaView(), overlapIn0)
	lumaB := cropPlaneU8(in1.LumaView(), overlapIn1)
	lumaOut := blendChannel(lumaA, lumaB, lumaMask, bl.Levels)
	writePlaneU8(out.LumaView(), outArea, lumaOut)

	chromaMask := subsampleMaskEven(lumaMask)
	chromaOverlap0 := chromaRect(overlapIn0)
	chromaOverlap1 := chromaRect(overlapIn1)
	chromaOutArea := chromaRect(outArea)

	uA := cropPlaneU8(in0.ChromaU(), chromaOverlap0)
	uB := cropPlaneU8(in1.ChromaU(), chromaOverlap1)
	uOut := blendChannel(uA, uB, chromaMask, bl.Levels)
	writePlaneU8(out.ChromaU(), chromaOutArea, uOut)

	vA := cropPlaneU8(in0.ChromaV(), chromaOverlap0)
	vB := cropPlaneU8(in1.ChromaV(), chromaOverlap1)
	vOut := blendChannel(vA, vB, chromaMask, bl.Levels)
	writePlaneU8(out.ChromaV(), chromaOutArea, vOut)

	return nil
}

func chromaRect(r geom.Rect) geom.Rect {
	return geom.Rect{X: r.X / 2, Y: r.Y / 2, Width: (r.Width + 1) / 2, Height: (r.Height + 1) / 2}
}

func maskRowF64(mask []uint8) []float64 {
	row := make([]float64, len(mask))
	for i, v := range mask {
		row[i] = float64(v)
	}
	return row
}

// subsampleMaskEven takes every second mask sample (the even-index
// reading of the source's ambiguous chroma subsampling, per the
// recommended resolution of the mask open question).
func subsampleMaskEven(mask []float64) []float64 {
	n := (len(mask) + 1) / 2
	out := make([]float64, n)
	for i := range out {
		idx := 2 * i
		if idx >= len(mask) {
			idx = len(mask) - 1
		}
		out[i] = mask[idx]
	}
	return out
}

type errStr string

func (e errStr) Error() string { return string(e) }
