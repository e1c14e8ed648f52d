package blend

import (
	"testing"

	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/geom/geomtest"
)

func gradientLuma(x, y int) uint8         { return uint8((x*3 + y*7) % 256) }
func otherLuma(x, y int) uint8            { return uint8((x*5 + y*11 + 40) % 256) }
func fixedChroma(int, int) (uint8, uint8) { return 140, 90 }

func rectOf(x, y, w, h int) geom.Rect { return geom.Rect{X: x, Y: y, Width: w, Height: h} }

// TestBlendMaskAllWhiteReturnsA blends with a constant-255 mask row and
// checks the output reproduces side A exactly (§8 invariant I3).
func TestBlendMaskAllWhiteReturnsA(t *testing.T) {
	const w, h = 32, 16
	a := geomtest.NewNV12(w, h, gradientLuma, fixedChroma)
	b := geomtest.NewNV12(w, h, otherLuma, fixedChroma)
	rect := rectOf(0, 0, w, h)

	bl := New(3)
	row := make([]float64, w)
	for i := range row {
		row[i] = 255
	}

	lumaA := cropPlaneU8(a.LumaView(), rect)
	lumaB := cropPlaneU8(b.LumaView(), rect)
	got := blendChannel(lumaA, lumaB, row, bl.Levels)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := float64(gradientLuma(x, y))
			if diff := got.at(x, y) - want; diff > 1e-6 || diff < -1e-6 {
				t.Fatalf("pixel (%d,%d): got %v, want %v (mask=255 must reproduce A)", x, y, got.at(x, y), want)
			}
		}
	}
}

func TestBlendMaskAllBlackReturnsB(t *testing.T) {
	const w, h = 32, 16
	a := geomtest.NewNV12(w, h, gradientLuma, fixedChroma)
	b := geomtest.NewNV12(w, h, otherLuma, fixedChroma)
	rect := rectOf(0, 0, w, h)

	bl := New(2)
	row := make([]float64, w) // zero-valued row == mask everywhere 0

	lumaA := cropPlaneU8(a.LumaView(), rect)
	lumaB := cropPlaneU8(b.LumaView(), rect)
	got := blendChannel(lumaA, lumaB, row, bl.Levels)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := float64(otherLuma(x, y))
			if diff := got.at(x, y) - want; diff > 1e-6 || diff < -1e-6 {
				t.Fatalf("pixel (%d,%d): got %v, want %v (mask=0 must reproduce B)", x, y, got.at(x, y), want)
			}
		}
	}
}

func TestBlendIdenticalInputsReturnsA(t *testing.T) {
	const w, h = 24, 24
	a := geomtest.NewNV12(w, h, gradientLuma, fixedChroma)
	rect := rectOf(0, 0, w, h)

	bl := New(3)
	mask := NewSeamMask(w)
	rowF := make([]float64, w)
	for i, v := range mask {
		rowF[i] = float64(v)
	}

	lumaA := cropPlaneU8(a.LumaView(), rect)
	lumaB := cropPlaneU8(a.LumaView(), rect)
	got := blendChannel(lumaA, lumaB, rowF, bl.Levels)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := float64(gradientLuma(x, y))
			if diff := got.at(x, y) - want; diff > 1e-6 || diff < -1e-6 {
				t.Fatalf("pixel (%d,%d): got %v, want %v (A==B must reproduce A)", x, y, got.at(x, y), want)
			}
		}
	}
}

func TestBlendFullPipelineWritesOutput(t *testing.T) {
	const w, h = 32, 16
	a := geomtest.NewNV12(w, h, gradientLuma, fixedChroma)
	b := geomtest.NewNV12(w, h, otherLuma, fixedChroma)
	out := geomtest.NewBlankNV12(w, h)

	bl := New(2)
	rect := rectOf(0, 0, w, h)
	if err := bl.Blend(a, b, out, rect, rect, rect); err != nil {
		t.Fatalf("Blend: %v", err)
	}

	leftmost := out.LumaView().At(0, 0)
	if leftmost != gradientLuma(0, 0) {
		t.Fatalf("leftmost blended pixel = %d, want %d (seam mask saturates to A on the left edge)", leftmost, gradientLuma(0, 0))
	}
	rightmost := out.LumaView().At(w-1, 0)
	if rightmost != otherLuma(w-1, 0) {
		t.Fatalf("rightmost blended pixel = %d, want %d (seam mask saturates to B on the right edge)", rightmost, otherLuma(w-1, 0))
	}
}

func TestBlendRejectsMismatchedRects(t *testing.T) {
	const w, h = 16, 16
	a := geomtest.NewNV12(w, h, gradientLuma, fixedChroma)
	b := geomtest.NewNV12(w, h, otherLuma, fixedChroma)
	out := geomtest.NewBlankNV12(w, h)

	bl := New(1)
	good := rectOf(0, 0, w, h)
	bad := rectOf(0, 0, w/2, h)
	if err := bl.Blend(a, b, out, good, bad, good); err == nil {
		t.Fatal("expected Param error for mismatched overlap rectangles")
	}
}
