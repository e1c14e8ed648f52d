package featurematch

import (
	"math"
	"testing"

	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/geom/geomtest"
)

func testConfig() Config {
	return Config{
		StitchMinWidth:    16,
		MinCorners:        4,
		OffsetFactor:      1.0,
		DeltaMeanOffset:   1000,
		RecurOffsetError:  1000,
		MaxAdjustedOffset: 1000,
		MaxValidOffsetY:   8,
		MaxTrackError:     28,
	}
}

func rect(x, y, w, h int) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

// checkerPattern is a strong checkerboard so GoodFeaturesToTrack reliably
// finds corners at the checker junctions, shifted by (dx, dy) and clamped
// at the origin so the shift doesn't wrap.
func checkerPattern(dx, dy int) func(x, y int) uint8 {
	return func(x, y int) uint8 {
		xs, ys := x-dx, y-dy
		if xs < 0 {
			xs = 0
		}
		if ys < 0 {
			ys = 0
		}
		if ((xs/8)+(ys/8))%2 == 0 {
			return 220
		}
		return 20
	}
}

func midGrayChroma(int, int) (uint8, uint8) { return 128, 128 }

func TestMatcherDriftRejection(t *testing.T) {
	left := geomtest.NewNV12(64, 64, checkerPattern(0, 0), midGrayChroma)
	right := geomtest.NewNV12(64, 64, checkerPattern(20, 20), midGrayChroma)

	m := New(testConfig(), nil)
	crop := rect(0, 0, 64, 64)
	centers := Centers{CenterLeft: 0, CenterRight: 128, OverlapCenter: 64}

	res, err := m.Match(0, left, right, crop, crop, centers)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Updated {
		t.Fatalf("expected no factor update on drift rejection, got Updated=true, retained=%d", res.Retained)
	}
	if res.Retained != 0 {
		t.Fatalf("expected 0 retained correspondences, got %d", res.Retained)
	}
}

func TestMatcherConvergence(t *testing.T) {
	left := geomtest.NewNV12(64, 64, checkerPattern(0, 0), midGrayChroma)
	right := geomtest.NewNV12(64, 64, checkerPattern(4, 0), midGrayChroma)

	m := New(testConfig(), nil)
	crop := rect(0, 0, 64, 64)

	const cL, cR = 0.0, 128.0
	const fc = 64.0
	centers := Centers{CenterLeft: cL, CenterRight: cR, OverlapCenter: fc}

	res, err := m.Match(0, left, right, crop, crop, centers)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !res.Updated {
		t.Fatalf("expected factor update on convergent tracking, retained=%d", res.Retained)
	}

	if math.Abs(float64(res.RightFactor.X-1)) >= 0.05 {
		t.Fatalf("right_factor.x = %v, want within 0.05 of 1", res.RightFactor.X)
	}
}
