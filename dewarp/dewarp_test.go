package dewarp

import (
	"math"
	"testing"

	"github.com/ausocean/stitch360/cam"
)

func TestSphereGenTableStaysInsideDisc(t *testing.T) {
	info := cam.Info{Radius: 480}
	info.Intrinsic.Cx = 480
	info.Intrinsic.Cy = 480
	info.Intrinsic.Fov = 202.8

	s := &Sphere{Info: info, DstLongitude: 202.8, DstLatitude: 90}
	tbl := NewTable(960, 480)
	s.GenTable(tbl)

	for i, p := range tbl.Data {
		if p.X < 0 || p.X > 960 || p.Y < 0 || p.Y > 960 {
			t.Fatalf("table entry %d = %+v escaped the fisheye disc bounding box", i, p)
		}
	}
}

func TestBowlGenTableIdentityExtrinsicStaysFinite(t *testing.T) {
	info := cam.Info{Radius: 1984}
	info.Intrinsic.Cx = 1920
	info.Intrinsic.Cy = 1440
	info.Intrinsic.PolyLength = 4
	info.Intrinsic.PolyCoeff = [cam.MaxPolyCoeff]float64{1984, 0, -0.0003, 0}
	info.Intrinsic.C = 1
	info.Intrinsic.E = 0

	cfg := cam.BowlConfig{
		A: 6060, B: 4388, C: 3003.4,
		AngleStart: 0, AngleEnd: 360,
		CenterZ: 1500, WallHeight: 1800, GroundLength: 3000,
	}

	b := &Bowl{Info: info, Config: cfg, OutWidth: 1920, OutHeight: 640}
	tbl := NewTable(1920, 640)
	b.GenTable(tbl)

	for i, p := range tbl.Data {
		if math.IsNaN(float64(p.X)) || math.IsNaN(float64(p.Y)) || math.IsInf(float64(p.X), 0) || math.IsInf(float64(p.Y), 0) {
			t.Fatalf("table entry %d = %+v is not finite", i, p)
		}
	}
}
