/*
DESCRIPTION
  sphere.go generates an equirectangular dewarp table: for each table cell,
  a GPS-style polar coordinate is projected onto the unit sphere, then back
  onto the fisheye disc via the equidistant fisheye model, then rolled and
  re-centered onto the source image (§4.B sphere variant).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dewarp

import (
	"math"

	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/geom"
)

// Sphere generates an equirectangular dewarp table for one fisheye camera.
type Sphere struct {
	Info cam.Info

	// DstLongitude and DstLatitude are the destination angular range of the
	// table in degrees (§4.B step 1).
	DstLongitude, DstLatitude float64
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

// GenTable fills t per §4.B's sphere algorithm.
func (s *Sphere) GenTable(t *Table) {
	tblW, tblH := float64(t.Width), float64(t.Height)

	fov := degToRad(s.Info.Intrinsic.Fov)
	roll := degToRad(s.Info.Extrinsic.Roll)

	rx := degToRad(s.DstLongitude / tblW)
	ry := degToRad(s.DstLatitude / tblH)

	cx, cy := s.Info.Intrinsic.Cx, s.Info.Intrinsic.Cy
	radius := s.Info.Radius
	minX, minY := cx-radius, cy-radius
	maxX, maxY := cx+radius, cy+radius

	halfPi := math.Pi / 2
	doubleRadius := radius * 2

	cosRoll, sinRoll := math.Cos(roll), math.Sin(roll)

	for row := 0; row < t.Height; row++ {
		for col := 0; col < t.Width; col++ {
			gx := (float64(col)-tblW/2)*rx + halfPi
			gy := (float64(row)-tblH/2)*ry + halfPi

			z := math.Cos(gy)
			x := math.Sin(gy) * math.Cos(gx)
			y := math.Sin(gy) * math.Sin(gx)

			rAngle := math.Acos(y)
			r := rAngle * doubleRadius / fov
			xzSize := math.Sqrt(x*x + z*z)

			var dx, dy float64
			if xzSize != 0 {
				dx = -r * x / xzSize
				dy = -r * z / xzSize
			}

			px := cosRoll*dx - sinRoll*dy
			py := sinRoll*dx + cosRoll*dy
			px += cx
			py += cy

			px = clampF(px, minX, maxX)
			py = clampF(py, minY, maxY)

			t.Data[row*t.Width+col] = geom.F32Pair{X: float32(px), Y: float32(py)}
		}
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
