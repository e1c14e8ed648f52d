/*
DESCRIPTION
  bowl.go generates a surround-view dewarp table: each output tile pixel is
  placed on the 3-D bowl surface (ellipsoidal wall above a flat ground
  disc), transformed into the camera's local frame by the inverse of its
  rigid extrinsic pose, axis-swapped into the camera's optical convention,
  then projected to the fisheye image plane with a Scaramuzza polynomial
  (§4.B bowl/PolyBowl variant).

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

	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/geom"
)

// Bowl generates a dewarp table for a camera viewing the ellipsoidal bowl
// ground/wall surround-view surface.
type Bowl struct {
	Info   cam.Info
	Config cam.BowlConfig

	// OutWidth, OutHeight is the panorama tile size the table's cells are
	// fractionally addressed into (§4.B bowl step: out_pos scaled from
	// table cell by out_size/table_size).
	OutWidth, OutHeight int
}

type vec3 struct{ X, Y, Z float64 }

// GenTable fills t per §4.B's bowl algorithm.
func (b *Bowl) GenTable(t *Table) {
	scaleW := float64(b.OutWidth) / float64(t.Width)
	scaleH := float64(b.OutHeight) / float64(t.Height)

	invTransform := b.inverseRigidTransform()

	for row := 0; row < t.Height; row++ {
		for col := 0; col < t.Width; col++ {
			outX := float64(col) * scaleW
			outY := float64(row) * scaleH

			world := bowlImageToWorld(b.Config, float64(b.OutWidth), float64(b.OutHeight), outX, outY)
			camWorld := applyInverse(invTransform, world)
			camCoord := worldToCam(camWorld)
			img := polyImageCoord(b.Info.Intrinsic, camCoord)

			t.Data[row*t.Width+col] = geom.F32Pair{X: float32(img.X), Y: float32(img.Y)}
		}
	}
}

// bowlImageToWorld maps a panorama tile pixel to a 3-D point on the bowl:
// the upper fraction of the image (split at wall_height /
// (wall_height+ground_length)) lies on the ellipsoidal wall; the rest
// lies on the flat ground disc outside the wall's base.
func bowlImageToWorld(cfg cam.BowlConfig, outW, outH, x, y float64) vec3 {
	angle := degToRad(cfg.AngleStart + (x/outW)*(cfg.AngleEnd-cfg.AngleStart))
	split := cfg.WallHeight / (cfg.WallHeight + cfg.GroundLength)
	v := y / outH

	var z, radialScale float64
	if v < split {
		frac := v / split
		z = cfg.WallHeight * (1 - frac)
		norm := (z - cfg.CenterZ) / cfg.C
		radialScale = math.Sqrt(math.Max(0, 1-norm*norm))
	} else {
		z = 0
		baseNorm := -cfg.CenterZ / cfg.C
		baseScale := math.Sqrt(math.Max(0, 1-baseNorm*baseNorm))
		frac := (v - split) / (1 - split)
		radialScale = baseScale + frac*(1-baseScale)
	}

	return vec3{
		X: cfg.A * radialScale * math.Cos(angle),
		Y: cfg.B * radialScale * math.Sin(angle),
		Z: z,
	}
}

// inverseRigidTransform builds the camera's forward extrinsic pose as a
// row-major 4x4 homogeneous matrix (rotation Rz*Ry*Rx, matching the
// sphere/combined Euler convention, with the translation in the last
// column) and returns its inverse.
func (b *Bowl) inverseRigidTransform() *mat.Dense {
	roll := degToRad(b.Info.Extrinsic.Roll)
	pitch := degToRad(b.Info.Extrinsic.Pitch)
	yaw := degToRad(b.Info.Extrinsic.Yaw)

	m := mat.NewDense(4, 4, rotationMatrixZYX(roll, pitch, yaw))
	m.Set(0, 3, b.Info.Extrinsic.Tx)
	m.Set(1, 3, b.Info.Extrinsic.Ty)
	m.Set(2, 3, b.Info.Extrinsic.Tz)

	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		// A non-invertible rigid transform only happens with degenerate
		// (non-orthonormal) extrinsics; fall back to identity so table
		// generation still produces a (wrong but finite) result.
		return mat.NewDense(4, 4, []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})
	}
	return &inv
}

// rotationMatrixZYX builds R = Rz(yaw) * Ry(pitch) * Rx(roll) as a
// row-major 4x4 homogeneous matrix, the same convention the combined
// calibration parser decomposes.
func rotationMatrixZYX(roll, pitch, yaw float64) []float64 {
	cr, sr := math.Cos(roll), math.Sin(roll)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)

	return []float64{
		cy*cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr, 0,
		sy*cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr, 0,
		-sp, cp*sr, cp*cr, 0,
		0, 0, 0, 1,
	}
}

func applyInverse(inv *mat.Dense, world vec3) vec3 {
	wv := mat.NewVecDense(4, []float64{world.X, world.Y, world.Z, 1})
	var out mat.VecDense
	out.MulVec(inv, wv)
	return vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// worldToCam applies the fixed axis swap (x,y,z) <- (-y,-z,-x) from
// world-frame to the camera's optical frame (§4.B bowl step 2).
func worldToCam(w vec3) vec3 {
	return vec3{X: -w.Y, Y: -w.Z, Z: -w.X}
}

// polyImageCoord projects a camera-frame point to the fisheye image plane
// via the Scaramuzza polynomial (§4.B bowl step 3).
func polyImageCoord(intr cam.Intrinsic, c vec3) geom.F32Pair {
	d := math.Sqrt(c.X*c.X + c.Y*c.Y)
	if d == 0 {
		return geom.F32Pair{X: float32(intr.Cy), Y: float32(intr.Cy)}
	}

	theta := math.Atan(c.Z / d)
	p := 1.0
	rho := 0.0
	for k := 0; k < intr.PolyLength; k++ {
		rho += intr.PolyCoeff[k] * p
		p *= theta
	}

	imgX := c.X * rho / d
	imgY := c.Y * rho / d

	u := imgX*intr.C + imgY*intr.D + intr.Cx
	v := imgX*intr.E + imgY + intr.Cy
	return geom.F32Pair{X: float32(u), Y: float32(v)}
}
