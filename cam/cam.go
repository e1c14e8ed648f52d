/*
DESCRIPTION
  cam.go defines the calibration data model shared by the calibration
  parsers, dewarp table generators, and the stitcher orchestrator: fisheye
  intrinsics/extrinsics, the surround-view bowl geometry, and the
  round-view slice a camera contributes to the panorama.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cam holds the camera calibration data model: fisheye intrinsics
// and extrinsics, bowl (surround-view) geometry, and derived panorama
// slice geometry.
package cam

// MaxPolyCoeff is the maximum number of Scaramuzza polynomial coefficients
// an Intrinsic can carry.
const MaxPolyCoeff = 18

// Intrinsic holds a fisheye lens's intrinsic calibration. Angles (Fov) are
// stored in degrees; generators convert to radians internally.
type Intrinsic struct {
	Cx, Cy     float64 // Principal point, pixels.
	Fx, Fy     float64
	Fov        float64 // Field of view, degrees.
	Skew       float64
	Flip       bool
	Width      int
	Height     int
	PolyCoeff  [MaxPolyCoeff]float64 // Scaramuzza polynomial, index 0 = constant term.
	PolyLength int

	// Affine/skew terms used by the Scaramuzza projection (§4.B).
	C, D, E float64
}

// Extrinsic holds a camera's rigid-body pose in degrees and world units.
type Extrinsic struct {
	Roll, Pitch, Yaw float64 // Degrees.
	Tx, Ty, Tz       float64
}

// Info is one camera's full calibration.
type Info struct {
	Intrinsic    Intrinsic
	Extrinsic    Extrinsic
	Radius       float64
	DistortCoeff [4]float64
}

// BowlConfig parameterizes the ellipsoidal bowl (ground disc + wall) used
// for surround-view mode.
type BowlConfig struct {
	A, B, C                  float64
	AngleStart, AngleEnd     float64 // Degrees.
	CenterZ                  float64
	WallHeight, GroundLength float64
}

// RoundSlice is the panorama sub-rectangle a single camera contributes in
// sphere (round-view) mode.
type RoundSlice struct {
	Width, Height       int
	HoriAngleStart       float64 // Degrees.
	HoriAngleRange       float64 // Degrees.
}
