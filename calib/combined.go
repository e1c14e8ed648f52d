/*
DESCRIPTION
  combined.go parses the combined calibration file format: repeated
  per-camera blocks of "camera_id", "K_matrix" (fx, fy, cx, cy, skew),
  "R_matrix" (3x3, row-major) and "T_matrix" (3-vector) sections. The
  rotation matrix is decomposed into roll/pitch/yaw Euler angles using the
  same Rz*Ry*Rx convention as the dewarp bowl generator's rotation builder.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package calib

import (
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/ausocean/stitch360/cam"
)

const (
	sectionCameraID = "camera_id"
	sectionK        = "K_matrix"
	sectionR        = "R_matrix"
	sectionT        = "T_matrix"
)

// ParseCombined reads a calibration file made of repeated per-camera
// sections and returns one cam.Info per camera_id block, in the order
// they appear.
func ParseCombined(r io.Reader) ([]cam.Info, error) {
	s := newTokenScanner(r)

	var infos []cam.Info
	var cur *cam.Info
	haveK, haveR, haveT := false, false, false
	var rot [9]float64

	flush := func() error {
		if cur == nil {
			return nil
		}
		if !haveK || !haveR || !haveT {
			return errors.Errorf("calib: camera block at line %d missing K/R/T section", s.line)
		}
		roll, pitch, yaw := decomposeRotationZYX(rot)
		cur.Extrinsic.Roll = roll
		cur.Extrinsic.Pitch = pitch
		cur.Extrinsic.Yaw = yaw
		infos = append(infos, *cur)
		cur = nil
		haveK, haveR, haveT = false, false, false
		return nil
	}

	for {
		tok, err := s.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		switch tok {
		case sectionCameraID:
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &cam.Info{}
			if _, err := s.nextInt(); err != nil {
				return nil, err
			}
		case sectionK:
			if cur == nil {
				return nil, errors.Errorf("calib: %s section with no preceding %s at line %d", sectionK, sectionCameraID, s.line)
			}
			vals, err := s.nextFloats(5)
			if err != nil {
				return nil, err
			}
			cur.Intrinsic.Fx, cur.Intrinsic.Fy = vals[0], vals[1]
			cur.Intrinsic.Cx, cur.Intrinsic.Cy = vals[2], vals[3]
			cur.Intrinsic.Skew = vals[4]
			haveK = true
		case sectionR:
			if cur == nil {
				return nil, errors.Errorf("calib: %s section with no preceding %s at line %d", sectionR, sectionCameraID, s.line)
			}
			vals, err := s.nextFloats(9)
			if err != nil {
				return nil, err
			}
			copy(rot[:], vals)
			haveR = true
		case sectionT:
			if cur == nil {
				return nil, errors.Errorf("calib: %s section with no preceding %s at line %d", sectionT, sectionCameraID, s.line)
			}
			vals, err := s.nextFloats(3)
			if err != nil {
				return nil, err
			}
			cur.Extrinsic.Tx, cur.Extrinsic.Ty, cur.Extrinsic.Tz = vals[0], vals[1], vals[2]
			haveT = true
		default:
			return nil, errors.Errorf("calib: unexpected token %q at line %d", tok, s.line)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, errors.New("calib: no camera blocks found")
	}
	return infos, nil
}

func (s *tokenScanner) nextFloats(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := s.nextFloat()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decomposeRotationZYX extracts roll/pitch/yaw degrees from a row-major
// 3x3 matrix built as R = Rz(yaw) * Ry(pitch) * Rx(roll), the convention
// used by the bowl dewarp generator's rotationMatrixZYX.
func decomposeRotationZYX(r [9]float64) (roll, pitch, yaw float64) {
	// r is row-major: r[3*row+col].
	r20 := r[6]
	r21 := r[7]
	r22 := r[8]
	r10 := r[3]
	r00 := r[0]

	pitchRad := math.Asin(clamp(-r20, -1, 1))
	rollRad := math.Atan2(r21, r22)
	yawRad := math.Atan2(r10, r00)

	return radToDeg(rollRad), radToDeg(pitchRad), radToDeg(yawRad)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
