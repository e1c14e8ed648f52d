/*
DESCRIPTION
  json.go parses the optional JSON calibration document: a
  {"cameras":{"camera":[...]}} object where each entry carries the
  intrinsic/extrinsic fields directly, optionally overridden by a rotation
  matrix R decomposed to Euler angles.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package calib

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/stitch360/cam"
)

type jsonDoc struct {
	Cameras struct {
		Camera []jsonCamera `json:"camera"`
	} `json:"cameras"`
}

type jsonCamera struct {
	Radius float64    `json:"radius"`
	Cx     float64    `json:"cx"`
	Cy     float64    `json:"cy"`
	W      int        `json:"w"`
	H      int        `json:"h"`
	Skew   float64    `json:"skew"`
	Fx     float64    `json:"fx"`
	Fy     float64    `json:"fy"`
	Fov    float64    `json:"fov"`
	Flip   bool       `json:"flip"`
	Yaw    float64    `json:"yaw"`
	Pitch  float64    `json:"pitch"`
	Roll   float64    `json:"roll"`
	K      [9]float64 `json:"K"`
	D      [4]float64 `json:"D"`
	R      *[9]float64 `json:"R"`
	T      [3]float64 `json:"t"`
	C      [3]float64 `json:"c"`
}

// ParseJSON reads the optional JSON calibration document. When a camera
// entry carries an R matrix, its decomposed Euler angles override the
// scalar yaw/pitch/roll fields, per §6.
func ParseJSON(r io.Reader) ([]cam.Info, error) {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "calib: decoding JSON calibration")
	}
	if len(doc.Cameras.Camera) == 0 {
		return nil, errors.New("calib: JSON calibration has no cameras")
	}

	infos := make([]cam.Info, len(doc.Cameras.Camera))
	for i, jc := range doc.Cameras.Camera {
		info := cam.Info{
			Radius:       jc.Radius,
			DistortCoeff: jc.D,
		}
		info.Intrinsic.Cx = jc.Cx
		info.Intrinsic.Cy = jc.Cy
		info.Intrinsic.Width = jc.W
		info.Intrinsic.Height = jc.H
		info.Intrinsic.Skew = jc.Skew
		info.Intrinsic.Fx = jc.Fx
		info.Intrinsic.Fy = jc.Fy
		info.Intrinsic.Fov = jc.Fov
		info.Intrinsic.Flip = jc.Flip
		if jc.K != [9]float64{} {
			info.Intrinsic.C = jc.K[0]
			info.Intrinsic.D = jc.K[1]
			info.Intrinsic.E = jc.K[3]
		}

		info.Extrinsic.Tx, info.Extrinsic.Ty, info.Extrinsic.Tz = jc.T[0], jc.T[1], jc.T[2]
		info.Extrinsic.Yaw = jc.Yaw
		info.Extrinsic.Pitch = jc.Pitch
		info.Extrinsic.Roll = jc.Roll

		if jc.R != nil {
			roll, pitch, yaw := decomposeRotationZYX(*jc.R)
			info.Extrinsic.Roll = roll
			info.Extrinsic.Pitch = pitch
			info.Extrinsic.Yaw = yaw
		}

		infos[i] = info
	}
	return infos, nil
}
