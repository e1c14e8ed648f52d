package calib

import (
	"io"

	"github.com/ausocean/stitch360/cam"
)

// ParseExtrinsic reads six consecutive non-comment floats in order
// trans_x, trans_y, trans_z, roll, pitch, yaw (degrees).
func ParseExtrinsic(r io.Reader) (cam.Extrinsic, error) {
	s := newTokenScanner(r)
	var ext cam.Extrinsic
	var err error

	if ext.Tx, err = s.nextFloat(); err != nil {
		return ext, err
	}
	if ext.Ty, err = s.nextFloat(); err != nil {
		return ext, err
	}
	if ext.Tz, err = s.nextFloat(); err != nil {
		return ext, err
	}
	if ext.Roll, err = s.nextFloat(); err != nil {
		return ext, err
	}
	if ext.Pitch, err = s.nextFloat(); err != nil {
		return ext, err
	}
	if ext.Yaw, err = s.nextFloat(); err != nil {
		return ext, err
	}

	return ext, nil
}
