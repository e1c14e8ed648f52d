/*
DESCRIPTION
  mask.go builds the 1-D seam mask used to blend two overlapping camera
  tiles, and downscales it for each pyramid level (§3, §4.E).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package blend

// gaussCoeffs is the 1-D 5-tap Gaussian kernel used both for pyramid
// image downscaling and for seam-mask downscaling.
var gaussCoeffs = [5]float64{0.152, 0.222, 0.252, 0.222, 0.152}

// NewSeamMask builds a seam mask of the given width: the outer quarters
// are saturated 255 (left) and 0 (right); the middle half is a cubic
// smoothstep taper from 255 to 0, not a sampled Gaussian curve.
func NewSeamMask(width int) []uint8 {
	mask := make([]uint8, width)
	if width <= 0 {
		return mask
	}
	q := width / 4
	rampStart, rampEnd := q, width-q
	rampLen := rampEnd - rampStart
	for x := 0; x < width; x++ {
		switch {
		case x < rampStart:
			mask[x] = 255
		case x >= rampEnd:
			mask[x] = 0
		default:
			t := float64(x-rampStart) / float64(max(rampLen, 1))
			// Smoothstep taper between the two saturated plateaus, akin to
			// the Gaussian-shaped seam curve described in the source.
			s := 1 - (3*t*t - 2*t*t*t)
			mask[x] = uint8(clampF(s*255+0.5, 0, 255))
		}
	}
	return mask
}

// downscaleRow1D applies the 1-D gauss kernel with edge-clamp borders and
// stride-2 decimation, halving the row length (rounded up).
func downscaleRow1D(row []float64) []float64 {
	n := len(row)
	outN := (n + 1) / 2
	out := make([]float64, outN)
	at := func(i int) float64 {
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return row[i]
	}
	for o := 0; o < outN; o++ {
		c := o * 2
		var sum float64
		for k := -2; k <= 2; k++ {
			sum += gaussCoeffs[k+2] * at(c+k)
		}
		out[o] = sum
	}
	return out
}

// downscaleMask halves a float-precision mask row using the shared 1-D
// gauss kernel, keeping full precision across levels so that a
// mask that is uniformly 255 or 0 stays exactly so (§4.E invariant I3).
func downscaleMask(mask []float64) []float64 {
	return downscaleRow1D(mask)
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
