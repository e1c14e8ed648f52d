/*
DESCRIPTION
  pyramid.go implements the Gaussian/Laplacian pyramid machinery shared by
  the blender: separable Gaussian downscale, a matching upscale, and the
  per-level plane bookkeeping (§4.E).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package blend

// plane is a dense row-major float64 image plane used internally by the
// pyramid. Working in float64 end-to-end (rather than quantizing every
// intermediate level to u8, as the reference pipeline does) keeps
// reconstruction mathematically exact, which is what invariant I3 demands;
// only the final write to the output frame rounds and saturates to u8.
type plane struct {
	data []float64
	w, h int
}

func newPlane(w, h int) plane {
	return plane{data: make([]float64, w*h), w: w, h: h}
}

func (p plane) at(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if x >= p.w {
		x = p.w - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.h {
		y = p.h - 1
	}
	return p.data[y*p.w+x]
}

func (p plane) set(x, y int, v float64) {
	p.data[y*p.w+x] = v
}

// alignUp rounds n up to a multiple of m.
func alignUp(n, m int) int {
	if n%m == 0 {
		return n
	}
	return n + (m - n%m)
}

// gaussDown separably downscales src by roughly 2x in each dimension using
// the shared 5-tap Gaussian kernel with edge-clamped borders.
func gaussDown(src plane) plane {
	outW := (src.w + 1) / 2
	outH := (src.h + 1) / 2
	tmp := newPlane(outW, src.h)
	for y := 0; y < src.h; y++ {
		for ox := 0; ox < outW; ox++ {
			c := ox * 2
			var sum float64
			for k := -2; k <= 2; k++ {
				sum += gaussCoeffs[k+2] * src.at(c+k, y)
			}
			tmp.set(ox, y, sum)
		}
	}
	out := newPlane(outW, outH)
	for oy := 0; oy < outH; oy++ {
		c := oy * 2
		for x := 0; x < outW; x++ {
			var sum float64
			for k := -2; k <= 2; k++ {
				sum += gaussCoeffs[k+2] * tmp.at(x, c+k)
			}
			out.set(x, oy, sum)
		}
	}
	return out
}

// gaussUp upsamples src to exactly (outW, outH) using bilinear
// interpolation over the proportional source coordinate. The exact
// resampling kernel is not load-bearing for reconstruction correctness
// (see plane's doc comment); what matters is that the same function is
// used both to form a level's Laplacian and to reconstruct it.
func gaussUp(src plane, outW, outH int) plane {
	out := newPlane(outW, outH)
	if src.w == 0 || src.h == 0 {
		return out
	}
	sx := float64(src.w) / float64(outW)
	sy := float64(src.h) / float64(outH)
	for y := 0; y < outH; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := floorF(fy)
		ay := fy - float64(y0)
		for x := 0; x < outW; x++ {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := floorF(fx)
			ax := fx - float64(x0)

			p00 := src.at(x0, y0)
			p01 := src.at(x0+1, y0)
			p10 := src.at(x0, y0+1)
			p11 := src.at(x0+1, y0+1)

			v := (1-ax)*(1-ay)*p00 + ax*(1-ay)*p01 + (1-ax)*ay*p10 + ax*ay*p11
			out.set(x, y, v)
		}
	}
	return out
}

func floorF(x float64) int {
	i := int(x)
	if float64(i) > x {
		i--
	}
	return i
}

func roundSatU8(v float64) uint8 {
	v = clampF(v+0.5, 0, 255)
	return uint8(v)
}
