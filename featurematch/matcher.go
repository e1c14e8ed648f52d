/*
DESCRIPTION
  matcher.go implements the per-overlap feature matcher: corner detection
  in the left crop, Lucas-Kanade tracking into the right crop, rejection of
  unreliable correspondences, a median horizontal offset blended against
  the previous frame's estimate, and conversion of that scalar offset into
  left/right scale-factor corrections for the two neighboring cameras
  (§4.D).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package featurematch

import (
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stitch360/geom"
)

// Centers are the panorama-space slice centers and overlap center the
// scalar offset is converted against (§4.D step 6).
type Centers struct {
	CenterLeft, CenterRight float64 // Slice centers of camera i and camera i+1.
	OverlapCenter           float64 // pos_x + width/2 of the overlap region.
}

// Result is one pair's per-frame outcome. RightFactor corrects camera i's
// right half; LeftFactor corrects camera i+1's left half. When Retained is
// below cfg.MinCorners, Updated is false and the previous factors are
// returned unchanged (§4.D recovery).
type Result struct {
	Retained    int
	OffsetX     float64
	RightFactor geom.F32Pair
	LeftFactor  geom.F32Pair
	Updated     bool
}

type pairState struct {
	prevOffsetX float64
	rightFactor geom.F32Pair
	leftFactor  geom.F32Pair
}

// Matcher holds the per-pair running state across frames for one stitcher
// instance.
type Matcher struct {
	cfg   Config
	log   logging.Logger
	state map[int]*pairState
}

// New returns a Matcher configured with cfg.
func New(cfg Config, log logging.Logger) *Matcher {
	return &Matcher{cfg: cfg, log: log, state: make(map[int]*pairState)}
}

func (m *Matcher) stateFor(pairIndex int) *pairState {
	s, ok := m.state[pairIndex]
	if !ok {
		s = &pairState{rightFactor: geom.F32Pair{X: 1, Y: 1}, leftFactor: geom.F32Pair{X: 1, Y: 1}}
		m.state[pairIndex] = s
	}
	return s
}

// cropToMat copies a luma crop into a tightly packed grayscale gocv.Mat.
func cropToMat(v geom.View[uint8], crop geom.Rect) (gocv.Mat, error) {
	buf := make([]uint8, crop.Width*crop.Height)
	row := make([]uint8, crop.Width)
	for y := 0; y < crop.Height; y++ {
		v.ReadArray(crop.X, crop.Y+y, row)
		copy(buf[y*crop.Width:(y+1)*crop.Width], row)
	}
	return gocv.NewMatFromBytes(crop.Height, crop.Width, gocv.MatTypeCV8U, buf)
}

// Match runs the feature-match pipeline for one overlap pair and one
// frame (§4.D steps 1-6).
func (m *Matcher) Match(pairIndex int, leftTile, rightTile *geom.Frame, leftCrop, rightCrop geom.Rect, centers Centers) (Result, error) {
	st := m.stateFor(pairIndex)
	prev := Result{
		Retained:    0,
		OffsetX:     st.prevOffsetX,
		RightFactor: st.rightFactor,
		LeftFactor:  st.leftFactor,
		Updated:     false,
	}

	if leftCrop.Width < m.cfg.StitchMinWidth || leftCrop.Width != rightCrop.Width || leftCrop.Height != rightCrop.Height {
		return prev, nil
	}

	leftMat, err := cropToMat(leftTile.LumaView(), leftCrop)
	if err != nil {
		return prev, err
	}
	defer leftMat.Close()
	rightMat, err := cropToMat(rightTile.LumaView(), rightCrop)
	if err != nil {
		return prev, err
	}
	defer rightMat.Close()

	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(leftMat, &corners, m.cfg.MinCorners*4, 0.01, 8)
	if corners.Rows() < m.cfg.MinCorners {
		if m.log != nil {
			m.log.Debug("featurematch: too few corners, skipping pair", "pair", pairIndex, "found", corners.Rows())
		}
		return prev, nil
	}

	tracked := gocv.NewMat()
	defer tracked.Close()
	status := gocv.NewMat()
	defer status.Close()
	trackErr := gocv.NewMat()
	defer trackErr.Close()

	gocv.CalcOpticalFlowPyrLK(leftMat, rightMat, corners, tracked, &status, &trackErr)

	var deltas []float64
	for i := 0; i < corners.Rows(); i++ {
		if status.GetUCharAt(i, 0) == 0 {
			continue
		}
		terr := float64(trackErr.GetFloatAt(i, 0))
		if terr*terr > m.cfg.MaxTrackError {
			continue
		}
		x0, y0 := corners.GetFloatAt(i, 0), corners.GetFloatAt(i, 1)
		x1, y1 := tracked.GetFloatAt(i, 0), tracked.GetFloatAt(i, 1)
		dy := float64(y1 - y0)
		if dy < 0 {
			dy = -dy
		}
		if dy > m.cfg.MaxValidOffsetY {
			continue
		}
		dx := float64(x1 - x0)
		if st.prevOffsetX != 0 {
			delta := dx - st.prevOffsetX
			if delta < 0 {
				delta = -delta
			}
			if delta > m.cfg.DeltaMeanOffset {
				continue
			}
		}
		deltas = append(deltas, dx)
	}

	if len(deltas) < m.cfg.MinCorners {
		if m.log != nil {
			m.log.Debug("featurematch: too few retained correspondences, skipping pair", "pair", pairIndex, "retained", len(deltas))
		}
		return prev, nil
	}

	median := medianOf(deltas)
	newOffset := m.cfg.OffsetFactor*median + (1-m.cfg.OffsetFactor)*st.prevOffsetX

	step := newOffset - st.prevOffsetX
	if step > m.cfg.MaxAdjustedOffset {
		newOffset = st.prevOffsetX + m.cfg.MaxAdjustedOffset
	} else if step < -m.cfg.MaxAdjustedOffset {
		newOffset = st.prevOffsetX - m.cfg.MaxAdjustedOffset
	}

	rangeRight := centers.OverlapCenter - centers.CenterLeft
	rangeLeft := centers.CenterRight - centers.OverlapCenter

	rightFactor := geom.F32Pair{X: 1, Y: 1}
	leftFactor := geom.F32Pair{X: 1, Y: 1}
	if rangeRight != 0 {
		rightFactor.X = float32((rangeRight + newOffset/2) / rangeRight)
	}
	if rangeLeft != 0 {
		leftFactor.X = float32((rangeLeft + newOffset/2) / rangeLeft)
	}

	st.prevOffsetX = newOffset
	st.rightFactor = rightFactor
	st.leftFactor = leftFactor

	return Result{
		Retained:    len(deltas),
		OffsetX:     newOffset,
		RightFactor: rightFactor,
		LeftFactor:  leftFactor,
		Updated:     true,
	}, nil
}

func medianOf(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}
