/*
DESCRIPTION
  recorder.go implements OffsetRecorder, an optional per-overlap sink for
  the feature matcher's offset_x history, rendered on demand as an SVG
  line chart for operators tuning FMConfig (§8 scenario 5, invariant I7).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package diagnostics offers optional, off-hot-path recording of the
// feature matcher's per-frame offset corrections, for operators tuning
// feature-match configuration. Nothing in this package is required for
// the stitch pipeline to run.
package diagnostics

import (
	"image/color"
	"io"
	"strconv"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/stitch360/featurematch"
)

// sample is one recorded frame's outcome for one overlap pair.
type sample struct {
	frame   int
	offsetX float64
	updated bool
}

// OffsetRecorder accumulates per-overlap-pair offset_x history across
// frames. It is safe for concurrent Record calls from different overlap
// pairs' goroutines.
type OffsetRecorder struct {
	mu      sync.Mutex
	history map[int][]sample
	frame   int
}

// NewOffsetRecorder returns an empty recorder.
func NewOffsetRecorder() *OffsetRecorder {
	return &OffsetRecorder{history: make(map[int][]sample)}
}

// AdvanceFrame marks the start of a new frame; subsequent Record calls
// are tagged with this frame index until the next AdvanceFrame.
func (r *OffsetRecorder) AdvanceFrame() {
	r.mu.Lock()
	r.frame++
	r.mu.Unlock()
}

// Record appends pairIndex's outcome for the current frame.
func (r *OffsetRecorder) Record(pairIndex int, res featurematch.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[pairIndex] = append(r.history[pairIndex], sample{
		frame:   r.frame,
		offsetX: res.OffsetX,
		updated: res.Updated,
	})
}

// Pairs reports which overlap pair indices have recorded history.
func (r *OffsetRecorder) Pairs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.history))
	for idx := range r.history {
		out = append(out, idx)
	}
	return out
}

// Plot renders every recorded pair's offset_x time series as a single SVG
// line chart and writes it to w.
func (r *OffsetRecorder) Plot(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := plot.New()
	p.Title.Text = "feature-match offset_x by frame"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "offset_x (px)"

	for idx, samples := range r.history {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i].X = float64(s.frame)
			pts[i].Y = s.offsetX
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colorFor(idx)
		p.Add(line)
		p.Legend.Add(pairLabel(idx), line)
	}

	writer, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "svg")
	if err != nil {
		return err
	}
	_, err = writer.WriteTo(w)
	return err
}

func pairLabel(idx int) string {
	return "pair " + strconv.Itoa(idx)
}

// palette is a small fixed set of distinguishable line colors, cycled so
// adjacent pair indices never collide without pulling in a color-scheme
// dependency.
var palette = []color.Color{
	color.RGBA{R: 0xd6, G: 0x2c, B: 0x2c, A: 0xff},
	color.RGBA{R: 0x2c, G: 0x6c, B: 0xd6, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa6, B: 0x4a, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x9a, B: 0x2c, A: 0xff},
	color.RGBA{R: 0x8a, G: 0x2c, B: 0xd6, A: 0xff},
}

func colorFor(idx int) color.Color {
	if idx < 0 {
		idx = -idx
	}
	return palette[idx%len(palette)]
}
