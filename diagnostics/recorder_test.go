package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ausocean/stitch360/featurematch"
)

func TestOffsetRecorderPlotProducesSVG(t *testing.T) {
	r := NewOffsetRecorder()
	for frame := 0; frame < 5; frame++ {
		r.AdvanceFrame()
		r.Record(0, featurematch.Result{OffsetX: float64(frame), Updated: true})
		r.Record(1, featurematch.Result{OffsetX: float64(-frame), Updated: frame%2 == 0})
	}

	if got := len(r.Pairs()); got != 2 {
		t.Fatalf("Pairs() len = %d, want 2", got)
	}

	var buf bytes.Buffer
	if err := r.Plot(&buf); err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatal("Plot output does not look like an SVG document")
	}
}

func TestOffsetRecorderEmptyPlotSucceeds(t *testing.T) {
	r := NewOffsetRecorder()
	var buf bytes.Buffer
	if err := r.Plot(&buf); err != nil {
		t.Fatalf("Plot on empty recorder: %v", err)
	}
}
