package presets

import "testing"

func TestForReturnsConsistentCameraCounts(t *testing.T) {
	cases := []Mode{Mode1080p2Cams, Mode1080p4Cams, Mode4k2Cams, Mode8k3Cams, Mode8k6Cams}
	for _, m := range cases {
		p := For(m)
		if len(p.ViewpointsRange) != p.CameraNum {
			t.Fatalf("mode %v: len(ViewpointsRange)=%d, CameraNum=%d", m, len(p.ViewpointsRange), p.CameraNum)
		}
		if len(p.MergeWidths) != p.CameraNum {
			t.Fatalf("mode %v: len(MergeWidths)=%d, CameraNum=%d", m, len(p.MergeWidths), p.CameraNum)
		}
		if p.FeatureMatch.MinCorners <= 0 {
			t.Fatalf("mode %v: expected positive MinCorners", m)
		}
	}
}

func TestForPanicsOnUnknownMode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown mode")
		}
	}()
	For(Mode(99))
}
