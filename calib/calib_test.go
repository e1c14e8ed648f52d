package calib

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseIntrinsic(t *testing.T) {
	const body = `# fisheye intrinsic
3 1.0 0.1 0.02
480.0 480.0
1.0 0.0 0.0
`
	intr, err := ParseIntrinsic(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseIntrinsic: %v", err)
	}
	if intr.PolyLength != 3 {
		t.Errorf("PolyLength = %d, want 3", intr.PolyLength)
	}
	if intr.Cy != 480 || intr.Cx != 480 {
		t.Errorf("cx,cy = %v,%v, want 480,480", intr.Cx, intr.Cy)
	}
	if intr.C != 1.0 || intr.D != 0 || intr.E != 0 {
		t.Errorf("c,d,e = %v,%v,%v, want 1,0,0", intr.C, intr.D, intr.E)
	}
	want := [3]float64{1.0, 0.1, 0.02}
	for i, v := range want {
		if intr.PolyCoeff[i] != v {
			t.Errorf("PolyCoeff[%d] = %v, want %v", i, intr.PolyCoeff[i], v)
		}
	}
}

func TestParseIntrinsicPolyTooLong(t *testing.T) {
	const body = "30 " + strings.Repeat("1.0 ", 30) + "\n0 0\n0 0 0\n"
	if _, err := ParseIntrinsic(strings.NewReader(body)); err == nil {
		t.Fatal("expected error for poly_length exceeding max")
	}
}

func TestParseExtrinsic(t *testing.T) {
	const body = "10 20 30 -90 0 0\n"
	ext, err := ParseExtrinsic(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseExtrinsic: %v", err)
	}
	if ext.Tx != 10 || ext.Ty != 20 || ext.Tz != 30 || ext.Roll != -90 {
		t.Errorf("unexpected extrinsic: %+v", ext)
	}
}

func TestParseCombinedTwoCameras(t *testing.T) {
	const body = `
camera_id 0
K_matrix 1000 1000 960 540 0
R_matrix 1 0 0  0 1 0  0 0 1
T_matrix 0 0 0

camera_id 1
K_matrix 1000 1000 960 540 0
R_matrix 0 -1 0  1 0 0  0 0 1
T_matrix 100 0 0
`
	infos, err := ParseCombined(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseCombined: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	// Identity rotation decomposes to all-zero Euler angles.
	if diff := cmp.Diff(0.0, infos[0].Extrinsic.Roll, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("camera 0 roll mismatch (-want +got):\n%s", diff)
	}
	// Second camera has a 90 degree yaw rotation.
	if diff := cmp.Diff(90.0, infos[1].Extrinsic.Yaw, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("camera 1 yaw mismatch (-want +got):\n%s", diff)
	}
	if infos[1].Extrinsic.Tx != 100 {
		t.Errorf("camera 1 Tx = %v, want 100", infos[1].Extrinsic.Tx)
	}
}

func TestParseJSON(t *testing.T) {
	const body = `{
		"cameras": {
			"camera": [
				{"radius": 480, "cx": 480, "cy": 480, "w": 960, "h": 960, "fov": 202.8, "yaw": 0, "pitch": 0, "roll": -90}
			]
		}
	}`
	infos, err := ParseJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("len(infos) = %d, want 1", len(infos))
	}
	if infos[0].Extrinsic.Roll != -90 {
		t.Errorf("roll = %v, want -90", infos[0].Extrinsic.Roll)
	}
}
