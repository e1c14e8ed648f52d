package geom

import "testing"

func TestViewAtClamps(t *testing.T) {
	data := []uint8{
		0, 1, 2,
		3, 4, 5,
	}
	v := New(data, 3, 2, 3)

	if got := v.At(1, 0); got != 1 {
		t.Errorf("At(1,0) = %d, want 1", got)
	}
	if got := v.At(-5, -5); got != 0 {
		t.Errorf("At(-5,-5) = %d, want 0 (clamp to origin)", got)
	}
	if got := v.At(100, 100); got != 5 {
		t.Errorf("At(100,100) = %d, want 5 (clamp to bottom-right)", got)
	}
}

func TestReadArrayFastPath(t *testing.T) {
	data := []uint8{10, 11, 12, 13, 14}
	v := New(data, 5, 1, 5)

	out := make([]uint8, 3)
	v.ReadArray(1, 0, out)
	want := []uint8{11, 12, 13}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("ReadArray fast path = %v, want %v", out, want)
		}
	}
}

func TestReadArrayBorderedPath(t *testing.T) {
	data := []uint8{10, 11, 12}
	v := New(data, 3, 1, 3)

	out := make([]uint8, 4)
	v.ReadArray(1, 0, out) // overruns width, forces bordered loop
	want := []uint8{11, 12, 12, 12}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("ReadArray bordered path = %v, want %v", out, want)
		}
	}
}

func TestWriteArrayRoundTrip(t *testing.T) {
	data := make([]uint8, 6)
	v := New(data, 3, 2, 3)
	v.WriteArray(0, 1, []uint8{7, 8, 9})
	if data[3] != 7 || data[4] != 8 || data[5] != 9 {
		t.Fatalf("WriteArray = %v, want row 1 = [7 8 9]", data)
	}
}

func TestChromaStridedExtraction(t *testing.T) {
	// NV12 interleaved UV bytes for a 2x2 (1x1 chroma) frame.
	uv := []uint8{100, 200}
	u := NewStrided(uv, 1, 1, 2, 2, 0)
	v := NewStrided(uv, 1, 1, 2, 2, 1)
	if got := u.At(0, 0); got != 100 {
		t.Errorf("U component = %d, want 100", got)
	}
	if got := v.At(0, 0); got != 200 {
		t.Errorf("V component = %d, want 200", got)
	}
}

func TestBilinearU8Identity(t *testing.T) {
	data := []uint8{0, 255, 0, 255}
	v := New(data, 2, 2, 2)
	// Exact grid point should reproduce the source pixel exactly.
	if got := BilinearU8(v, 1, 0); got != 255 {
		t.Errorf("BilinearU8 at grid point = %d, want 255", got)
	}
	// Midpoint of a 0/255 edge should land near 127/128.
	mid := BilinearU8(v, 0.5, 0)
	if mid < 127 || mid > 128 {
		t.Errorf("BilinearU8 midpoint = %d, want 127 or 128", mid)
	}
}

func TestAlignRect(t *testing.T) {
	r := Rect{X: 3, Y: 1, Width: 10, Height: 5}
	got := AlignRect(r, 8, 4)
	want := Rect{X: 0, Y: 0, Width: 16, Height: 8}
	if got != want {
		t.Errorf("AlignRect = %+v, want %+v", got, want)
	}
}
