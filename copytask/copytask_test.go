package copytask

import (
	"testing"

	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/geom/geomtest"
)

func TestCopyIdentity(t *testing.T) {
	const w, h = 32, 16
	tile := geomtest.NewNV12(w, h, func(x, y int) uint8 { return uint8((x + y) % 256) }, func(x, y int) (uint8, uint8) { return uint8(x), uint8(y) })
	out := geomtest.NewBlankNV12(w, h)

	area := geom.Rect{X: 0, Y: 0, Width: w, Height: h}
	if err := Copy(tile, out, area, area); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := tile.LumaView().At(x, y)
			got := out.LumaView().At(x, y)
			if want != got {
				t.Fatalf("luma (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
	cw, ch := out.ChromaWidth(), out.ChromaHeight()
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			if tile.ChromaU().At(x, y) != out.ChromaU().At(x, y) {
				t.Fatalf("chroma U (%d,%d) mismatch", x, y)
			}
			if tile.ChromaV().At(x, y) != out.ChromaV().At(x, y) {
				t.Fatalf("chroma V (%d,%d) mismatch", x, y)
			}
		}
	}
}

func TestCopyRejectsMismatchedSize(t *testing.T) {
	const w, h = 32, 16
	tile := geomtest.NewBlankNV12(w, h)
	out := geomtest.NewBlankNV12(w, h)
	in := geom.Rect{X: 0, Y: 0, Width: w, Height: h}
	bad := geom.Rect{X: 0, Y: 0, Width: w / 2, Height: h}
	if err := Copy(tile, out, in, bad); err == nil {
		t.Fatal("expected Param error for mismatched sizes")
	}
}

func TestWidenForMergeWidthDisabled(t *testing.T) {
	area := geom.Rect{X: 40, Y: 0, Width: 64, Height: 16}
	got := WidenForMergeWidth(area, 32, 0, false)
	if got != area {
		t.Fatalf("mergeWidth<=0 must not modify the area, got %+v", got)
	}
}

func TestWidenForMergeWidthAligns(t *testing.T) {
	area := geom.Rect{X: 40, Y: 0, Width: 64, Height: 16}
	got := WidenForMergeWidth(area, 32, 16, false)
	if got.Width <= area.Width {
		t.Fatalf("expected widened width, got %+v from %+v", got, area)
	}
	if (got.Width-area.Width)%8 != 0 {
		t.Fatalf("widening must be a multiple of 8, got %+v from %+v", got, area)
	}
}
