package remap

import (
	"testing"

	"github.com/ausocean/stitch360/dewarp"
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/geom/geomtest"
)

// identityTable builds a table where table[i,j] = (j*MapFactorX, i*MapFactorY),
// so remap with unit factors should reproduce the source frame up to
// bilinear rounding (§8 invariant I5).
func identityTable(tblW, tblH int) *dewarp.Table {
	t := &dewarp.Table{Width: tblW, Height: tblH, Data: make([]geom.F32Pair, tblW*tblH)}
	for row := 0; row < tblH; row++ {
		for col := 0; col < tblW; col++ {
			t.Data[row*tblW+col] = geom.F32Pair{X: float32(col * dewarp.MapFactorX), Y: float32(row * dewarp.MapFactorY)}
		}
	}
	return t
}

func TestRemapIdentity(t *testing.T) {
	const w, h = 64, 32
	in := geomtest.NewNV12(w, h, func(x, y int) uint8 { return uint8((x + y) % 256) }, func(cx, cy int) (uint8, uint8) { return 128, 128 })
	out := geomtest.NewBlankNV12(w, h)

	tbl := identityTable(w/dewarp.MapFactorX+2, h/dewarp.MapFactorY+2)

	g := New(nil)
	g.SetTable(tbl)
	g.SetStdOutputSize(geom.Rect{Width: w, Height: h})
	g.SetStdArea(geom.Rect{Width: w, Height: h})
	g.SetOutputSize(geom.Rect{Width: w, Height: h})
	g.SetExtendedOffset(0)

	if err := g.Remap(in, out); err != nil {
		t.Fatalf("Remap: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := in.LumaView().At(x, y)
			got := out.LumaView().At(x, y)
			diff := int(want) - int(got)
			if diff < 0 {
				diff = -diff
			}
			if diff > 2 {
				t.Fatalf("pixel (%d,%d): got %d, want ~%d (diff %d)", x, y, got, want, diff)
			}
		}
	}
}

func TestRemapRejectsEmptyTable(t *testing.T) {
	g := New(nil)
	g.SetStdOutputSize(geom.Rect{Width: 10, Height: 10})
	g.SetOutputSize(geom.Rect{Width: 10, Height: 10})
	g.SetStdArea(geom.Rect{Width: 10, Height: 10})

	in := geomtest.NewBlankNV12(10, 10)
	out := geomtest.NewBlankNV12(10, 10)
	if err := g.Remap(in, out); err == nil {
		t.Fatal("expected Param error for empty table")
	}
}
