package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
)

func TestRayCount(t *testing.T) {
	cases := []struct {
		size, spacing float64
		want          int
	}{
		{0.97, 0.25, 5},
		{0.47, 0.25, 3},
		{0.5, 0.25, 3},
		{0.1, 0.25, 2},
		{0, 0.25, 2},
		{2.97, 0.5, 7},
	}
	for _, c := range cases {
		if got := RayCount(c.size, c.spacing); got != c.want {
			t.Fatalf("RayCount(%v, %v) = %d, want %d", c.size, c.spacing, got, c.want)
		}
	}
}

func TestRaySpacingNeverExceedsMax(t *testing.T) {
	w := NewWorld(nil)
	for _, size := range []cp.Vector{{X: 1, Y: 1}, {X: 0.3, Y: 2.2}, {X: 5, Y: 0.5}, {X: 0.05, Y: 0.05}} {
		c := w.AddBox("sample", cp.Vector{}, size, LayerObject, 0)
		rc := NewRaycastController(w, c, MaskSolid)
		if rc.HorizontalRayCount < 2 || rc.VerticalRayCount < 2 {
			t.Fatalf("size %v: expected at least two rays per axis, got %d/%d", size, rc.HorizontalRayCount, rc.VerticalRayCount)
		}
		if rc.HorizontalRaySpacing > common.DefaultRaySpacing+1e-12 || rc.VerticalRaySpacing > common.DefaultRaySpacing+1e-12 {
			t.Fatalf("size %v: spacing %v/%v exceeds %v", size, rc.HorizontalRaySpacing, rc.VerticalRaySpacing, common.DefaultRaySpacing)
		}
	}
}

func TestRayOriginsShrunkBySkin(t *testing.T) {
	w := NewWorld(nil)
	c := w.AddBox("box", cp.Vector{X: 2, Y: 3}, cp.Vector{X: 1, Y: 2}, LayerObject, 0)
	rc := NewRaycastController(w, c, MaskSolid)

	skin := common.SkinWidth
	want := RaycastOrigins{
		TopLeft:     cp.Vector{X: 1.5 + skin, Y: 4 - skin},
		TopRight:    cp.Vector{X: 2.5 - skin, Y: 4 - skin},
		BottomLeft:  cp.Vector{X: 1.5 + skin, Y: 2 + skin},
		BottomRight: cp.Vector{X: 2.5 - skin, Y: 2 + skin},
	}
	got := []cp.Vector{rc.Origins.TopLeft, rc.Origins.TopRight, rc.Origins.BottomLeft, rc.Origins.BottomRight}
	exp := []cp.Vector{want.TopLeft, want.TopRight, want.BottomLeft, want.BottomRight}
	for i := range got {
		if math.Abs(got[i].X-exp[i].X) > 1e-12 || math.Abs(got[i].Y-exp[i].Y) > 1e-12 {
			t.Fatalf("corner %d: expected %v, got %v", i, exp[i], got[i])
		}
	}

	w.Translate(c, cp.Vector{X: 1})
	rc.RecomputeRayOrigins()
	if math.Abs(rc.Origins.BottomLeft.X-(2.5+skin)) > 1e-12 {
		t.Fatalf("origins should follow the collider, got %v", rc.Origins.BottomLeft)
	}
}
