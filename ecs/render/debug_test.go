package render

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestFitCamera(t *testing.T) {
	tests := []struct {
		name     string
		level    cp.Vector
		wantZoom float64
	}{
		{name: "wide", level: cp.Vector{X: 62, Y: 10}, wantZoom: 20},
		{name: "tall", level: cp.Vector{X: 10, Y: 34}, wantZoom: 20},
		{name: "empty", level: cp.Vector{X: -2, Y: 0}, wantZoom: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := FitCamera(tt.level, 1280, 720, 1)
			if cam.Zoom != tt.wantZoom {
				t.Fatalf("expected zoom %v, got %v", tt.wantZoom, cam.Zoom)
			}
			if cam.X != -1 || cam.Y != -1 {
				t.Fatalf("expected origin at the margin, got (%v, %v)", cam.X, cam.Y)
			}
		})
	}
}

func TestToScreenFlipsY(t *testing.T) {
	d := &physicsDebugDrawer{cam: FitCamera(cp.Vector{X: 62, Y: 34}, 1280, 720, 1)}
	x, y := d.toScreen(cp.Vector{X: -1, Y: -1})
	if x != 0 || y != 720 {
		t.Fatalf("expected bottom left corner (0, 720), got (%v, %v)", x, y)
	}
	x, y = d.toScreen(cp.Vector{X: 0, Y: 1})
	if x != 20 || y != 680 {
		t.Fatalf("expected (20, 680), got (%v, %v)", x, y)
	}
}
