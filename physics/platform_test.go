package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
)

func walk(p *WaypointPath, pos cp.Vector, dt float64, ticks int) cp.Vector {
	for i := 0; i < ticks; i++ {
		pos = pos.Add(p.Advance(pos, dt))
	}
	return pos
}

func TestWaypointPathCyclic(t *testing.T) {
	p := NewWaypointPath([]cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, true, 1, 0, nil)

	pos := walk(p, cp.Vector{}, 0.5, 1)
	if !near(pos.X, 0.5, 1e-12) || pos.Y != 0 {
		t.Fatalf("expected halfway on the first segment, got %v", pos)
	}

	pos = walk(p, pos, 0.5, 3)
	if !near(pos.X, 1, 1e-12) || !near(pos.Y, 1, 1e-12) {
		t.Fatalf("expected to reach the last waypoint, got %v", pos)
	}
	if from, to, _ := p.Segment(); from != 2 || to != 0 {
		t.Fatalf("cyclic path should head back to the first waypoint, got %d->%d", from, to)
	}

	// closing segment is sqrt(2) long
	pos = walk(p, pos, 0.5, 3)
	if !near(pos.X, 0, 1e-12) || !near(pos.Y, 0, 1e-12) {
		t.Fatalf("expected to loop back to the origin, got %v", pos)
	}
}

func TestWaypointPathPingPong(t *testing.T) {
	p := NewWaypointPath([]cp.Vector{{X: 0, Y: 0}, {X: 0, Y: 2}}, false, 2, 0, nil)

	pos := walk(p, cp.Vector{}, 0.25, 4)
	if !near(pos.Y, 2, 1e-12) {
		t.Fatalf("expected to reach the far end, got %v", pos)
	}
	pos = walk(p, pos, 0.25, 2)
	if !near(pos.Y, 1, 1e-12) {
		t.Fatalf("expected to come back halfway, got %v", pos)
	}
	pos = walk(p, pos, 0.25, 2)
	if !near(pos.Y, 0, 1e-12) {
		t.Fatalf("expected to return to the start, got %v", pos)
	}
}

func TestWaypointPathDwell(t *testing.T) {
	p := NewWaypointPath([]cp.Vector{{X: 0, Y: 0}, {X: 2, Y: 0}}, false, 2, 0.5, nil)

	pos := walk(p, cp.Vector{}, 0.25, 4)
	if !p.Waiting() {
		t.Fatal("expected to dwell at the reached waypoint")
	}
	for i := 0; i < 2; i++ {
		if d := p.Advance(pos, 0.25); d != (cp.Vector{}) {
			t.Fatalf("dwell tick %d: expected no motion, got %v", i, d)
		}
	}
	if d := p.Advance(pos, 0.25); d.X >= 0 {
		t.Fatalf("expected to move back after the dwell, got %v", d)
	}
}

func TestWaypointPathDegenerate(t *testing.T) {
	cases := []struct {
		name string
		path *WaypointPath
	}{
		{"zero_speed", NewWaypointPath([]cp.Vector{{}, {X: 1}}, true, 0, 0, nil)},
		{"single_waypoint", NewWaypointPath([]cp.Vector{{X: 3}}, true, 1, 0, nil)},
		{"nil_path", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if d := c.path.Advance(cp.Vector{}, common.FixedDelta); d != (cp.Vector{}) {
				t.Fatalf("expected no motion, got %v", d)
			}
		})
	}

	// a zero length segment is skipped instead of dividing by zero
	p := NewWaypointPath([]cp.Vector{{X: 1}, {X: 1}, {X: 2}}, true, 1, 0, nil)
	pos := walk(p, cp.Vector{X: 1}, 0.5, 1)
	if !common.Finite(pos) || !near(pos.X, 1, 1e-12) {
		t.Fatalf("expected to stay on the duplicated waypoint, got %v", pos)
	}
	if from, _, _ := p.Segment(); from != 1 {
		t.Fatalf("expected to move on to the next segment, got %d", from)
	}
}

func TestWaypointPathEase(t *testing.T) {
	smooth := func(x float64) float64 { return x * x * (3 - 2*x) }
	p := NewWaypointPath([]cp.Vector{{}, {X: 4}}, true, 1, 0, smooth)

	pos := walk(p, cp.Vector{}, 1, 1)
	if want := 4 * smooth(0.25); !near(pos.X, want, 1e-12) {
		t.Fatalf("expected eased position %v, got %v", want, pos.X)
	}
}

func TestPlatformCarriesPassenger(t *testing.T) {
	w := NewWorld(nil)
	body := w.AddBox("lift", cp.Vector{}, cp.Vector{X: 3, Y: 0.5}, LayerPlatform, 0)
	path := NewWaypointPath([]cp.Vector{{X: 0, Y: 0}, {X: 0, Y: 5}}, false, 2, 0, nil)
	platform := NewPlatformController(w, body, path)
	rider := newBody(w, "red", cp.Vector{X: 0, Y: 0.75})

	for tick := 0; tick < 150; tick++ {
		platformBefore := body.Position()
		riderBefore := rider.Collider.Position()

		v := platform.Update(common.FixedDelta)

		platformDy := body.Position().Y - platformBefore.Y
		riderDy := rider.Collider.Position().Y - riderBefore.Y
		if !near(platformDy, v.Y, 1e-9) {
			t.Fatalf("tick %d: platform moved %v, expected %v", tick, platformDy, v.Y)
		}
		if !near(riderDy, platformDy, 1e-6) {
			t.Fatalf("tick %d: rider moved %v while platform moved %v", tick, riderDy, platformDy)
		}
		if v.Y != 0 && !rider.Collisions.Below {
			t.Fatalf("tick %d: carried rider should be grounded", tick)
		}
	}

	if got := body.Position().Y; got < 4.9 {
		t.Fatalf("expected the lift near the top after 2.5s, got %v", got)
	}
	gap := rider.Collider.Bounds().B - body.Bounds().T
	if !near(gap, 0, 1e-6) {
		t.Fatalf("rider drifted off the lift, gap %v", gap)
	}
}

func TestPlatformPushesSidePassenger(t *testing.T) {
	w := NewWorld(nil)
	body := w.AddBox("slider", cp.Vector{}, cp.Vector{X: 1, Y: 1}, LayerPlatform, 0)
	path := NewWaypointPath([]cp.Vector{{}, {X: 5}}, false, 3, 0, nil)
	platform := NewPlatformController(w, body, path)
	crate := newBody(w, "crate", cp.Vector{X: 1.05, Y: 0})

	for i := 0; i < 30; i++ {
		platform.Update(common.FixedDelta)
	}
	if crate.Collider.Bounds().L < body.Bounds().R-1e-6 {
		t.Fatalf("platform overlapped the pushed body: %v < %v", crate.Collider.Bounds().L, body.Bounds().R)
	}
	if len(platform.Passengers()) != 1 || !platform.Passengers()[0].MoveBeforePlatform {
		t.Fatalf("expected one passenger pushed before the platform, got %+v", platform.Passengers())
	}
}
