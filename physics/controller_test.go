package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/magnet"
)

func newGroundWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(nil)
	w.AddStaticBox("ground", cp.BB{L: -20, B: -1, R: 20, T: 0}, LayerGround, 0)
	return w
}

func newBody(w *World, name string, center cp.Vector) *Controller2D {
	c := w.AddBox(name, center, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
	return NewController2D(w, c, MaskSolid)
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSlowMoveAdjacentToWall(t *testing.T) {
	w := newGroundWorld(t)
	wall := w.AddStaticBox("wall", cp.BB{L: 1, B: 0, R: 2, T: 5}, LayerGround, 0)
	ctrl := newBody(w, "red", cp.Vector{X: 0.5, Y: 0.5})

	moved := ctrl.Move(cp.Vector{X: 0.001}, cp.Vector{}, false)

	if !near(moved.X, 0, 1e-9) {
		t.Fatalf("expected no horizontal motion into the wall, got %v", moved.X)
	}
	if !near(ctrl.Collider.Position().X, 0.5, 1e-9) {
		t.Fatalf("expected body to stay at x=0.5, got %v", ctrl.Collider.Position().X)
	}
	if !ctrl.Collisions.Right || ctrl.Collisions.Left {
		t.Fatalf("expected right contact only, got %+v", ctrl.Collisions)
	}

	hits := ctrl.RaycastHorizontally(1, 0, MaskSolid)
	if len(hits) != 1 || hits[0].Collider != wall {
		t.Fatalf("expected a single wall hit, got %d", len(hits))
	}
	if len(ctrl.RaycastHorizontally(-1, 0, MaskSolid)) != 0 {
		t.Fatal("expected nothing on the left")
	}
}

func TestMoveZeroIsIdempotent(t *testing.T) {
	w := newGroundWorld(t)
	ctrl := newBody(w, "blue", cp.Vector{X: 0, Y: 0.5})
	ctrl.Move(cp.Vector{Y: -0.1}, cp.Vector{}, false)
	if !ctrl.Collisions.Below {
		t.Fatal("expected to start grounded")
	}
	start := ctrl.Collider.Position()

	for i := 0; i < 3; i++ {
		ctrl.Move(cp.Vector{}, cp.Vector{}, false)
		if got := ctrl.Collider.Position(); got != start {
			t.Fatalf("move %d: expected %v, got %v", i, start, got)
		}
		// no vertical fan runs, so a zero move reports no ground
		info := ctrl.Collisions
		if info.Below || info.Above || info.Left || info.Right {
			t.Fatalf("move %d: expected all contacts cleared, got %+v", i, info)
		}
		if info.ClimbingSlope || info.DescendingSlope || info.SlopeAngle != 0 {
			t.Fatalf("move %d: expected no slope state, got %+v", i, info)
		}
	}
	if ctrl.Collisions.FaceDir != 1 {
		t.Fatalf("face direction must not change on a zero move, got %v", ctrl.Collisions.FaceDir)
	}

	ctrl.Move(cp.Vector{}, cp.Vector{}, true)
	if !ctrl.Collisions.Below || ctrl.Collider.Position() != start {
		t.Fatalf("expected a platform rider to stay grounded in place, got %+v", ctrl.Collisions)
	}
}

func TestFallLandsOnGround(t *testing.T) {
	w := newGroundWorld(t)
	ctrl := newBody(w, "red", cp.Vector{X: 0, Y: 2})

	ctrl.Move(cp.Vector{Y: -3}, cp.Vector{}, false)

	if !near(ctrl.Collider.Position().Y, 0.5, 1e-9) {
		t.Fatalf("expected to rest on the ground at y=0.5, got %v", ctrl.Collider.Position().Y)
	}
	if !ctrl.Collisions.Below || ctrl.Collisions.Above {
		t.Fatalf("expected below contact, got %+v", ctrl.Collisions)
	}
}

func TestFaceDirFollowsHorizontalMotion(t *testing.T) {
	w := newGroundWorld(t)
	ctrl := newBody(w, "red", cp.Vector{X: 0, Y: 0.5})

	cases := []struct {
		dx   float64
		want float64
	}{
		{-0.1, -1},
		{0, -1},
		{0.2, 1},
	}
	for _, c := range cases {
		ctrl.Move(cp.Vector{X: c.dx}, cp.Vector{}, false)
		if ctrl.Collisions.FaceDir != c.want {
			t.Fatalf("after dx=%v expected face dir %v, got %v", c.dx, c.want, ctrl.Collisions.FaceDir)
		}
	}
}

func TestSlopeClimbDescendSymmetry(t *testing.T) {
	w := NewWorld(nil)
	slope := w.AddStaticPolygon("slope", []cp.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, LayerGround, 0)
	if slope == nil {
		t.Fatal("expected slope collider")
	}
	// bottom right corner resting on the 45 degree surface
	ctrl := newBody(w, "red", cp.Vector{X: 4.5, Y: 5.5})

	ctrl.Move(cp.Vector{X: 0.05}, cp.Vector{}, false)
	if !ctrl.Collisions.ClimbingSlope || !near(ctrl.Collisions.SlopeAngle, 45, 1e-6) {
		t.Fatalf("expected to climb a 45 degree slope, got %+v", ctrl.Collisions)
	}

	climbStep := ctrl.Move(cp.Vector{X: 0.05}, cp.Vector{}, false)
	want := 0.05 * math.Cos(math.Pi/4)
	if !near(climbStep.X, want, 1e-9) || !near(climbStep.Y, want, 1e-9) {
		t.Fatalf("expected climb step (%v, %v), got %v", want, want, climbStep)
	}
	if !ctrl.Collisions.Below {
		t.Fatal("climbing keeps the body grounded")
	}

	downStep := ctrl.Move(cp.Vector{X: -0.05, Y: -1e-4}, cp.Vector{}, false)
	if !ctrl.Collisions.DescendingSlope || !ctrl.Collisions.Below {
		t.Fatalf("expected to descend the slope, got %+v", ctrl.Collisions)
	}
	if !near(climbStep.X+downStep.X, 0, 1e-6) || !near(climbStep.Y+downStep.Y, 0, 1e-6) {
		t.Fatalf("climb %v and descent %v should mirror each other", climbStep, downStep)
	}
}

func TestSteepSlopeIsAWall(t *testing.T) {
	w := newGroundWorld(t)
	// about 80 degrees, steeper than the default limit
	w.AddStaticPolygon("cliff", []cp.Vector{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 5.67}}, LayerGround, 0)
	ctrl := newBody(w, "red", cp.Vector{X: 0.4, Y: 0.5})

	ctrl.Move(cp.Vector{X: 0.3}, cp.Vector{}, false)

	if ctrl.Collisions.ClimbingSlope {
		t.Fatal("slopes above the max angle must not be climbed")
	}
	if !ctrl.Collisions.Right {
		t.Fatalf("expected a right contact, got %+v", ctrl.Collisions)
	}
	if right := ctrl.Collider.Bounds().R; right > 1.2 {
		t.Fatalf("body went through the cliff, right edge at %v", right)
	}
}

func TestPassablePlatform(t *testing.T) {
	w := newGroundWorld(t)
	strip := w.AddStaticBox("strip", cp.BB{L: -2, B: 2, R: 2, T: 2.2}, LayerGround, TagPassable)
	ctrl := newBody(w, "blue", cp.Vector{X: 0, Y: 1.4})

	for i := 0; i < 3; i++ {
		ctrl.Move(cp.Vector{Y: 0.5}, cp.Vector{}, false)
		if ctrl.Collisions.Above {
			t.Fatalf("jump %d: passable strip must not block from below", i)
		}
	}
	if !near(ctrl.Collider.Position().Y, 2.9, 1e-9) {
		t.Fatalf("expected to rise through the strip to y=2.9, got %v", ctrl.Collider.Position().Y)
	}

	ctrl.Move(cp.Vector{Y: -0.3}, cp.Vector{}, false)
	if !ctrl.Collisions.Below || !near(ctrl.Collider.Bounds().B, 2.2, 1e-9) {
		t.Fatalf("expected to land on the strip, bottom at %v", ctrl.Collider.Bounds().B)
	}

	ctrl.JumpHeld = true
	before := ctrl.Collider.Position().Y
	ctrl.Move(cp.Vector{Y: -0.1}, cp.Vector{Y: -1}, false)
	if ctrl.Collisions.Below {
		t.Fatal("down plus jump should drop through the strip")
	}
	if ctrl.Collisions.FallingThroughPlatform != strip.ID {
		t.Fatalf("expected strip %d to be tracked, got %d", strip.ID, ctrl.Collisions.FallingThroughPlatform)
	}
	if !near(ctrl.Collider.Position().Y, before-0.1, 1e-9) {
		t.Fatalf("expected to sink by 0.1, got %v", before-ctrl.Collider.Position().Y)
	}

	ctrl.JumpHeld = false
	for i := 0; i < 40 && !ctrl.Collisions.Below; i++ {
		ctrl.Move(cp.Vector{Y: -0.1}, cp.Vector{}, false)
	}
	if !near(ctrl.Collider.Position().Y, 0.5, 1e-9) {
		t.Fatalf("expected to fall to the ground, got y=%v", ctrl.Collider.Position().Y)
	}
	if ctrl.Collisions.FallingThroughPlatform != 0 {
		t.Fatal("landing on solid ground clears the dropped platform")
	}
}

func TestFlyingEffectSuppression(t *testing.T) {
	setup := func() (*Controller2D, *Collider) {
		w := newGroundWorld(t)
		lower := newBody(w, "red", cp.Vector{X: 0, Y: 0.5})
		lower.Collider.Magnet = magnet.NewObject("red", magnet.Positive, nil)
		lower.Collider.Magnet.RegisterForce(7, cp.Vector{Y: 5})

		upper := w.AddBox("blue", cp.Vector{X: 0, Y: 1.51}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
		upper.FieldID = 7
		return lower, upper
	}

	t.Run("reregister_when_grounded", func(t *testing.T) {
		lower, _ := setup()
		lower.Move(cp.Vector{Y: 0.1}, cp.Vector{}, false)

		if !lower.Collisions.Above {
			t.Fatal("expected to bump into the upper body")
		}
		if lower.Collider.Magnet.HasForce(7) {
			t.Fatal("force of the upper body should be dropped while airborne")
		}
		if lower.PendingForce() != 7 {
			t.Fatalf("expected pending field 7, got %d", lower.PendingForce())
		}

		lower.Move(cp.Vector{Y: -0.2}, cp.Vector{}, false)
		if !lower.Collisions.Below {
			t.Fatal("expected to land")
		}
		if lower.Collider.Magnet.HasForce(7) || lower.PendingForce() != 7 {
			t.Fatalf("expected re-registration to wait for the next tick, pending %d", lower.PendingForce())
		}

		lower.Move(cp.Vector{Y: -0.01}, cp.Vector{}, false)
		f, ok := lower.Collider.Magnet.ForceFrom(7)
		if !ok || f != (cp.Vector{}) {
			t.Fatalf("expected zero force re-registered, got %v %v", f, ok)
		}
		if lower.PendingForce() != 0 {
			t.Fatal("pending state must clear after re-registering")
		}
	})

	t.Run("cancelled_on_field_exit", func(t *testing.T) {
		lower, _ := setup()
		lower.Move(cp.Vector{Y: 0.1}, cp.Vector{}, false)
		lower.Move(cp.Vector{Y: -0.2}, cp.Vector{}, false)
		lower.CancelPendingForce(7)
		lower.Move(cp.Vector{Y: -0.01}, cp.Vector{}, false)
		if lower.Collider.Magnet.HasForce(7) {
			t.Fatal("cancelled re-registration must not happen")
		}
	})
}

func TestNonFiniteDeltaIsIgnored(t *testing.T) {
	w := newGroundWorld(t)
	ctrl := newBody(w, "red", cp.Vector{X: 0, Y: 0.5})
	start := ctrl.Collider.Position()

	ctrl.Move(cp.Vector{X: math.NaN(), Y: math.Inf(1)}, cp.Vector{}, false)

	if got := ctrl.Collider.Position(); got != start {
		t.Fatalf("expected position unchanged, got %v", got)
	}
}

func TestStandingOnPlatformForcesBelow(t *testing.T) {
	w := NewWorld(nil)
	ctrl := newBody(w, "red", cp.Vector{X: 0, Y: 5})
	ctrl.Move(cp.Vector{Y: 0.1}, cp.Vector{}, true)
	if !ctrl.Collisions.Below {
		t.Fatal("a carried passenger counts as grounded")
	}
}
