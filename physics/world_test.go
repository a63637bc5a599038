package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestRaycastLayersAndIgnore(t *testing.T) {
	w := NewWorld(nil)
	wall := w.AddStaticBox("wall", cp.BB{L: 2, B: -1, R: 3, T: 1}, LayerGround, 0)
	self := w.AddBox("self", cp.Vector{}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)

	hit, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, MaskSolid, self.ID)
	if !ok || hit.Collider != wall {
		t.Fatalf("expected to hit the wall, got %+v", hit)
	}
	if !near(hit.Distance, 2, 1e-9) || !near(hit.Normal.X, -1, 1e-9) {
		t.Fatalf("expected distance 2 and normal (-1,0), got %v %v", hit.Distance, hit.Normal)
	}

	if _, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, LayerObject, self.ID); ok {
		t.Fatal("mask without ground must not hit the wall")
	}
	if _, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 1}, 1.5, MaskSolid, self.ID); ok {
		t.Fatal("ray shorter than the gap must miss")
	}
	if _, ok := w.Raycast(cp.Vector{}, cp.Vector{}, 5, MaskSolid, 0); ok {
		t.Fatal("zero direction never hits")
	}
}

func TestDisabledColliderIsInvisible(t *testing.T) {
	w := NewWorld(nil)
	door := w.AddStaticBox("door", cp.BB{L: 1, B: -1, R: 1.5, T: 1}, LayerDoor, 0)
	mover := w.AddBox("mover", cp.Vector{X: 1.2}, cp.Vector{X: 0.2, Y: 0.2}, LayerCharacter, 0)

	w.SetEnabled(door, false)
	if _, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, MaskSolid, mover.ID); ok {
		t.Fatal("disabled door must not block rays")
	}
	if got := w.Overlapping(mover, MaskAll); len(got) != 0 {
		t.Fatalf("disabled door must not overlap, got %d", len(got))
	}

	w.SetEnabled(door, true)
	if hit, ok := w.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, MaskSolid, mover.ID); !ok || hit.Collider != door {
		t.Fatal("re-enabled door blocks again")
	}
}

func TestOverlappingShapes(t *testing.T) {
	w := NewWorld(nil)
	field := w.AddSensorCircle("field", cp.Vector{}, 2, LayerField)
	near1 := w.AddBox("near", cp.Vector{X: 2.4}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
	w.AddBox("far", cp.Vector{X: 2.6, Y: 2.6}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
	w.AddStaticBox("ground", cp.BB{L: -5, B: -3, R: 5, T: -1.5}, LayerGround, 0)

	got := w.Overlapping(field, MaskMagnetic)
	if len(got) != 1 || got[0] != near1 {
		names := make([]string, 0, len(got))
		for _, c := range got {
			names = append(names, c.Name)
		}
		t.Fatalf("expected only the near box, got %v", names)
	}

	// sensors are reported too
	pad := w.AddSensorBox("pad", cp.Vector{X: 2.4, Y: -0.4}, cp.Vector{X: 1, Y: 0.3}, LayerTrigger)
	if got := w.Overlapping(near1, LayerTrigger); len(got) != 1 || got[0] != pad {
		t.Fatalf("expected the trigger pad, got %d colliders", len(got))
	}
}

func TestMovedColliderIsQueriedAtNewPosition(t *testing.T) {
	w := NewWorld(nil)
	box := w.AddBox("box", cp.Vector{X: 2}, cp.Vector{X: 1, Y: 1}, LayerObject, 0)
	sensor := w.AddSensorBox("pad", cp.Vector{X: 10}, cp.Vector{X: 1, Y: 1}, LayerTrigger)

	w.SetPosition(box, cp.Vector{X: 10})

	hit, ok := w.Raycast(cp.Vector{X: 5}, cp.Vector{X: 1}, 10, LayerObject, 0)
	if !ok || hit.Collider != box {
		t.Fatalf("expected ray to hit the moved box, got %+v", hit)
	}
	if !near(hit.Distance, 4.5, 1e-9) {
		t.Fatalf("expected distance 4.5, got %v", hit.Distance)
	}
	if _, ok := w.Raycast(cp.Vector{X: 0}, cp.Vector{X: 1}, 3, LayerObject, 0); ok {
		t.Fatal("ray through the old position must miss")
	}
	if got := w.Overlapping(sensor, LayerObject); len(got) != 1 || got[0] != box {
		t.Fatalf("expected the pad to overlap the moved box, got %v", got)
	}

	w.Translate(box, cp.Vector{Y: 5})
	if got := w.Overlapping(sensor, LayerObject); len(got) != 0 {
		t.Fatalf("expected no overlap after moving away, got %v", got)
	}
}

func TestFollowersMoveWithLeader(t *testing.T) {
	w := NewWorld(nil)
	body := w.AddBox("crate", cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 1}, LayerObject, 0)
	field := w.AddSensorCircle("crate field", cp.Vector{X: 1, Y: 1.5}, 3, LayerField)
	w.Attach(field, body)

	w.Translate(body, cp.Vector{X: 2, Y: -1})

	if got := field.Position(); !near(got.X, 3, 1e-12) || !near(got.Y, 0.5, 1e-12) {
		t.Fatalf("expected field at (3, 0.5), got %v", got)
	}

	w.Remove(body)
	if _, ok := w.Collider(body.ID); ok {
		t.Fatal("removed collider still registered")
	}
	w.Translate(field, cp.Vector{X: 1})
	if got := field.Position(); !near(got.X, 4, 1e-12) {
		t.Fatalf("detached follower should still move on its own, got %v", got)
	}
}

func TestPolygonWindingIsNormalized(t *testing.T) {
	w := NewWorld(nil)
	// clockwise input
	slope := w.AddStaticPolygon("slope", []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}}, LayerGround, 0)
	hit, ok := w.Raycast(cp.Vector{X: 0.5, Y: 2}, cp.Vector{Y: -1}, 5, MaskSolid, 0)
	if !ok || hit.Collider != slope {
		t.Fatal("expected to hit the slope from above")
	}
	if !near(hit.Normal.X, -hit.Normal.Y, 1e-9) || hit.Normal.Y <= 0 {
		t.Fatalf("expected an up-left normal, got %v", hit.Normal)
	}
	if w.AddStaticPolygon("degenerate", []cp.Vector{{}, {X: 1}}, LayerGround, 0) != nil {
		t.Fatal("two vertices are not a polygon")
	}
}

func TestOverlapTracker(t *testing.T) {
	w := NewWorld(nil)
	a := w.AddBox("a", cp.Vector{}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
	b := w.AddBox("b", cp.Vector{X: 5}, cp.Vector{X: 1, Y: 1}, LayerCharacter, 0)
	tr := NewOverlapTracker()

	steps := []struct {
		current           []*Collider
		enter, stay, exit []ColliderID
	}{
		{[]*Collider{a}, []ColliderID{a.ID}, nil, nil},
		{[]*Collider{b, a}, []ColliderID{b.ID}, []ColliderID{a.ID}, nil},
		{[]*Collider{b}, nil, []ColliderID{b.ID}, []ColliderID{a.ID}},
		{nil, nil, nil, []ColliderID{b.ID}},
	}
	for i, s := range steps {
		ev := tr.Update(99, s.current)
		if !sameIDs(ev.Enter, s.enter) || !sameIDs(ev.Stay, s.stay) || !sameIDs(ev.Exit, s.exit) {
			t.Fatalf("step %d: got %+v", i, ev)
		}
	}
	if tr.Touching(99, a.ID) {
		t.Fatal("a left the trigger")
	}
}

func sameIDs(a, b []ColliderID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
