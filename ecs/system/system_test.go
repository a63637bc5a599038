package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/ecs/entity"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"github.com/milk9111/magnetpair/prefabs"
)

func TestAxisDeadzone(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.1, 0},
		{-0.2, 0},
		{0.5, 1},
		{-0.9, -1},
		{3, 1},
	}
	for _, tt := range tests {
		if got := axis(tt.in); got != tt.want {
			t.Fatalf("axis(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestInputSystemLatchesEdges(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{Color: component.Blue}); err != nil {
		t.Fatal(err)
	}
	in := &component.Input{}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), in); err != nil {
		t.Fatal(err)
	}

	src := StaticSource{}
	sys := NewInputSystem(src)

	steps := []struct {
		name     string
		state    component.InputState
		pressed  bool
		released bool
		unplug   bool
		moveX    float64
	}{
		{name: "press", state: component.InputState{Jump: true, MoveX: 0.7}, pressed: true, moveX: 1},
		{name: "hold", state: component.InputState{Jump: true, Unplug: true}, unplug: true},
		{name: "release", state: component.InputState{MoveX: -0.1}, released: true},
		{name: "idle"},
	}
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			src[component.Blue] = step.state
			src[component.Red] = component.InputState{Jump: true}
			sys.Update(w)
			if in.JumpPressed != step.pressed {
				t.Fatalf("expected JumpPressed %v, got %v", step.pressed, in.JumpPressed)
			}
			if in.JumpReleased != step.released {
				t.Fatalf("expected JumpReleased %v, got %v", step.released, in.JumpReleased)
			}
			if in.UnplugPressed != step.unplug {
				t.Fatalf("expected UnplugPressed %v, got %v", step.unplug, in.UnplugPressed)
			}
			if in.MoveX != step.moveX {
				t.Fatalf("expected MoveX %v, got %v", step.moveX, in.MoveX)
			}
		})
	}
}

// newPairWorld builds a paired red and blue standing apart by gap on open ground.
func newPairWorld(t *testing.T, gap float64) (*ecs.World, *movement.Context, *movement.PlayerMovement, *movement.PlayerMovement) {
	t.Helper()
	pw := physics.NewWorld(nil)
	ctx := movement.NewContext(pw, nil)
	pw.AddStaticBox("ground", cp.BB{L: -20, B: -1, R: 20, T: 0}, physics.LayerGround, 0)

	w := ecs.NewWorld()
	tuning := prefabs.DefaultTuning()
	_, red, err := entity.NewCharacter(w, ctx, component.Red, cp.Vector{X: 0, Y: 0.5}, tuning)
	if err != nil {
		t.Fatal(err)
	}
	_, blue, err := entity.NewCharacter(w, ctx, component.Blue, cp.Vector{X: gap, Y: 0.5}, tuning)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entity.NewPair(w, ctx, red, blue, tuning.Override); err != nil {
		t.Fatal(err)
	}
	return w, ctx, red, blue
}

func TestFieldSystemRegistersAndUnregisters(t *testing.T) {
	w, ctx, red, blue := newPairWorld(t, 2)
	sys := NewFieldSystem(ctx.Physics)

	redField, blueField := red.Controller.Collider.FieldID, blue.Controller.Collider.FieldID
	if redField == 0 || blueField == 0 {
		t.Fatalf("expected both characters to carry a field, got %v and %v", redField, blueField)
	}
	if red.AllyField() != blueField || blue.AllyField() != redField {
		t.Fatalf("expected ally fields %v and %v, got %v and %v", blueField, redField, red.AllyField(), blue.AllyField())
	}

	sys.Update(w)
	if !red.Magnet.HasForce(blueField) || !blue.Magnet.HasForce(redField) {
		t.Fatalf("expected both characters inside the other's field")
	}
	first := red.Magnet.Force()

	ctx.Physics.Translate(blue.Controller.Collider, cp.Vector{X: 1})
	sys.Update(w)
	if got := red.Magnet.Force(); got.X >= first.X {
		t.Fatalf("expected weaker pull after moving apart, got %v then %v", first, got)
	}

	ctx.Physics.Translate(blue.Controller.Collider, cp.Vector{X: 10})
	sys.Update(w)
	if red.Magnet.HasForce(blueField) || blue.Magnet.HasForce(redField) {
		t.Fatalf("expected forces removed once out of range")
	}
	if f := red.Magnet.Force(); f != (cp.Vector{}) {
		t.Fatalf("expected zero force, got %v", f)
	}
}

func TestFieldSystemIgnoresOwner(t *testing.T) {
	w, ctx, red, _ := newPairWorld(t, 15)
	NewFieldSystem(ctx.Physics).Update(w)
	if red.Magnet.Len() != 0 {
		t.Fatalf("expected no forces on a lone character")
	}
}

func TestButtonSystem(t *testing.T) {
	tests := []struct {
		name       string
		continuous bool
		wantOpen   bool
		wantEvents []ecs.EventKind
	}{
		{name: "latching", continuous: false, wantOpen: true, wantEvents: []ecs.EventKind{EventDoorOpened}},
		{name: "continuous", continuous: true, wantOpen: false, wantEvents: []ecs.EventKind{EventDoorOpened, EventDoorClosed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ctx, red, _ := newPairWorld(t, 15)
			pw := ctx.Physics
			door, err := entity.NewDoor(w, pw, levels.DoorSpec{Name: "gate", Position: cp.Vector{X: 8, Y: 1}, Size: cp.Vector{X: 1, Y: 2}})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := entity.NewButton(w, pw, "button", levels.ButtonSpec{
				Color: levels.Red, Position: cp.Vector{X: 0, Y: 0.25}, Size: cp.Vector{X: 1, Y: 0.5},
				Door: "gate", Continuous: tt.continuous,
			}); err != nil {
				t.Fatal(err)
			}

			sys := NewButtonSystem(pw)
			var got []ecs.EventKind
			step := func() {
				sys.Update(w)
				for _, ev := range w.Events().Drain() {
					got = append(got, ev.Kind)
				}
			}
			step()
			step()
			pw.Translate(red.Controller.Collider, cp.Vector{X: -5})
			step()

			d, ok := ecs.Get(w, door, component.DoorComponent.Kind())
			if !ok {
				t.Fatalf("expected door component")
			}
			if d.Open != tt.wantOpen {
				t.Fatalf("expected open %v, got %v", tt.wantOpen, d.Open)
			}
			if d.Collider.Enabled() == d.Open {
				t.Fatalf("expected collider enabled %v, got %v", !d.Open, d.Collider.Enabled())
			}
			if len(got) != len(tt.wantEvents) {
				t.Fatalf("expected events %v, got %v", tt.wantEvents, got)
			}
			for i := range got {
				if got[i] != tt.wantEvents[i] {
					t.Fatalf("expected events %v, got %v", tt.wantEvents, got)
				}
			}
		})
	}
}

func TestButtonIgnoresOtherColor(t *testing.T) {
	w, ctx, _, _ := newPairWorld(t, 15)
	pw := ctx.Physics
	if _, err := entity.NewDoor(w, pw, levels.DoorSpec{Name: "gate", Position: cp.Vector{X: 8, Y: 1}, Size: cp.Vector{X: 1, Y: 2}}); err != nil {
		t.Fatal(err)
	}
	if _, err := entity.NewButton(w, pw, "button", levels.ButtonSpec{
		Color: levels.Blue, Position: cp.Vector{X: 0, Y: 0.25}, Size: cp.Vector{X: 1, Y: 0.5}, Door: "gate",
	}); err != nil {
		t.Fatal(err)
	}
	NewButtonSystem(pw).Update(w)
	if n := w.Events().Len(); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestGoalSystemFillsAndDrains(t *testing.T) {
	w, ctx, _, blue := newPairWorld(t, 15)
	pw := ctx.Physics
	for _, g := range []levels.GoalSpec{
		{Color: levels.Red, Position: cp.Vector{X: 0, Y: 0.5}, Size: cp.Vector{X: 1, Y: 1}},
		{Color: levels.Blue, Position: cp.Vector{X: 15, Y: 0.5}, Size: cp.Vector{X: 1, Y: 1}},
	} {
		if _, err := entity.NewGoalPad(w, pw, g); err != nil {
			t.Fatal(err)
		}
	}
	he := ecs.CreateEntity(w)
	heart := &component.Heart{Max: 0.5, Increment: 1, Decrement: 2}
	if err := ecs.Add(w, he, component.HeartComponent.Kind(), heart); err != nil {
		t.Fatal(err)
	}
	sys := NewGoalSystem(ctx)

	for i := 0; i < 15; i++ {
		sys.Update(w)
	}
	if heart.Progress <= 0 || heart.Completed {
		t.Fatalf("expected partial progress, got %+v", *heart)
	}

	pw.Translate(blue.Controller.Collider, cp.Vector{X: 3})
	for i := 0; i < 30; i++ {
		sys.Update(w)
	}
	if heart.Progress != 0 {
		t.Fatalf("expected drained heart, got %v", heart.Progress)
	}

	pw.Translate(blue.Controller.Collider, cp.Vector{X: -3})
	completed := 0
	for i := 0; i < 60; i++ {
		sys.Update(w)
		for _, ev := range w.Events().Drain() {
			if ev.Kind == EventLevelCompleted {
				completed++
			}
		}
	}
	if completed != 1 || !heart.Completed {
		t.Fatalf("expected a single completion, got %d", completed)
	}
	if heart.Fraction() != 1 {
		t.Fatalf("expected full heart, got %v", heart.Fraction())
	}
}
