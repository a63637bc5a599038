package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"github.com/milk9111/magnetpair/prefabs"
)

// Spawned holds the entities the simulation refers to after a build.
type Spawned struct {
	Red, Blue ecs.Entity
	Pair      ecs.Entity
	Heart     ecs.Entity
}

// LoadLevelToWorld creates every entity and collider of lvl. Characters are
// built first so the shared gravity is known before the crates.
func LoadLevelToWorld(w *ecs.World, ctx *movement.Context, lvl *levels.Level, t prefabs.Tuning) (Spawned, error) {
	var out Spawned
	if err := lvl.Validate(); err != nil {
		return out, err
	}
	redPos, _ := lvl.Spawn(levels.Red)
	bluePos, _ := lvl.Spawn(levels.Blue)

	var red, blue *movement.PlayerMovement
	var err error
	if out.Red, red, err = NewCharacter(w, ctx, component.Red, redPos, t); err != nil {
		return out, err
	}
	if out.Blue, blue, err = NewCharacter(w, ctx, component.Blue, bluePos, t); err != nil {
		return out, err
	}
	if out.Pair, err = NewPair(w, ctx, red, blue, t.Override); err != nil {
		return out, err
	}

	if err := addStatic(w, ctx.Physics, lvl); err != nil {
		return out, err
	}
	for _, spec := range lvl.Magnets {
		if _, err := NewMagnet(w, ctx.Physics, spec); err != nil {
			return out, err
		}
	}
	for _, spec := range lvl.Crates {
		if _, err := NewCrate(w, ctx, spec, t); err != nil {
			return out, err
		}
	}
	for _, spec := range lvl.Platforms {
		if _, err := NewPlatform(w, ctx.Physics, spec, t); err != nil {
			return out, err
		}
	}
	for _, spec := range lvl.Doors {
		if _, err := NewDoor(w, ctx.Physics, spec); err != nil {
			return out, err
		}
	}
	for i, spec := range lvl.Buttons {
		if _, err := NewButton(w, ctx.Physics, fmt.Sprintf("button_%d", i), spec); err != nil {
			return out, err
		}
	}
	for _, spec := range lvl.Goals {
		if _, err := NewGoalPad(w, ctx.Physics, spec); err != nil {
			return out, err
		}
	}

	out.Heart = ecs.CreateEntity(w)
	heart := &component.Heart{Max: lvl.Heart.Max, Increment: lvl.Heart.Increment, Decrement: lvl.Heart.Decrement}
	if err := ecs.Add(w, out.Heart, component.HeartComponent.Kind(), heart); err != nil {
		return out, fmt.Errorf("level %s: add heart: %w", lvl.Name, err)
	}
	return out, nil
}

func addStatic(w *ecs.World, pw *physics.World, lvl *levels.Level) error {
	add := func(col *physics.Collider) error {
		if col == nil {
			return nil
		}
		e := ecs.CreateEntity(w)
		if err := addBody(w, e, col, nil); err != nil {
			return fmt.Errorf("level %s: %s: %w", lvl.Name, col.Name, err)
		}
		if err := ecs.Add(w, e, component.StaticTagComponent.Kind(), &component.StaticTag{}); err != nil {
			return fmt.Errorf("level %s: %s: add static tag: %w", lvl.Name, col.Name, err)
		}
		return nil
	}

	for i, b := range lvl.Blocks() {
		var tags physics.Tag
		switch b.Kind {
		case levels.TilePassable:
			tags = physics.TagPassable
		case levels.TileSlidingWall:
			tags = physics.TagSlidingWall
		}
		if err := add(pw.AddStaticBox(fmt.Sprintf("tiles_%d", i), b.BB, physics.LayerGround, tags)); err != nil {
			return err
		}
	}
	for i, bb := range lvl.BoundsWalls() {
		if err := add(pw.AddStaticBox(fmt.Sprintf("bounds_%d", i), bb, physics.LayerGround, 0)); err != nil {
			return err
		}
	}
	for _, p := range lvl.Polygons {
		if err := add(pw.AddStaticPolygon(p.Name, p.Points, physics.LayerGround, parseTags(p.Tags))); err != nil {
			return err
		}
	}
	return nil
}

func parseTags(names []string) physics.Tag {
	var tags physics.Tag
	for _, n := range names {
		tags |= physics.ParseTag(n)
	}
	return tags
}

// NewPlatform creates a moving platform starting on its first waypoint.
func NewPlatform(w *ecs.World, pw *physics.World, spec levels.PlatformSpec, t prefabs.Tuning) (ecs.Entity, error) {
	if len(spec.Waypoints) < 2 {
		return 0, fmt.Errorf("platform %s: need at least 2 waypoints, got %d", spec.Name, len(spec.Waypoints))
	}
	curve, err := prefabs.LoadCurve(spec.Ease)
	if err != nil {
		return 0, fmt.Errorf("platform %s: %w", spec.Name, err)
	}

	col := pw.AddBox(spec.Name, spec.Waypoints[0], spec.Size, physics.LayerPlatform, parseTags(spec.Tags))
	path := physics.NewWaypointPath(spec.Waypoints, spec.Cyclic, spec.Speed, spec.Wait, curve.Func())
	pc := physics.NewPlatformController(pw, col, path)
	configureRays(&pc.RaycastController, t)

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{Controller: pc}); err != nil {
		return 0, fmt.Errorf("platform %s: add platform: %w", spec.Name, err)
	}
	if err := addBody(w, e, col, nil); err != nil {
		return 0, fmt.Errorf("platform %s: %w", spec.Name, err)
	}
	return e, nil
}

func NewDoor(w *ecs.World, pw *physics.World, spec levels.DoorSpec) (ecs.Entity, error) {
	bb := cp.NewBBForExtents(spec.Position, spec.Size.X/2, spec.Size.Y/2)
	col := pw.AddStaticBox(spec.Name, bb, physics.LayerDoor, 0)

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Name: spec.Name, Collider: col}); err != nil {
		return 0, fmt.Errorf("door %s: add door: %w", spec.Name, err)
	}
	if err := addBody(w, e, col, nil); err != nil {
		return 0, fmt.Errorf("door %s: %w", spec.Name, err)
	}
	return e, nil
}

func NewButton(w *ecs.World, pw *physics.World, name string, spec levels.ButtonSpec) (ecs.Entity, error) {
	sensor := pw.AddSensorBox(name, spec.Position, spec.Size, physics.LayerTrigger)
	b := &component.Button{
		Color:      component.ParseColor(spec.Color),
		Door:       spec.Door,
		Continuous: spec.Continuous,
		Sensor:     sensor,
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ButtonComponent.Kind(), b); err != nil {
		return 0, fmt.Errorf("button %s: add button: %w", name, err)
	}
	return e, nil
}

func NewGoalPad(w *ecs.World, pw *physics.World, spec levels.GoalSpec) (ecs.Entity, error) {
	name := "goal_" + spec.Color
	sensor := pw.AddSensorBox(name, spec.Position, spec.Size, physics.LayerTrigger)
	e := ecs.CreateEntity(w)
	pad := &component.GoalPad{Color: component.ParseColor(spec.Color), Sensor: sensor}
	if err := ecs.Add(w, e, component.GoalPadComponent.Kind(), pad); err != nil {
		return 0, fmt.Errorf("goal %s: add goal pad: %w", spec.Color, err)
	}
	return e, nil
}
