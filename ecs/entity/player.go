package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"github.com/milk9111/magnetpair/prefabs"
)

// NewCharacter creates a character at pos. Red is a positive magnet and
// Blue a negative one.
func NewCharacter(w *ecs.World, ctx *movement.Context, color component.Color, pos cp.Vector, t prefabs.Tuning) (ecs.Entity, *movement.PlayerMovement, error) {
	name := color.String()
	col := ctx.Physics.AddBox(name, pos, t.CharacterSize, physics.LayerCharacter, 0)

	polarity := magnet.Positive
	if color == component.Blue {
		polarity = magnet.Negative
	}
	col.Magnet = magnet.NewObject(name, polarity, ctx.Log)
	col.Magnet.ForceReceived = t.ForceReceived

	ctrl := physics.NewController2D(ctx.Physics, col, physics.MaskSolid)
	if t.MaxSlopeAngle > 0 {
		ctrl.MaxSlopeAngle = t.MaxSlopeAngle
	}
	configureRays(&ctrl.RaycastController, t)

	pm := movement.NewPlayerMovement(ctx, name, ctrl, t.Character)

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{Color: color, Movement: pm}); err != nil {
		return 0, nil, fmt.Errorf("character %s: add character: %w", name, err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, nil, fmt.Errorf("character %s: add input: %w", name, err)
	}
	if err := addBody(w, e, col, ctrl); err != nil {
		return 0, nil, fmt.Errorf("character %s: %w", name, err)
	}
	if err := ecs.Add(w, e, component.MagneticComponent.Kind(), &component.Magnetic{Object: col.Magnet}); err != nil {
		return 0, nil, fmt.Errorf("character %s: add magnetic: %w", name, err)
	}

	// the field takes the owner's sign so unlike characters attract
	f := t.CharacterField
	sign := float64(polarity)
	if f.Radius > 0 {
		fc, err := addField(w, e, ctx.Physics, col, sign*f.StrengthX, sign*f.StrengthY, f.Radius, f.YFloorScale)
		if err != nil {
			return 0, nil, fmt.Errorf("character %s: %w", name, err)
		}
		pm.FieldSensor = fc.Sensor
	}
	return e, pm, nil
}

// NewPair links both characters under one override.
func NewPair(w *ecs.World, ctx *movement.Context, red, blue *movement.PlayerMovement, cfg movement.OverrideConfig) (ecs.Entity, error) {
	o, err := movement.NewOverride(ctx, red, blue, cfg)
	if err != nil {
		return 0, err
	}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PairComponent.Kind(), &component.Pair{Override: o}); err != nil {
		return 0, fmt.Errorf("pair: add pair: %w", err)
	}
	return e, nil
}

func addBody(w *ecs.World, e ecs.Entity, col *physics.Collider, ctrl *physics.Controller2D) error {
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Collider: col, Controller: ctrl}); err != nil {
		return fmt.Errorf("add body: %w", err)
	}
	p := col.Position()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: p.X, Y: p.Y}); err != nil {
		return fmt.Errorf("add transform: %w", err)
	}
	return nil
}

func configureRays(rc *physics.RaycastController, t prefabs.Tuning) {
	if t.SkinWidth > 0 {
		rc.SkinWidth = t.SkinWidth
	}
	if t.RaySpacing > 0 {
		rc.RaySpacing = t.RaySpacing
	}
	rc.RecomputeRaySpacing()
	rc.RecomputeRayOrigins()
}
