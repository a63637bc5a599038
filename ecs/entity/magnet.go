package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"github.com/milk9111/magnetpair/prefabs"
)

var defaultCrateSize = cp.Vector{X: 1, Y: 1}

// addField gives owner a circular field range that follows it. The field id
// is the owner's collider id.
func addField(w *ecs.World, e ecs.Entity, pw *physics.World, owner *physics.Collider, strengthX, strengthY, radius, yFloorScale float64) (*component.Field, error) {
	id := magnet.SourceID(owner.ID)
	owner.FieldID = id

	f := magnet.NewField(id, strengthX, strengthY, owner.HalfDiagonal())
	if yFloorScale > 0 {
		f.YFloorScale = yFloorScale
	}
	sensor := pw.AddSensorCircle(owner.Name+"_field", owner.Position(), radius, physics.LayerField)
	pw.Attach(sensor, owner)

	fc := &component.Field{Field: f, Sensor: sensor, Owner: owner}
	if err := ecs.Add(w, e, component.FieldComponent.Kind(), fc); err != nil {
		return nil, fmt.Errorf("add field: %w", err)
	}
	return fc, nil
}

// NewCrate creates a magnetic crate. Crates with a field configured also push
// on others.
func NewCrate(w *ecs.World, ctx *movement.Context, spec levels.CrateSpec, t prefabs.Tuning) (ecs.Entity, error) {
	size := spec.Size
	if size.X <= 0 || size.Y <= 0 {
		size = defaultCrateSize
	}
	col := ctx.Physics.AddBox(spec.Name, spec.Position, size, physics.LayerObject, 0)
	polarity := magnet.ParsePolarity(spec.Polarity)
	col.Magnet = magnet.NewObject(spec.Name, polarity, ctx.Log)
	col.Magnet.ForceReceived = t.Crate.ForceReceived

	ctrl := physics.NewController2D(ctx.Physics, col, physics.MaskSolid)
	if t.MaxSlopeAngle > 0 {
		ctrl.MaxSlopeAngle = t.MaxSlopeAngle
	}
	configureRays(&ctrl.RaycastController, t)

	om := movement.NewObjectMovement(ctx, ctrl)
	if t.Crate.AccelerationTime > 0 {
		om.AccelerationTime = t.Crate.AccelerationTime
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.CrateComponent.Kind(), &component.Crate{Movement: om}); err != nil {
		return 0, fmt.Errorf("crate %s: add crate: %w", spec.Name, err)
	}
	if err := addBody(w, e, col, ctrl); err != nil {
		return 0, fmt.Errorf("crate %s: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.MagneticComponent.Kind(), &component.Magnetic{Object: col.Magnet}); err != nil {
		return 0, fmt.Errorf("crate %s: add magnetic: %w", spec.Name, err)
	}
	if f := spec.Field; f != nil && f.Radius > 0 {
		sign := float64(polarity)
		if _, err := addField(w, e, ctx.Physics, col, sign*f.StrengthX, sign*f.StrengthY, f.Radius, 0); err != nil {
			return 0, fmt.Errorf("crate %s: %w", spec.Name, err)
		}
	}
	return e, nil
}

// NewMagnet creates a static solid block with a field.
func NewMagnet(w *ecs.World, pw *physics.World, spec levels.MagnetSpec) (ecs.Entity, error) {
	bb := cp.NewBBForExtents(spec.Position, spec.Size.X/2, spec.Size.Y/2)
	col := pw.AddStaticBox(spec.Name, bb, physics.LayerGround, 0)

	e := ecs.CreateEntity(w)
	if err := addBody(w, e, col, nil); err != nil {
		return 0, fmt.Errorf("magnet %s: %w", spec.Name, err)
	}
	if err := ecs.Add(w, e, component.StaticTagComponent.Kind(), &component.StaticTag{}); err != nil {
		return 0, fmt.Errorf("magnet %s: add static tag: %w", spec.Name, err)
	}
	f := spec.Field
	if _, err := addField(w, e, pw, col, f.StrengthX, f.StrengthY, f.Radius, 0); err != nil {
		return 0, fmt.Errorf("magnet %s: %w", spec.Name, err)
	}
	return e, nil
}
