package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/physics"
)

// FieldSystem keeps every magnetic receiver's force table in sync with the
// fields it overlaps: a force is registered on enter, refreshed while the
// receiver stays in range and removed on exit.
type FieldSystem struct {
	physics *physics.World
	tracker *physics.OverlapTracker
}

func NewFieldSystem(pw *physics.World) *FieldSystem {
	return &FieldSystem{physics: pw, tracker: physics.NewOverlapTracker()}
}

func (s *FieldSystem) Update(w *ecs.World) {
	if w == nil || s.physics == nil {
		return
	}
	ecs.ForEach(w, component.FieldComponent.Kind(), func(e ecs.Entity, f *component.Field) {
		if f.Field == nil || f.Sensor == nil {
			return
		}
		var current []*physics.Collider
		for _, c := range s.physics.Overlapping(f.Sensor, physics.MaskMagnetic) {
			if c == f.Owner || c.Sensor() || c.Magnet == nil {
				continue
			}
			current = append(current, c)
		}

		id := f.Field.ID
		ev := s.tracker.Update(f.Sensor.ID, current)
		for _, cid := range ev.Enter {
			c, ok := s.physics.Collider(cid)
			if !ok {
				continue
			}
			if c.Magnet.HasForce(id) {
				c.Magnet.UpdateForce(id, s.force(f, c))
				continue
			}
			c.Magnet.RegisterForce(id, s.force(f, c))
		}
		for _, cid := range ev.Stay {
			if c, ok := s.physics.Collider(cid); ok {
				c.Magnet.UpdateForce(id, s.force(f, c))
			}
		}
		for _, cid := range ev.Exit {
			c, ok := s.physics.Collider(cid)
			if !ok {
				continue
			}
			if c.Magnet.HasForce(id) {
				c.Magnet.UnregisterForce(id)
			}
			if ctrl, ok := s.physics.Controller(cid); ok {
				ctrl.CancelPendingForce(id)
			}
		}
	})
}

func (s *FieldSystem) force(f *component.Field, c *physics.Collider) cp.Vector {
	return f.Field.ComputeForce(f.Owner.Position(), c.Position(), c.Magnet, c.HalfDiagonal())
}
