package system

import (
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/movement"
)

// PlatformSystem advances the moving platforms after the characters moved.
type PlatformSystem struct {
	ctx *movement.Context
}

func NewPlatformSystem(ctx *movement.Context) *PlatformSystem {
	return &PlatformSystem{ctx: ctx}
}

func (s *PlatformSystem) Update(w *ecs.World) {
	dt := s.ctx.Dt()
	ecs.ForEach(w, component.PlatformComponent.Kind(), func(e ecs.Entity, p *component.Platform) {
		p.Displacement = p.Controller.Update(dt)
	})
}

// TransformSyncSystem copies collider centers into transforms.
type TransformSyncSystem struct{}

func NewTransformSyncSystem() *TransformSyncSystem {
	return &TransformSyncSystem{}
}

func (s *TransformSyncSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *component.Body, t *component.Transform) {
		p := b.Collider.Position()
		t.X, t.Y = p.X, p.Y
	})
}
