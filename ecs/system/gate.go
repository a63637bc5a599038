package system

import (
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/physics"
	"github.com/sirupsen/logrus"
)

// ButtonSystem opens a door when a character of the button's color steps on
// it. Continuous buttons close the door again on release.
type ButtonSystem struct {
	physics *physics.World
	log     logrus.FieldLogger
}

func NewButtonSystem(pw *physics.World) *ButtonSystem {
	return &ButtonSystem{physics: pw, log: pw.Log().WithField("system", "button")}
}

func (s *ButtonSystem) Update(w *ecs.World) {
	if w == nil || s.physics == nil {
		return
	}
	colors := characterColors(w)
	doors := make(map[string]*doorRef)
	ecs.ForEach(w, component.DoorComponent.Kind(), func(e ecs.Entity, d *component.Door) {
		doors[d.Name] = &doorRef{entity: e, door: d}
	})

	ecs.ForEach(w, component.ButtonComponent.Kind(), func(e ecs.Entity, b *component.Button) {
		was := b.Pressed
		b.Pressed = touchedBy(s.physics, b.Sensor, colors, b.Color)

		ref, ok := doors[b.Door]
		if !ok {
			return
		}
		switch {
		case b.Pressed && !was && !ref.door.Open:
			s.setOpen(w, ref, true)
		case !b.Pressed && was && b.Continuous && ref.door.Open:
			s.setOpen(w, ref, false)
		}
	})
}

type doorRef struct {
	entity ecs.Entity
	door   *component.Door
}

func (s *ButtonSystem) setOpen(w *ecs.World, ref *doorRef, open bool) {
	ref.door.Open = open
	s.physics.SetEnabled(ref.door.Collider, !open)

	kind := EventDoorClosed
	if open {
		kind = EventDoorOpened
	}
	w.Events().Push(ecs.Event{Kind: kind, Entity: ref.entity, Data: ref.door.Name})
	s.log.WithField("door", ref.door.Name).Debug(string(kind))
}

// characterColors maps character collider ids to their color.
func characterColors(w *ecs.World) map[physics.ColliderID]component.Color {
	out := make(map[physics.ColliderID]component.Color, 2)
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, ch *component.Character, b *component.Body) {
		out[b.Collider.ID] = ch.Color
	})
	return out
}

func touchedBy(pw *physics.World, sensor *physics.Collider, colors map[physics.ColliderID]component.Color, want component.Color) bool {
	for _, c := range pw.Overlapping(sensor, physics.LayerCharacter) {
		if color, ok := colors[c.ID]; ok && color == want {
			return true
		}
	}
	return false
}
