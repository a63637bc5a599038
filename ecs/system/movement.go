package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/movement"
)

// PlayerMovementSystem feeds input to the characters and moves them. Paired
// characters go through their override; a character without a pair moves
// on its own.
type PlayerMovementSystem struct{}

func NewPlayerMovementSystem() *PlayerMovementSystem {
	return &PlayerMovementSystem{}
}

func (s *PlayerMovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	inputs := make(map[*movement.PlayerMovement]movement.Input)
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, ch *component.Character, in *component.Input) {
		inputs[ch.Movement] = toMovementInput(in)
	})

	paired := make(map[*movement.PlayerMovement]bool)
	ecs.ForEach(w, component.PairComponent.Kind(), func(e ecs.Entity, p *component.Pair) {
		o := p.Override
		if o == nil {
			return
		}
		o.HandleInput(o.Red, inputs[o.Red])
		o.HandleInput(o.Blue, inputs[o.Blue])
		o.Update()
		paired[o.Red] = true
		paired[o.Blue] = true
	})

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		if ch.Movement == nil || paired[ch.Movement] {
			return
		}
		ch.Movement.HandleInput(inputs[ch.Movement])
		ch.Movement.Update()
	})
}

func toMovementInput(in *component.Input) movement.Input {
	if in == nil {
		return movement.Input{}
	}
	return movement.Input{
		Move:          cp.Vector{X: in.MoveX, Y: in.MoveY},
		JumpPressed:   in.JumpPressed,
		JumpHeld:      in.Jump,
		JumpReleased:  in.JumpReleased,
		UnplugPressed: in.UnplugPressed,
	}
}

// ObjectMovementSystem moves the magnetic crates.
type ObjectMovementSystem struct{}

func NewObjectMovementSystem() *ObjectMovementSystem {
	return &ObjectMovementSystem{}
}

func (s *ObjectMovementSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.CrateComponent.Kind(), func(e ecs.Entity, c *component.Crate) {
		c.Movement.Update()
	})
}
