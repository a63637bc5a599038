package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/magnetpair/ecs/component"
)

type keyBinding struct {
	left, right, up, down ebiten.Key
	jump                  []ebiten.Key
	unplug                ebiten.Key
}

var keyBindings = map[component.Color]keyBinding{
	component.Red: {
		left: ebiten.KeyA, right: ebiten.KeyD, up: ebiten.KeyW, down: ebiten.KeyS,
		jump:   []ebiten.Key{ebiten.KeySpace},
		unplug: ebiten.KeyE,
	},
	component.Blue: {
		left: ebiten.KeyArrowLeft, right: ebiten.KeyArrowRight, up: ebiten.KeyArrowUp, down: ebiten.KeyArrowDown,
		jump:   []ebiten.Key{ebiten.KeyEnter, ebiten.KeyShiftRight},
		unplug: ebiten.KeySlash,
	},
}

// ebitenSource reads the keyboard, plus one gamepad per character in the
// order they were connected: the first pad drives red, the second blue.
type ebitenSource struct {
	pads []ebiten.GamepadID
}

// poll tracks gamepad connections once per frame.
func (s *ebitenSource) poll() {
	for _, id := range inpututil.AppendJustConnectedGamepadIDs(nil) {
		s.pads = append(s.pads, id)
	}
	kept := s.pads[:0]
	for _, id := range s.pads {
		if !inpututil.IsGamepadJustDisconnected(id) {
			kept = append(kept, id)
		}
	}
	s.pads = kept
}

func (s *ebitenSource) Read(c component.Color) component.InputState {
	var in component.InputState
	kb := keyBindings[c]
	if ebiten.IsKeyPressed(kb.left) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(kb.right) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(kb.down) {
		in.MoveY--
	}
	if ebiten.IsKeyPressed(kb.up) {
		in.MoveY++
	}
	for _, k := range kb.jump {
		in.Jump = in.Jump || ebiten.IsKeyPressed(k)
	}
	in.Unplug = ebiten.IsKeyPressed(kb.unplug)

	idx := 0
	if c == component.Blue {
		idx = 1
	}
	if idx >= len(s.pads) {
		return in
	}
	id := s.pads[idx]
	if x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal); x != 0 && in.MoveX == 0 {
		in.MoveX = x
	}
	// stick up is negative
	if y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical); y != 0 && in.MoveY == 0 {
		in.MoveY = -y
	}
	in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	in.Unplug = in.Unplug || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
	return in
}
