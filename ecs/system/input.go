package system

import (
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
)

// InputSource reads the held controls of a character. The viewer polls the
// keyboard and gamepads; the headless runner replays a timeline.
type InputSource interface {
	Read(c component.Color) component.InputState
}

// StaticSource returns whatever was last stored for a color.
type StaticSource map[component.Color]component.InputState

func (s StaticSource) Read(c component.Color) component.InputState {
	return s[c]
}

type InputSystem struct {
	Source InputSource
}

func NewInputSystem(src InputSource) *InputSystem {
	return &InputSystem{Source: src}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.Source == nil {
		return
	}
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, ch *component.Character, in *component.Input) {
		s := i.Source.Read(ch.Color)
		s.MoveX = axis(s.MoveX)
		s.MoveY = axis(s.MoveY)
		in.Latch(s)
	})
}

// axis snaps an analog value to -1, 0 or 1.
func axis(v float64) float64 {
	const deadzone = 0.2
	switch {
	case v > deadzone:
		return 1
	case v < -deadzone:
		return -1
	}
	return 0
}
