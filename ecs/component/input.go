package component

// InputState is the held state of a character's controls.
type InputState struct {
	MoveX  float64
	MoveY  float64
	Jump   bool
	Unplug bool
}

// Input stores per-tick input for a character with the press and release
// edges derived from the previous tick.
type Input struct {
	InputState

	JumpPressed   bool
	JumpReleased  bool
	UnplugPressed bool

	prev InputState
}

// Latch stores the held state and updates the edges.
func (in *Input) Latch(s InputState) {
	in.prev = in.InputState
	in.InputState = s
	in.JumpPressed = s.Jump && !in.prev.Jump
	in.JumpReleased = !s.Jump && in.prev.Jump
	in.UnplugPressed = s.Unplug && !in.prev.Unplug
}

var InputComponent = NewComponent[Input]()
