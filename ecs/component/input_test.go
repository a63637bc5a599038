package component

import "testing"

func TestInputLatch(t *testing.T) {
	var in Input
	steps := []struct {
		state                          InputState
		pressed, released, unplugPress bool
	}{
		{state: InputState{Jump: true}, pressed: true},
		{state: InputState{Jump: true, Unplug: true}, unplugPress: true},
		{state: InputState{Unplug: true}, released: true},
		{state: InputState{}},
	}
	for i, s := range steps {
		in.Latch(s.state)
		if in.JumpPressed != s.pressed || in.JumpReleased != s.released || in.UnplugPressed != s.unplugPress {
			t.Fatalf("step %d: expected pressed=%v released=%v unplug=%v, got %v %v %v",
				i, s.pressed, s.released, s.unplugPress, in.JumpPressed, in.JumpReleased, in.UnplugPressed)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", Red},
		{"blue", Blue},
		{"BLUE", Blue},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Fatalf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestHeartFraction(t *testing.T) {
	tests := []struct {
		heart *Heart
		want  float64
	}{
		{nil, 0},
		{&Heart{Max: 0, Progress: 1}, 0},
		{&Heart{Max: 4, Progress: 1}, 0.25},
		{&Heart{Max: 2, Progress: 3}, 1},
	}
	for i, tt := range tests {
		if got := tt.heart.Fraction(); got != tt.want {
			t.Fatalf("case %d: expected %v, got %v", i, tt.want, got)
		}
	}
}
