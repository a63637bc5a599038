package component

import "github.com/milk9111/magnetpair/physics"

// GoalPad is where a character of its color has to stand to finish the level.
type GoalPad struct {
	Color    Color
	Sensor   *physics.Collider
	Occupied bool
}

var GoalPadComponent = NewComponent[GoalPad]()

// Heart fills while both goal pads are occupied and drains otherwise.
type Heart struct {
	Progress  float64
	Max       float64
	Increment float64
	Decrement float64
	Completed bool
}

// Fraction is the fill level in [0, 1].
func (h *Heart) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return min(1, max(0, h.Progress/h.Max))
}

var HeartComponent = NewComponent[Heart]()
