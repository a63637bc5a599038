package component

import "github.com/milk9111/magnetpair/physics"

// Door blocks the way until a button opens it. An open door keeps its
// collider handle but is disabled.
type Door struct {
	Name     string
	Collider *physics.Collider
	Open     bool
}

var DoorComponent = NewComponent[Door]()

// Button opens Door while a character of its color stands on it.
type Button struct {
	Color      Color
	Door       string
	Continuous bool
	Sensor     *physics.Collider
	Pressed    bool
}

var ButtonComponent = NewComponent[Button]()
