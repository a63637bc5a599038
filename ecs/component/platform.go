package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
)

// Platform moves along a waypoint path and carries its passengers.
type Platform struct {
	Controller *physics.PlatformController
	// Displacement is the last tick's movement.
	Displacement cp.Vector
}

var PlatformComponent = NewComponent[Platform]()

// Crate is a magnetic object pushed around by fields.
type Crate struct {
	Movement *movement.ObjectMovement
}

var CrateComponent = NewComponent[Crate]()
