package component

import "github.com/milk9111/magnetpair/physics"

// Body links an entity to its collider in the physics world. Controller is
// nil for static geometry.
type Body struct {
	Collider   *physics.Collider
	Controller *physics.Controller2D
}

var BodyComponent = NewComponent[Body]()
