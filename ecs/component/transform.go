package component

// Transform mirrors the collider center of an entity for drawing.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
