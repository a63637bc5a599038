package component

import (
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/physics"
)

// Magnetic marks an entity that receives field forces.
type Magnetic struct {
	Object *magnet.Object
}

var MagneticComponent = NewComponent[Magnetic]()

// Field is a force source. Sensor is its range trigger, attached to Owner.
type Field struct {
	Field  *magnet.Field
	Sensor *physics.Collider
	Owner  *physics.Collider
}

var FieldComponent = NewComponent[Field]()
