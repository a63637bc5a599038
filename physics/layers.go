package physics

// Layer is a collision category. A query mask is a union of layers.
type Layer uint

const (
	LayerGround Layer = 1 << iota
	LayerCharacter
	LayerObject
	LayerPlatform
	LayerDoor
	LayerField
	LayerTrigger
)

const (
	// MaskSolid is what characters and crates collide with.
	MaskSolid = LayerGround | LayerCharacter | LayerObject | LayerPlatform | LayerDoor
	// MaskPassenger is what a moving platform carries.
	MaskPassenger = LayerCharacter | LayerObject
	// MaskMagnetic is what a magnetic field can act on.
	MaskMagnetic = LayerCharacter | LayerObject
	MaskAll      = ^Layer(0)
)

func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

// Tag marks special collider behavior.
type Tag uint

const (
	// TagPassable colliders can be jumped through from below and dropped through.
	TagPassable Tag = 1 << iota
	// TagSlidingWall colliders allow wall slides and wall jumps.
	TagSlidingWall
)

func (t Tag) Has(other Tag) bool {
	return t&other != 0
}

// ParseTag maps a level file tag name to its bit. Unknown names map to zero.
func ParseTag(name string) Tag {
	switch name {
	case "passable":
		return TagPassable
	case "sliding_wall", "slidingwall":
		return TagSlidingWall
	}
	return 0
}
