package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/magnet"
)

// ColliderID is a stable handle into a World. Zero is never assigned.
type ColliderID int

type shapeKind int

const (
	shapeBox shapeKind = iota
	shapeCircle
	shapePolygon
)

// Collider is an axis aligned box, a circle or a static convex polygon
// registered in a World.
type Collider struct {
	ID    ColliderID
	Name  string
	Layer Layer
	Tags  Tag

	// FieldID is the magnetic field carried by the owner of this collider.
	FieldID magnet.SourceID
	// Magnet is the force table of the owner, nil when it is not magnetic.
	Magnet *magnet.Object

	kind    shapeKind
	half    cp.Vector
	radius  float64
	center  cp.Vector
	static  bool
	sensor  bool
	enabled bool

	verts []cp.Vector
	bb    cp.BB

	body  *cp.Body
	shape *cp.Shape

	leader    *Collider
	offset    cp.Vector
	followers []*Collider
}

func (c *Collider) Position() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	if c.static || c.body == nil {
		return c.center
	}
	return c.body.Position()
}

// Bounds returns the collider's axis aligned bounding box.
func (c *Collider) Bounds() cp.BB {
	if c == nil {
		return cp.BB{}
	}
	switch c.kind {
	case shapeCircle:
		return cp.NewBBForCircle(c.Position(), c.radius)
	case shapePolygon:
		return c.bb
	}
	return cp.NewBBForExtents(c.Position(), c.half.X, c.half.Y)
}

// HalfExtents is half the box size. Circles report their radius on both axes.
func (c *Collider) HalfExtents() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	if c.kind == shapeCircle {
		return cp.Vector{X: c.radius, Y: c.radius}
	}
	if c.kind == shapePolygon {
		bb := c.bb
		return cp.Vector{X: (bb.R - bb.L) / 2, Y: (bb.T - bb.B) / 2}
	}
	return c.half
}

func (c *Collider) Size() cp.Vector {
	return c.HalfExtents().Mult(2)
}

func (c *Collider) HalfDiagonal() float64 {
	h := c.HalfExtents()
	return math.Hypot(h.X, h.Y)
}

func (c *Collider) Radius() float64 {
	if c == nil {
		return 0
	}
	return c.radius
}

func (c *Collider) IsCircle() bool  { return c != nil && c.kind == shapeCircle }
func (c *Collider) IsPolygon() bool { return c != nil && c.kind == shapePolygon }
func (c *Collider) Static() bool    { return c != nil && c.static }
func (c *Collider) Sensor() bool    { return c != nil && c.sensor }
func (c *Collider) Enabled() bool   { return c != nil && c.enabled }

// IsCharacter reports whether the collider belongs to a playable character.
func (c *Collider) IsCharacter() bool {
	return c != nil && c.Layer.Has(LayerCharacter)
}

// Shape exposes the underlying chipmunk shape for drawing.
func (c *Collider) Shape() *cp.Shape {
	if c == nil {
		return nil
	}
	return c.shape
}

// Vertices returns the world space corners of boxes and polygons.
func (c *Collider) Vertices() []cp.Vector {
	if c == nil {
		return nil
	}
	switch c.kind {
	case shapePolygon:
		return append([]cp.Vector(nil), c.verts...)
	case shapeCircle:
		return nil
	}
	bb := c.Bounds()
	return []cp.Vector{{X: bb.L, Y: bb.B}, {X: bb.R, Y: bb.B}, {X: bb.R, Y: bb.T}, {X: bb.L, Y: bb.T}}
}

func (c *Collider) filter() cp.ShapeFilter {
	categories := uint(c.Layer)
	if !c.enabled {
		categories = 0
	}
	return cp.ShapeFilter{Group: uint(c.ID), Categories: categories, Mask: uint(MaskAll)}
}

// overlaps runs the narrow phase between two colliders. Polygons use their bounds.
func (c *Collider) overlaps(o *Collider, tolerance float64) bool {
	if c.kind == shapeCircle && o.kind == shapeCircle {
		r := c.radius + o.radius + tolerance
		return c.Position().Sub(o.Position()).LengthSq() <= r*r
	}
	if c.kind == shapeCircle {
		return circleTouchesBB(c.Position(), c.radius+tolerance, o.Bounds())
	}
	if o.kind == shapeCircle {
		return circleTouchesBB(o.Position(), o.radius+tolerance, c.Bounds())
	}
	a, b := c.Bounds(), o.Bounds()
	return a.L <= b.R+tolerance && b.L <= a.R+tolerance && a.B <= b.T+tolerance && b.B <= a.T+tolerance
}

func circleTouchesBB(center cp.Vector, radius float64, bb cp.BB) bool {
	closest := cp.Vector{
		X: math.Max(bb.L, math.Min(center.X, bb.R)),
		Y: math.Max(bb.B, math.Min(center.Y, bb.T)),
	}
	return closest.Sub(center).LengthSq() <= radius*radius
}
