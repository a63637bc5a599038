package physics

import (
	"io"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/sirupsen/logrus"
)

// overlapTolerance lets resting contacts count as touching triggers.
const overlapTolerance = 1e-6

// World indexes every collider of a level in a chipmunk space. The space is
// only used for spatial queries; it is never stepped.
type World struct {
	space       *cp.Space
	colliders   map[ColliderID]*Collider
	byShape     map[*cp.Shape]*Collider
	controllers map[ColliderID]*Controller2D
	nextID      ColliderID
	log         logrus.FieldLogger
}

func NewWorld(log logrus.FieldLogger) *World {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &World{
		space:       cp.NewSpace(),
		colliders:   make(map[ColliderID]*Collider),
		byShape:     make(map[*cp.Shape]*Collider),
		controllers: make(map[ColliderID]*Controller2D),
		log:         log.WithField("system", "physics"),
	}
}

func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Log() logrus.FieldLogger {
	return w.log
}

func (w *World) register(c *Collider) *Collider {
	w.nextID++
	c.ID = w.nextID
	c.enabled = true
	c.shape.SetFilter(c.filter())
	w.colliders[c.ID] = c
	w.byShape[c.shape] = c
	w.space.AddShape(c.shape)
	return c
}

// AddStaticBox adds a solid axis aligned box covering bb.
func (w *World) AddStaticBox(name string, bb cp.BB, layer Layer, tags Tag) *Collider {
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	return w.register(&Collider{
		Name:   name,
		Layer:  layer,
		Tags:   tags,
		kind:   shapeBox,
		half:   cp.Vector{X: (bb.R - bb.L) / 2, Y: (bb.T - bb.B) / 2},
		center: cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2},
		static: true,
		shape:  shape,
	})
}

// AddStaticPolygon adds a solid convex polygon. Clockwise input is reversed.
func (w *World) AddStaticPolygon(name string, verts []cp.Vector, layer Layer, tags Tag) *Collider {
	if len(verts) < 3 {
		w.log.Warnf("polygon %q: need at least 3 vertices, got %d", name, len(verts))
		return nil
	}
	vs := append([]cp.Vector(nil), verts...)
	if signedArea(vs) < 0 {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
	}

	bb := cp.BB{L: vs[0].X, B: vs[0].Y, R: vs[0].X, T: vs[0].Y}
	var centroid cp.Vector
	for _, v := range vs {
		bb.L, bb.R = math.Min(bb.L, v.X), math.Max(bb.R, v.X)
		bb.B, bb.T = math.Min(bb.B, v.Y), math.Max(bb.T, v.Y)
		centroid = centroid.Add(v)
	}

	shape := cp.NewPolyShapeRaw(w.space.StaticBody, len(vs), vs, 0)
	return w.register(&Collider{
		Name:   name,
		Layer:  layer,
		Tags:   tags,
		kind:   shapePolygon,
		center: centroid.Mult(1 / float64(len(vs))),
		static: true,
		verts:  vs,
		bb:     bb,
		shape:  shape,
	})
}

func (w *World) addKinematic(c *Collider, center cp.Vector, build func(body *cp.Body) *cp.Shape) *Collider {
	body := w.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(center)
	c.body = body
	c.shape = build(body)
	c.shape.SetSensor(c.sensor)
	return w.register(c)
}

// AddBox adds a movable solid box. Characters, crates and platforms use it.
func (w *World) AddBox(name string, center, size cp.Vector, layer Layer, tags Tag) *Collider {
	c := &Collider{
		Name:  name,
		Layer: layer,
		Tags:  tags,
		kind:  shapeBox,
		half:  size.Mult(0.5),
	}
	return w.addKinematic(c, center, func(body *cp.Body) *cp.Shape {
		return cp.NewBox(body, size.X, size.Y, 0)
	})
}

// AddSensorBox adds a trigger box. Rays pass through sensors.
func (w *World) AddSensorBox(name string, center, size cp.Vector, layer Layer) *Collider {
	c := &Collider{
		Name:   name,
		Layer:  layer,
		kind:   shapeBox,
		half:   size.Mult(0.5),
		sensor: true,
	}
	return w.addKinematic(c, center, func(body *cp.Body) *cp.Shape {
		return cp.NewBox(body, size.X, size.Y, 0)
	})
}

// AddSensorCircle adds a circular trigger, used for magnetic field ranges.
func (w *World) AddSensorCircle(name string, center cp.Vector, radius float64, layer Layer) *Collider {
	c := &Collider{
		Name:   name,
		Layer:  layer,
		kind:   shapeCircle,
		radius: radius,
		sensor: true,
	}
	return w.addKinematic(c, center, func(body *cp.Body) *cp.Shape {
		return cp.NewCircle(body, radius, cp.Vector{})
	})
}

// Attach makes follower move with leader, keeping their current offset.
func (w *World) Attach(follower, leader *Collider) {
	if follower == nil || leader == nil || follower.static {
		return
	}
	follower.leader = leader
	follower.offset = follower.Position().Sub(leader.Position())
	leader.followers = append(leader.followers, follower)
}

func (w *World) Collider(id ColliderID) (*Collider, bool) {
	if w == nil {
		return nil, false
	}
	c, ok := w.colliders[id]
	return c, ok
}

// ColliderForShape maps a chipmunk shape back to its collider.
func (w *World) ColliderForShape(shape *cp.Shape) (*Collider, bool) {
	if w == nil || shape == nil {
		return nil, false
	}
	c, ok := w.byShape[shape]
	return c, ok
}

// Colliders lists every collider ordered by id.
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, 0, len(w.colliders))
	for _, c := range w.colliders {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Translate moves a collider and its followers. Static colliders never move.
func (w *World) Translate(c *Collider, delta cp.Vector) {
	if c == nil || c.static {
		return
	}
	if !common.Finite(delta) {
		w.log.Warnf("translate %q: non-finite delta %v ignored", c.Name, delta)
		return
	}
	w.SetPosition(c, c.Position().Add(delta))
}

func (w *World) SetPosition(c *Collider, pos cp.Vector) {
	if c == nil || c.static || c.body == nil {
		return
	}
	c.body.SetPosition(pos)
	w.reindex(c)
	for _, f := range c.followers {
		w.SetPosition(f, pos.Add(f.offset))
	}
}

// reindex refreshes the cached bounds of a moved shape. The space is never
// stepped, so the tree only sees new positions when the shape is re-added.
func (w *World) reindex(c *Collider) {
	if _, ok := w.colliders[c.ID]; !ok {
		return
	}
	w.space.RemoveShape(c.shape)
	w.space.AddShape(c.shape)
}

// SetEnabled removes a collider from every query while keeping its handle.
func (w *World) SetEnabled(c *Collider, enabled bool) {
	if c == nil || c.enabled == enabled {
		return
	}
	c.enabled = enabled
	c.shape.SetFilter(c.filter())
}

// Remove drops a collider from the world and detaches its followers.
func (w *World) Remove(c *Collider) {
	if c == nil {
		return
	}
	if _, ok := w.colliders[c.ID]; !ok {
		return
	}
	w.space.RemoveShape(c.shape)
	if c.body != nil {
		w.space.RemoveBody(c.body)
	}
	for _, f := range c.followers {
		f.leader = nil
	}
	if c.leader != nil {
		kept := c.leader.followers[:0]
		for _, f := range c.leader.followers {
			if f != c {
				kept = append(kept, f)
			}
		}
		c.leader.followers = kept
	}
	delete(w.colliders, c.ID)
	delete(w.byShape, c.shape)
	delete(w.controllers, c.ID)
}

// Hit is the closest solid surface a ray met.
type Hit struct {
	Collider *Collider
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// Raycast returns the first non-sensor collider on the layers in mask along
// dir, skipping the collider ignore. A ray starting on a surface reports
// distance zero.
func (w *World) Raycast(origin, dir cp.Vector, length float64, mask Layer, ignore ColliderID) (Hit, bool) {
	if w == nil || length <= 0 || !common.Finite(origin) {
		return Hit{}, false
	}
	l := dir.Length()
	if l == 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Mult(length / l))
	filter := cp.ShapeFilter{Group: uint(ignore), Categories: uint(MaskAll), Mask: uint(mask)}
	info := w.space.SegmentQueryFirst(origin, end, 0, filter)
	if info.Shape == nil {
		return Hit{}, false
	}
	c, ok := w.byShape[info.Shape]
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Collider: c,
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * length,
	}, true
}

// Overlapping returns the enabled colliders on mask that touch c, ordered by id.
// Sensors are included.
func (w *World) Overlapping(c *Collider, mask Layer) []*Collider {
	if w == nil || c == nil || !c.enabled {
		return nil
	}
	filter := cp.ShapeFilter{Group: uint(c.ID), Categories: uint(MaskAll), Mask: uint(mask)}
	bb := c.Bounds()
	bb.L, bb.B = bb.L-overlapTolerance, bb.B-overlapTolerance
	bb.R, bb.T = bb.R+overlapTolerance, bb.T+overlapTolerance
	var out []*Collider
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		o, ok := w.byShape[shape]
		if !ok || o == c || !o.enabled {
			return
		}
		if c.overlaps(o, overlapTolerance) {
			out = append(out, o)
		}
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) RegisterController(ctrl *Controller2D) {
	if w == nil || ctrl == nil || ctrl.Collider == nil {
		return
	}
	w.controllers[ctrl.Collider.ID] = ctrl
}

func (w *World) Controller(id ColliderID) (*Controller2D, bool) {
	if w == nil {
		return nil, false
	}
	ctrl, ok := w.controllers[id]
	return ctrl, ok
}

func signedArea(vs []cp.Vector) float64 {
	var a float64
	for i := range vs {
		j := (i + 1) % len(vs)
		a += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return a / 2
}
