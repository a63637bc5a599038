package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/magnet"
)

const (
	DefaultMaxSlopeAngle = 75.0

	// descendRayLength bounds the downward ray looking for a slope to follow.
	descendRayLength = 1000.0
	angleEpsilon     = 1e-6
	normalEpsilon    = 1e-6
)

var (
	up    = cp.Vector{X: 0, Y: 1}
	down  = cp.Vector{X: 0, Y: -1}
	right = cp.Vector{X: 1, Y: 0}
)

// CollisionInfo describes the contacts found by the last Move.
type CollisionInfo struct {
	Above, Below bool
	Left, Right  bool

	// FaceDir is the last nonzero horizontal direction, 1 or -1.
	FaceDir float64

	ClimbingSlope       bool
	DescendingSlope     bool
	SlidingDownMaxSlope bool
	SlopeAngle          float64
	SlopeAngleOld       float64
	SlopeNormal         cp.Vector

	// InputVelocity is the displacement Move was asked for.
	InputVelocity cp.Vector
	// FallingThroughPlatform is the passable collider being dropped through.
	// It survives Reset.
	FallingThroughPlatform ColliderID
}

// Reset clears the per move flags and remembers the previous slope angle.
func (c *CollisionInfo) Reset() {
	c.Above, c.Below = false, false
	c.Left, c.Right = false, false
	c.ClimbingSlope = false
	c.DescendingSlope = false
	c.SlidingDownMaxSlope = false
	c.SlopeAngleOld = c.SlopeAngle
	c.SlopeAngle = 0
	c.SlopeNormal = cp.Vector{}
}

// Controller2D moves an axis aligned box through the world, resolving
// collisions, slopes and one way platforms with ray fans.
type Controller2D struct {
	RaycastController

	MaxSlopeAngle float64
	Collisions    CollisionInfo
	// JumpHeld together with a downward input drops through passable platforms.
	JumpHeld bool

	input        cp.Vector
	pendingField magnet.SourceID
	// pendingReady is set by the Move that landed; the next Move re-registers.
	pendingReady bool
}

func NewController2D(w *World, c *Collider, mask Layer) *Controller2D {
	ctrl := &Controller2D{
		RaycastController: NewRaycastController(w, c, mask),
		MaxSlopeAngle:     DefaultMaxSlopeAngle,
	}
	ctrl.Collisions.FaceDir = 1
	w.RegisterController(ctrl)
	return ctrl
}

// Move translates the body by at most delta and returns the displacement
// actually applied. input is the raw directional input of the mover.
func (c *Controller2D) Move(delta, input cp.Vector, standingOnPlatform bool) cp.Vector {
	if c == nil || c.Collider == nil {
		return cp.Vector{}
	}
	if !common.Finite(delta) {
		c.World.log.Warnf("move %q: non-finite delta %v replaced by zero", c.Collider.Name, delta)
		delta = cp.Vector{}
	}

	c.resolvePendingForce()

	c.RecomputeRayOrigins()
	c.Collisions.Reset()
	c.Collisions.InputVelocity = delta
	c.input = input

	if delta.Y < 0 {
		c.descendSlope(&delta)
	}
	// after descendSlope, which can change the sign of delta.X
	if delta.X != 0 {
		c.Collisions.FaceDir = common.Sign(delta.X)
	}

	// horizontal contacts are refreshed even when standing still
	c.horizontalCollisions(&delta)

	if delta.Y != 0 {
		c.verticalCollisions(&delta)
	}

	if !common.Finite(delta) {
		c.World.log.Warnf("move %q: resolved delta %v is not finite, skipping", c.Collider.Name, delta)
		delta = cp.Vector{}
	}
	c.World.Translate(c.Collider, delta)

	if standingOnPlatform {
		c.Collisions.Below = true
	}
	if c.pendingField != 0 && c.Collisions.Below {
		c.pendingReady = true
	}
	return delta
}

func (c *Controller2D) horizontalCollisions(delta *cp.Vector) {
	info := &c.Collisions
	dirX := info.FaceDir
	skin := c.SkinWidth

	rayLength := math.Abs(delta.X) + skin
	if math.Abs(delta.X) < skin {
		rayLength = 2 * skin
	}

	for i := 0; i < c.HorizontalRayCount; i++ {
		origin := c.horizontalOrigin(dirX, i)
		hit, ok := c.cast(origin, right.Mult(dirX), rayLength, c.Mask)
		if !ok || hit.Distance == 0 {
			continue
		}

		angle := common.AngleFromUp(hit.Normal)
		if i == 0 && angle <= c.MaxSlopeAngle {
			if info.DescendingSlope {
				info.DescendingSlope = false
				*delta = info.InputVelocity
			}

			// do not start climbing before actually reaching the slope
			distanceToSlopeStart := 0.0
			if !sameAngle(angle, info.SlopeAngleOld) {
				distanceToSlopeStart = hit.Distance - skin
				delta.X -= distanceToSlopeStart * dirX
			}
			c.climbSlope(delta, angle, hit.Normal)
			delta.X += distanceToSlopeStart * dirX
		}

		if (!info.ClimbingSlope || angle > c.MaxSlopeAngle) && !info.SlidingDownMaxSlope {
			delta.X = math.Min(math.Abs(delta.X), hit.Distance-skin) * dirX
			// later rays must not reach past this hit
			rayLength = math.Min(math.Abs(delta.X)+skin, hit.Distance)

			if info.ClimbingSlope {
				delta.Y = math.Tan(common.Radians(info.SlopeAngle)) * math.Abs(delta.X)
			}
			info.Left = dirX < 0
			info.Right = dirX > 0
		}
	}
}

func (c *Controller2D) verticalCollisions(delta *cp.Vector) {
	info := &c.Collisions
	dirY := common.Sign(delta.Y)
	skin := c.SkinWidth
	rayLength := math.Abs(delta.Y) + skin

	var touched []*Collider
	for i := 0; i < c.VerticalRayCount; i++ {
		origin := c.verticalOrigin(dirY, i)
		origin.X += delta.X
		hit, ok := c.cast(origin, up.Mult(dirY), rayLength, c.Mask)
		if !ok {
			continue
		}
		touched = append(touched, hit.Collider)

		if hit.Collider.Tags.Has(TagPassable) {
			if dirY > 0 || hit.Distance == 0 {
				continue
			}
			if hit.Collider.ID == info.FallingThroughPlatform {
				continue
			}
			if c.input.Y == -1 && c.JumpHeld {
				info.FallingThroughPlatform = hit.Collider.ID
				continue
			}
		} else {
			info.FallingThroughPlatform = 0
		}

		delta.Y = (hit.Distance - skin) * dirY
		rayLength = hit.Distance

		if info.ClimbingSlope {
			if tan := math.Tan(common.Radians(info.SlopeAngle)); tan > angleEpsilon {
				delta.X = delta.Y / tan * common.Sign(delta.X)
			}
		}
		info.Below = dirY < 0
		info.Above = dirY > 0
	}

	if dirY > 0 && !info.Below {
		c.suppressFlyingEffect(touched)
	}

	// a steeper slope met this frame would otherwise be overlapped for one frame
	if info.ClimbingSlope {
		dirX := info.FaceDir
		rayLength = math.Abs(delta.X) + skin
		origin := c.horizontalOrigin(dirX, 0)
		origin.Y += delta.Y
		hit, ok := c.cast(origin, right.Mult(dirX), rayLength, c.Mask)
		if ok {
			angle := common.AngleFromUp(hit.Normal)
			if !sameAngle(angle, info.SlopeAngle) {
				delta.X = (hit.Distance - skin) * dirX
				info.SlopeAngle = angle
				info.SlopeNormal = hit.Normal
			}
		}
	}
}

// suppressFlyingEffect stops two attracted bodies from standing on each
// other mid air. When every upward ray met the same magnetic collider, that
// field's force is dropped until this body is grounded again.
func (c *Controller2D) suppressFlyingEffect(touched []*Collider) {
	if len(touched) == 0 || c.Collider.Magnet == nil {
		return
	}
	first := touched[0]
	for _, o := range touched[1:] {
		if o != first {
			return
		}
	}
	if first.FieldID == 0 {
		return
	}
	if c.Collider.Magnet.HasForce(first.FieldID) {
		c.Collider.Magnet.UnregisterForce(first.FieldID)
	}
	c.pendingField = first.FieldID
	c.pendingReady = false
}

// resolvePendingForce runs one tick after the landing Move.
func (c *Controller2D) resolvePendingForce() {
	if c.pendingField == 0 || !c.pendingReady {
		return
	}
	if m := c.Collider.Magnet; m != nil && !m.HasForce(c.pendingField) {
		// the field's next stay update fills in the actual value
		m.RegisterForce(c.pendingField, cp.Vector{})
	}
	c.pendingField = 0
	c.pendingReady = false
}

// PendingForce returns the field waiting to be re-registered, zero if none.
func (c *Controller2D) PendingForce() magnet.SourceID {
	return c.pendingField
}

// CancelPendingForce forgets a pending re-registration for id.
func (c *Controller2D) CancelPendingForce(id magnet.SourceID) {
	if c != nil && c.pendingField == id {
		c.pendingField = 0
		c.pendingReady = false
	}
}

func (c *Controller2D) climbSlope(delta *cp.Vector, angle float64, normal cp.Vector) {
	info := &c.Collisions
	rad := common.Radians(angle)
	moveDistance := math.Abs(delta.X)
	climbY := math.Sin(rad) * moveDistance

	// jumping while on the slope keeps the jump
	if delta.Y > climbY {
		return
	}
	delta.Y = climbY
	delta.X = math.Cos(rad) * moveDistance * info.FaceDir
	info.Below = true
	info.ClimbingSlope = true
	info.SlopeAngle = angle
	info.SlopeNormal = normal
}

func (c *Controller2D) descendSlope(delta *cp.Vector) {
	info := &c.Collisions
	skin := c.SkinWidth
	length := math.Abs(delta.Y) + skin

	left, leftOK := c.cast(c.Origins.BottomLeft, down, length, c.Mask)
	rightHit, rightOK := c.cast(c.Origins.BottomRight, down, length, c.Mask)
	if leftOK != rightOK {
		if leftOK {
			c.slideDownMaxSlope(left, delta)
		} else {
			c.slideDownMaxSlope(rightHit, delta)
		}
	}
	if info.SlidingDownMaxSlope {
		return
	}

	dirX := info.FaceDir
	if delta.X != 0 {
		dirX = common.Sign(delta.X)
	}
	// the trailing corner is the one touching a descending slope
	origin := c.Origins.BottomLeft
	if dirX < 0 {
		origin = c.Origins.BottomRight
	}
	hit, ok := c.cast(origin, down, descendRayLength, c.Mask)
	if !ok {
		return
	}
	angle := common.AngleFromUp(hit.Normal)
	if angle <= angleEpsilon || angle > c.MaxSlopeAngle || common.Sign(hit.Normal.X) != dirX {
		return
	}

	rad := common.Radians(angle)
	onSlope := hit.Distance-skin <= math.Tan(rad)*math.Abs(delta.X)
	if !onSlope {
		// a side wall shares no normal with the slope, so this only confirms the slope itself
		side, sideOK := c.cast(origin, right.Mult(-dirX), 2*skin, c.Mask)
		onSlope = sideOK && sameNormal(hit.Normal, side.Normal)
	}
	if !onSlope {
		return
	}

	moveDistance := math.Abs(delta.X)
	delta.X = math.Cos(rad) * delta.X
	delta.Y -= math.Sin(rad) * moveDistance

	info.SlopeAngle = angle
	info.SlopeNormal = hit.Normal
	info.DescendingSlope = true
	info.Below = true
}

func (c *Controller2D) slideDownMaxSlope(hit Hit, delta *cp.Vector) {
	angle := common.AngleFromUp(hit.Normal)
	if angle <= c.MaxSlopeAngle {
		return
	}
	tan := math.Tan(common.Radians(angle))
	if tan <= angleEpsilon {
		return
	}
	info := &c.Collisions
	delta.X = (math.Abs(delta.Y) - hit.Distance + c.SkinWidth) / tan * common.Sign(hit.Normal.X)
	info.SlopeAngle = angle
	info.SlopeNormal = hit.Normal
	info.SlidingDownMaxSlope = true
}

// RaycastHorizontally casts the side fan in direction dirX without moving
// the body. A length of zero or less means twice the skin width.
func (c *Controller2D) RaycastHorizontally(dirX, length float64, mask Layer) []Hit {
	if c == nil || dirX == 0 {
		return nil
	}
	if length <= 0 {
		length = 2 * c.SkinWidth
	}
	c.RecomputeRayOrigins()
	dirX = common.Sign(dirX)
	var hits []Hit
	for i := 0; i < c.HorizontalRayCount; i++ {
		hit, ok := c.cast(c.horizontalOrigin(dirX, i), right.Mult(dirX), length, mask)
		if ok {
			hits = appendUnique(hits, hit)
		}
	}
	return hits
}

// RaycastVertically casts the top or bottom fan without moving the body.
func (c *Controller2D) RaycastVertically(dirY, length float64, mask Layer) []Hit {
	if c == nil || dirY == 0 {
		return nil
	}
	if length <= 0 {
		length = 2 * c.SkinWidth
	}
	c.RecomputeRayOrigins()
	dirY = common.Sign(dirY)
	var hits []Hit
	for i := 0; i < c.VerticalRayCount; i++ {
		hit, ok := c.cast(c.verticalOrigin(dirY, i), up.Mult(dirY), length, mask)
		if ok {
			hits = appendUnique(hits, hit)
		}
	}
	return hits
}

// appendUnique keeps one hit per collider, the closest one.
func appendUnique(hits []Hit, hit Hit) []Hit {
	for i := range hits {
		if hits[i].Collider == hit.Collider {
			if hit.Distance < hits[i].Distance {
				hits[i] = hit
			}
			return hits
		}
	}
	return append(hits, hit)
}

func sameAngle(a, b float64) bool {
	return math.Abs(a-b) <= angleEpsilon
}

func sameNormal(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) <= normalEpsilon && math.Abs(a.Y-b.Y) <= normalEpsilon
}
