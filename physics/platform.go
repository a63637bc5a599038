package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
)

// minSegmentLength treats shorter segments as already traversed.
const minSegmentLength = 1e-9

// Ease maps the linear progress between two waypoints to the eased one.
// Both are in [0, 1].
type Ease func(x float64) float64

// WaypointPath walks a list of world space waypoints, either looping back to
// the first one or reversing at the ends.
type WaypointPath struct {
	Waypoints []cp.Vector
	Cyclic    bool
	// Speed in units per second.
	Speed float64
	// WaitTime is the dwell at every reached waypoint, in seconds.
	WaitTime float64
	Ease     Ease

	from    int
	percent float64
	wait    float64
}

func NewWaypointPath(waypoints []cp.Vector, cyclic bool, speed, waitTime float64, ease Ease) *WaypointPath {
	return &WaypointPath{
		Waypoints: append([]cp.Vector(nil), waypoints...),
		Cyclic:    cyclic,
		Speed:     speed,
		WaitTime:  waitTime,
		Ease:      ease,
	}
}

// Segment returns the waypoint indices being traversed and the linear progress.
func (p *WaypointPath) Segment() (from, to int, percent float64) {
	n := len(p.Waypoints)
	if n == 0 {
		return 0, 0, 0
	}
	from = p.from % n
	return from, (from + 1) % n, p.percent
}

func (p *WaypointPath) Waiting() bool {
	return p.wait > 0
}

func (p *WaypointPath) ease(x float64) float64 {
	if p.Ease == nil {
		return x
	}
	return common.Clamp01(p.Ease(x))
}

// Advance moves the progress by dt and returns the displacement that takes
// a body from current to its new place on the path.
func (p *WaypointPath) Advance(current cp.Vector, dt float64) cp.Vector {
	if p == nil {
		return cp.Vector{}
	}
	n := len(p.Waypoints)
	if n < 2 || p.Speed <= 0 || dt <= 0 {
		return cp.Vector{}
	}
	if p.wait > 0 {
		p.wait -= dt
		return cp.Vector{}
	}

	p.from %= n
	to := (p.from + 1) % n
	a, b := p.Waypoints[p.from], p.Waypoints[to]

	dist := b.Sub(a).Length()
	if dist < minSegmentLength {
		p.percent = 1
	} else {
		p.percent = common.Clamp01(p.percent + dt*p.Speed/dist)
	}
	next := common.LerpVector(a, b, p.ease(p.percent))

	if p.percent >= 1 {
		p.percent = 0
		p.from++
		if !p.Cyclic && p.from >= n-1 {
			p.from = 0
			reverse(p.Waypoints)
		}
		p.wait = p.WaitTime
	}
	return next.Sub(current)
}

func reverse(vs []cp.Vector) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

// PassengerMovement is the push a platform gives one passenger this tick.
type PassengerMovement struct {
	Collider           *Collider
	Velocity           cp.Vector
	StandingOnPlatform bool
	// MoveBeforePlatform is true when the platform moves toward the passenger.
	MoveBeforePlatform bool
}

// PlatformController moves a solid box along a path and carries or pushes
// the bodies it touches.
type PlatformController struct {
	RaycastController
	Path *WaypointPath

	passengers []PassengerMovement
}

func NewPlatformController(w *World, c *Collider, path *WaypointPath) *PlatformController {
	return &PlatformController{
		RaycastController: NewRaycastController(w, c, MaskPassenger),
		Path:              path,
	}
}

// Update advances the platform by dt and returns its displacement.
func (p *PlatformController) Update(dt float64) cp.Vector {
	if p == nil || p.Collider == nil {
		return cp.Vector{}
	}
	p.RecomputeRayOrigins()

	velocity := p.Path.Advance(p.Collider.Position(), dt)
	p.calculatePassengerMovement(velocity)

	p.movePassengers(true)
	p.World.Translate(p.Collider, velocity)
	p.movePassengers(false)
	return velocity
}

// Passengers returns the pushes computed by the last Update.
func (p *PlatformController) Passengers() []PassengerMovement {
	return p.passengers
}

func (p *PlatformController) movePassengers(beforePlatform bool) {
	for _, pm := range p.passengers {
		if pm.MoveBeforePlatform != beforePlatform {
			continue
		}
		ctrl, ok := p.World.Controller(pm.Collider.ID)
		if !ok {
			p.World.log.Warnf("platform %q: passenger %q has no controller", p.Collider.Name, pm.Collider.Name)
			continue
		}
		ctrl.Move(pm.Velocity, cp.Vector{}, pm.StandingOnPlatform)
	}
}

func (p *PlatformController) calculatePassengerMovement(velocity cp.Vector) {
	moved := make(map[ColliderID]struct{})
	p.passengers = p.passengers[:0]
	skin := p.SkinWidth

	add := func(c *Collider, push cp.Vector, standing, before bool) {
		if _, ok := moved[c.ID]; ok {
			return
		}
		moved[c.ID] = struct{}{}
		p.passengers = append(p.passengers, PassengerMovement{
			Collider:           c,
			Velocity:           push,
			StandingOnPlatform: standing,
			MoveBeforePlatform: before,
		})
	}

	dirX := common.Sign(velocity.X)
	dirY := common.Sign(velocity.Y)

	if velocity.Y != 0 {
		rayLength := math.Abs(velocity.Y) + skin
		for i := 0; i < p.VerticalRayCount; i++ {
			hit, ok := p.cast(p.verticalOrigin(dirY, i), up.Mult(dirY), rayLength, MaskPassenger)
			if !ok || hit.Distance == 0 {
				continue
			}
			// a descending platform never drags its passenger sideways
			pushX := 0.0
			if dirY > 0 {
				pushX = velocity.X
			}
			pushY := velocity.Y - (hit.Distance-skin)*dirY
			add(hit.Collider, cp.Vector{X: pushX, Y: pushY}, dirY > 0, true)
		}
	}

	if velocity.X != 0 {
		rayLength := math.Abs(velocity.X) + skin
		for i := 0; i < p.HorizontalRayCount; i++ {
			hit, ok := p.cast(p.horizontalOrigin(dirX, i), right.Mult(dirX), rayLength, MaskPassenger)
			if !ok || hit.Distance == 0 {
				continue
			}
			pushX := velocity.X - (hit.Distance-skin)*dirX
			// a tiny downward push keeps the passenger grounded so it can still jump
			pushY := -math.SmallestNonzeroFloat64
			add(hit.Collider, cp.Vector{X: pushX, Y: pushY}, false, true)
		}
	}

	// riders on top of a platform moving down or only sideways
	if dirY < 0 || (velocity.Y == 0 && velocity.X != 0) {
		rayLength := 2 * skin
		for i := 0; i < p.VerticalRayCount; i++ {
			hit, ok := p.cast(p.verticalOrigin(1, i), up, rayLength, MaskPassenger)
			if !ok || hit.Distance == 0 {
				continue
			}
			add(hit.Collider, velocity, true, false)
		}
	}
}
