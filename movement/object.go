package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/physics"
)

const (
	defaultObjectAccelerationTime = 0.2
	movedThreshold                = 0.002
	fallingThreshold              = 0.01
)

// ObjectMovement moves a magnetic crate under gravity and field forces.
type ObjectMovement struct {
	Controller *physics.Controller2D
	Magnet     *magnet.Object
	Velocity   cp.Vector
	// AccelerationTime smooths the horizontal response to fields.
	AccelerationTime float64

	// Moved and Falling describe the last tick, for drawing.
	Moved   bool
	Falling bool

	ctx          *Context
	smoothedVelX float64
}

func NewObjectMovement(ctx *Context, ctrl *physics.Controller2D) *ObjectMovement {
	o := &ObjectMovement{
		Controller:       ctrl,
		AccelerationTime: defaultObjectAccelerationTime,
		ctx:              ctx,
	}
	if ctrl != nil && ctrl.Collider != nil {
		o.Magnet = ctrl.Collider.Magnet
	}
	return o
}

func (o *ObjectMovement) verticalForce(dt float64) float64 {
	return (o.ctx.Gravity + o.Magnet.Force().Y) * dt
}

// Update runs one tick.
func (o *ObjectMovement) Update() {
	if o == nil || o.Controller == nil {
		return
	}
	dt := o.ctx.Dt()
	before := o.Controller.Collider.Position()

	targetX := o.Magnet.Force().X
	o.Velocity.X = common.SmoothDamp(o.Velocity.X, targetX, &o.smoothedVelX, o.AccelerationTime, math.Inf(1), dt)
	o.Velocity.Y += o.verticalForce(dt)

	o.Controller.Move(o.Velocity.Mult(dt), cp.Vector{}, false)

	info := &o.Controller.Collisions
	if info.Below || info.Above {
		if info.SlidingDownMaxSlope {
			if vf := o.verticalForce(dt); vf < 0 {
				o.Velocity.Y += info.SlopeNormal.Y * -vf
			}
		} else {
			o.Velocity.Y = 0
		}
	}

	after := o.Controller.Collider.Position()
	o.Moved = math.Abs(after.X-before.X) > movedThreshold || math.Abs(after.Y-before.Y) > movedThreshold
	o.Falling = before.Y-after.Y > fallingThreshold
}

// AddVelocity replaces the horizontal velocity and adds to the vertical one.
func (o *ObjectMovement) AddVelocity(velX, velY float64) {
	o.Velocity.X = velX
	o.Velocity.Y += velY
}
