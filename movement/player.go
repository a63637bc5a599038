package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/physics"
	"github.com/sirupsen/logrus"
)

// Input is one character's debounced input for a tick.
type Input struct {
	// Move holds the raw directional axes, each -1, 0 or 1.
	Move          cp.Vector
	JumpPressed   bool
	JumpHeld      bool
	JumpReleased  bool
	UnplugPressed bool
}

// PlayerMovement integrates a character's velocity and moves it through
// its Controller2D.
type PlayerMovement struct {
	Name       string
	Config     Config
	Controller *physics.Controller2D
	Magnet     *magnet.Object
	// FieldSensor is the trigger of this character's own field, if any.
	FieldSensor *physics.Collider

	Velocity cp.Vector
	// Resulting holds this tick's horizontal target velocity and vertical
	// velocity change, read by the override while stuck.
	Resulting cp.Vector

	StuckToAlly bool
	AboveAlly   bool
	Jumping     bool

	ctx  *Context
	log  logrus.FieldLogger
	ally *PlayerMovement

	input        cp.Vector
	gravity      float64
	maxJumpSpeed float64
	minJumpSpeed float64

	smoothedVelX      float64
	wallSliding       bool
	wallDirX          float64
	timeToWallUnstick float64
	pushUpTimer       float64
}

func NewPlayerMovement(ctx *Context, name string, ctrl *physics.Controller2D, cfg Config) *PlayerMovement {
	cfg = cfg.withDefaults()
	// h = g*t^2/2 with h the max jump height and t the time to the apex
	gravity := -(2 * cfg.MaxJumpHeight) / (cfg.TimeToJumpApex * cfg.TimeToJumpApex)

	p := &PlayerMovement{
		Name:         name,
		Config:       cfg,
		Controller:   ctrl,
		ctx:          ctx,
		log:          ctx.Logger().WithField("character", name),
		gravity:      gravity,
		maxJumpSpeed: math.Abs(gravity) * cfg.TimeToJumpApex,
		minJumpSpeed: math.Sqrt(2 * math.Abs(gravity) * cfg.MinJumpHeight),
	}
	if ctrl != nil && ctrl.Collider != nil {
		p.Magnet = ctrl.Collider.Magnet
	}
	if ctx != nil && ctx.Gravity == 0 {
		ctx.Gravity = gravity
	}
	return p
}

func (p *PlayerMovement) Gravity() float64      { return p.gravity }
func (p *PlayerMovement) MaxJumpSpeed() float64 { return p.maxJumpSpeed }
func (p *PlayerMovement) MinJumpSpeed() float64 { return p.minJumpSpeed }
func (p *PlayerMovement) WallSliding() bool     { return p.wallSliding }
func (p *PlayerMovement) Ally() *PlayerMovement { return p.ally }

func (p *PlayerMovement) DirectionalInput() cp.Vector {
	return p.input
}

func (p *PlayerMovement) SetDirectionalInput(in cp.Vector) {
	p.input = in
}

// AllyField is the field id carried by the ally, zero without one.
func (p *PlayerMovement) AllyField() magnet.SourceID {
	if p.ally == nil || p.ally.Controller == nil || p.ally.Controller.Collider == nil {
		return 0
	}
	return p.ally.Controller.Collider.FieldID
}

func (p *PlayerMovement) collider() *physics.Collider {
	if p == nil || p.Controller == nil {
		return nil
	}
	return p.Controller.Collider
}

// HandleInput applies a tick's input to a character without a pair.
func (p *PlayerMovement) HandleInput(in Input) {
	p.SetDirectionalInput(in.Move)
	if p.Controller != nil {
		p.Controller.JumpHeld = in.JumpHeld
	}
	if in.JumpPressed {
		p.Jumping = true
		p.OnJumpInputDown()
	}
	if in.JumpReleased {
		p.OnJumpInputUp()
		p.Jumping = false
	}
}

// OnJumpInputDown handles a jump press while the character moves on its own.
func (p *PlayerMovement) OnJumpInputDown() {
	info := &p.Controller.Collisions

	if p.wallSliding {
		switch {
		case p.input.X == p.wallDirX:
			p.Velocity = cp.Vector{X: -p.wallDirX * p.Config.WallJumpClimb.X, Y: p.Config.WallJumpClimb.Y}
		case p.input.X == 0:
			p.Velocity = cp.Vector{X: -p.wallDirX * p.Config.WallJumpOff.X, Y: p.Config.WallJumpOff.Y}
		default:
			p.Velocity = cp.Vector{X: -p.wallDirX * p.Config.WallLeap.X, Y: p.Config.WallLeap.Y}
		}
	}

	// kick away from an adjacent magnetic object
	for _, dir := range []float64{1, -1} {
		for _, hit := range p.Controller.RaycastHorizontally(dir, 0, p.Controller.Mask) {
			if hit.Collider.IsCharacter() || hit.Collider.Magnet == nil {
				continue
			}
			p.Velocity.X = p.maxJumpSpeed * p.Config.JumpWidth * -dir
		}
	}

	if !info.Below || p.input.Y == -1 {
		return
	}
	if info.SlidingDownMaxSlope {
		// pushing into the slope does not jump
		if p.input.X != -common.Sign(info.SlopeNormal.X) {
			p.Velocity = info.SlopeNormal.Mult(p.maxJumpSpeed)
		}
		return
	}
	p.Velocity.Y = p.maxJumpSpeed
}

// OnJumpInputUp cuts an ascending jump to the minimum jump speed.
func (p *PlayerMovement) OnJumpInputUp() {
	if p.Velocity.Y > p.minJumpSpeed {
		p.Velocity.Y = p.minJumpSpeed
	}
}

func (p *PlayerMovement) verticalForce(dt float64) float64 {
	return (p.gravity + p.Magnet.Force().Y) * dt
}

func (p *PlayerMovement) calculateVelocity(dt float64) {
	force := p.Magnet.Force()
	targetX := p.input.X*p.Config.MoveSpeed + force.X
	dv := p.verticalForce(dt)
	p.Resulting = cp.Vector{X: targetX, Y: dv}

	smoothTime := p.Config.AccelerationTimeAirborne
	if p.Controller.Collisions.Below {
		smoothTime = p.Config.AccelerationTimeGrounded
	}
	p.Velocity.X = common.SmoothDamp(p.Velocity.X, targetX, &p.smoothedVelX, smoothTime, math.Inf(1), dt)

	// an upward field never lifts an ascending character past its jump speed
	if p.Velocity.Y > 0 && force.Y > 0 {
		limit := math.Max(p.Velocity.Y, p.maxJumpSpeed)
		p.Velocity.Y = math.Min(p.Velocity.Y+dv, limit)
		return
	}
	p.Velocity.Y += dv
}

func (p *PlayerMovement) handleWallSliding(dt float64) {
	info := &p.Controller.Collisions
	p.wallSliding = false
	p.wallDirX = 1
	if info.Left {
		p.wallDirX = -1
	}
	if !(info.Left || info.Right) || info.Below || p.Velocity.Y >= 0 {
		return
	}

	slidingWall := false
	for _, hit := range p.Controller.RaycastHorizontally(p.wallDirX, 0, p.Controller.Mask) {
		if hit.Collider.Tags.Has(physics.TagSlidingWall) {
			slidingWall = true
			break
		}
	}
	if !slidingWall {
		return
	}
	p.wallSliding = true

	if p.Velocity.Y < -p.Config.WallSlideMaxSpeed {
		p.Velocity.Y = -p.Config.WallSlideMaxSpeed
	}

	if p.timeToWallUnstick <= 0 {
		p.timeToWallUnstick = p.Config.WallStickTime
		return
	}
	p.smoothedVelX = 0
	p.Velocity.X = 0
	if p.input.X != p.wallDirX && p.input.X != 0 {
		p.timeToWallUnstick -= dt
	} else {
		p.timeToWallUnstick = p.Config.WallStickTime
	}
}

// checkStuck casts toward the ally and reports whether it is touching
// sideways within this character's vertical half extent.
func (p *PlayerMovement) checkStuck(rayLength float64) bool {
	self, ally := p.collider(), p.ally.collider()
	if self == nil || ally == nil {
		return false
	}
	toAlly := common.Sign(ally.Position().X - self.Position().X)
	for _, hit := range p.Controller.RaycastHorizontally(toAlly, rayLength, physics.LayerCharacter) {
		if hit.Collider != ally {
			continue
		}
		extentY := self.HalfExtents().Y
		y := ally.Position().Y
		if y < self.Position().Y+extentY && y > self.Position().Y-extentY {
			return true
		}
	}
	return false
}

// checkAboveAlly reports whether this character stands on its ally.
func (p *PlayerMovement) checkAboveAlly() bool {
	p.AboveAlly = false
	if p.ally == nil || !p.Controller.Collisions.Below || p.StuckToAlly || p.ally.StuckToAlly {
		return false
	}
	ally := p.ally.collider()
	for _, hit := range p.Controller.RaycastVertically(-1, 0, physics.LayerCharacter) {
		if hit.Collider == ally {
			p.AboveAlly = true
		}
	}
	return p.AboveAlly
}

// updatePushUp boosts a character that holds up while standing on its ally
// for longer than hold seconds.
func (p *PlayerMovement) updatePushUp(dt, hold float64) {
	if !p.AboveAlly || p.input.Y != 1 {
		p.pushUpTimer = 0
		return
	}
	p.pushUpTimer += dt
	if p.pushUpTimer > hold {
		p.Velocity.Y += p.maxJumpSpeed * p.Config.JumpPushForce
		p.pushUpTimer = 0
		p.log.Debug("pushed up from ally")
	}
}

func (p *PlayerMovement) move(dt float64) {
	delta := p.Velocity.Mult(dt)
	// riding the ally carries its horizontal motion
	if p.AboveAlly && p.ally != nil {
		delta.X += p.ally.Velocity.X * dt
	}
	p.Controller.Move(delta, p.input, false)
	p.settle(dt)
}

// settle stops vertical velocity from accumulating against floors and
// ceilings, and slows the fall along a too steep slope.
func (p *PlayerMovement) settle(dt float64) {
	info := &p.Controller.Collisions
	if !info.Below && !info.Above {
		return
	}
	if info.SlidingDownMaxSlope {
		if vf := p.verticalForce(dt); vf < 0 {
			p.Velocity.Y += info.SlopeNormal.Y * -vf
		}
		return
	}
	p.Velocity.Y = 0
}

// Update runs one tick for a character moving on its own.
func (p *PlayerMovement) Update() {
	dt := p.ctx.Dt()
	p.calculateVelocity(dt)
	p.handleWallSliding(dt)
	p.move(dt)
}
