package movement

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/physics"
	"github.com/sirupsen/logrus"
)

// State is one phase of the pair's stick state machine.
type State interface {
	Name() string
	Enter(o *Override)
	Update(o *Override, dt float64)
}

// Pair state singletons.
var (
	StateSeparate   State = &separateState{}
	StateStuck      State = &stuckState{}
	StateUnplugging State = &unplugState{}
)

type separateState struct{}

type stuckState struct{}

type unplugState struct{}

func (separateState) Name() string { return "separate" }
func (separateState) Enter(o *Override) {
	o.holdTimer = 0
}
func (separateState) Update(o *Override, dt float64) {}

func (stuckState) Name() string { return "stuck" }
func (stuckState) Enter(o *Override) {
	o.holdTimer = 0
	o.log.Debug("characters stuck together")
}
func (stuckState) Update(o *Override, dt float64) {
	if !o.opposingInputs() {
		o.holdTimer = 0
		return
	}
	o.holdTimer += dt
	if o.holdTimer > o.Config.TimeToUnplug {
		o.setState(StateUnplugging)
	}
}

func (unplugState) Name() string { return "unplugging" }
func (unplugState) Enter(o *Override) {
	o.unplugTimer = o.Config.UnplugWindow
	away := common.Sign(o.Red.collider().Position().X - o.Blue.collider().Position().X)
	o.sepRed = o.Config.UnplugForce * away
	o.sepBlue = -o.Config.UnplugForce * away
	o.log.Debug("unplugging")
}
func (unplugState) Update(o *Override, dt float64) {
	decay := math.Max(0, 1-o.Config.UnplugDrag*dt)
	o.sepRed *= decay
	o.sepBlue *= decay
	o.unplugTimer -= dt
	if o.unplugTimer > 0 {
		return
	}
	o.sepRed, o.sepBlue = 0, 0
	o.Red.StuckToAlly = false
	o.Blue.StuckToAlly = false
	o.reregisterAllyForce(o.Red)
	o.reregisterAllyForce(o.Blue)
	o.setState(StateSeparate)
}

// Override moves two stuck characters as a single body and runs the
// stick and unplug state machine.
type Override struct {
	Config    OverrideConfig
	Red, Blue *PlayerMovement

	ctx   *Context
	log   logrus.FieldLogger
	state State

	// accumulated velocities while stuck
	velRed, velBlue cp.Vector
	sepRed, sepBlue float64

	holdTimer       float64
	unplugTimer     float64
	secondJumpTimer float64
}

func NewOverride(ctx *Context, red, blue *PlayerMovement, cfg OverrideConfig) (*Override, error) {
	if red == nil || red.collider() == nil {
		return nil, fmt.Errorf("new override: red: %w", ErrMissingAlly)
	}
	if blue == nil || blue.collider() == nil {
		return nil, fmt.Errorf("new override: blue: %w", ErrMissingAlly)
	}
	red.ally = blue
	blue.ally = red
	return &Override{
		Config: cfg,
		Red:    red,
		Blue:   blue,
		ctx:    ctx,
		log:    ctx.Logger().WithField("pair", red.Name+"+"+blue.Name),
		state:  StateSeparate,
	}, nil
}

func (o *Override) State() State { return o.state }

func (o *Override) Stuck() bool {
	return o.Red.StuckToAlly || o.Blue.StuckToAlly
}

func (o *Override) Unplugging() bool { return o.state == StateUnplugging }

func (o *Override) WaitingForSecondJump() bool { return o.secondJumpTimer > 0 }

// StuckVelocity returns the reconciled velocities of the pair.
func (o *Override) StuckVelocity() (red, blue cp.Vector) {
	return o.velRed, o.velBlue
}

func (o *Override) setState(s State) {
	if o.state == s {
		return
	}
	o.state = s
	s.Enter(o)
}

func (o *Override) opposingInputs() bool {
	r, b := o.Red.input.X, o.Blue.input.X
	return (r == 1 && b == -1) || (r == -1 && b == 1)
}

// HandleInput routes a character's input for this tick. Call it for both
// characters before Update.
func (o *Override) HandleInput(p *PlayerMovement, in Input) {
	p.SetDirectionalInput(in.Move)
	p.Controller.JumpHeld = in.JumpHeld

	if in.JumpPressed {
		p.Jumping = true
		if p.StuckToAlly {
			o.OnJumpInputDown(p)
		} else {
			p.OnJumpInputDown()
		}
	}
	if in.JumpReleased {
		p.OnJumpInputUp()
		p.Jumping = false
	}
	if in.UnplugPressed {
		o.OnUnplugInput()
	}
}

// OnUnplugInput splits a stuck pair right away.
func (o *Override) OnUnplugInput() {
	if o.state == StateStuck {
		o.setState(StateUnplugging)
	}
}

// OnJumpInputDown jumps the whole pair when p is close enough to the ground.
// A second press within the window adds a smaller boost.
func (o *Override) OnJumpInputDown(p *PlayerMovement) {
	if o.secondJumpTimer > 0 {
		o.velRed.Y += o.Red.maxJumpSpeed * o.Config.SecondJumpFactor
		o.velBlue.Y += o.Blue.maxJumpSpeed * o.Config.SecondJumpFactor
		o.secondJumpTimer = 0
		return
	}

	mask := p.Controller.Mask &^ physics.LayerCharacter
	hits := p.Controller.RaycastVertically(-1, p.Controller.SkinWidth+o.Config.GroundCheck, mask)
	if len(hits) == 0 {
		return
	}
	o.velRed.Y += o.Red.maxJumpSpeed * o.Config.FirstJumpFactor
	o.velBlue.Y += o.Blue.maxJumpSpeed * o.Config.FirstJumpFactor
	o.secondJumpTimer = o.Config.SecondJumpWindow
}

// Update advances both characters by one tick.
func (o *Override) Update() {
	dt := o.ctx.Dt()
	red, blue := o.Red, o.Blue

	if o.secondJumpTimer > 0 {
		o.secondJumpTimer = math.Max(0, o.secondJumpTimer-dt)
	}
	o.state.Update(o, dt)

	red.checkAboveAlly()
	blue.checkAboveAlly()
	red.updatePushUp(dt, o.Config.TimeToUnplug)
	blue.updatePushUp(dt, o.Config.TimeToUnplug)

	o.updateStuck()

	for _, p := range []*PlayerMovement{red, blue} {
		p.calculateVelocity(dt)
		p.handleWallSliding(dt)
	}

	if !o.Stuck() {
		o.velRed, o.velBlue = cp.Vector{}, cp.Vector{}
		// the character below moves first so a rider follows it
		first, second := red, blue
		if red.AboveAlly {
			first, second = blue, red
		}
		first.move(dt)
		second.move(dt)
		return
	}

	if o.anyVerticalContact() {
		red.Velocity.Y = 0
		blue.Velocity.Y = 0
	}
	o.resolveStuckVelocity()
	o.applyStuckMovement(dt)

	if o.anyVerticalContact() {
		red.Resulting.Y, blue.Resulting.Y = 0, 0
		o.velRed.Y, o.velBlue.Y = 0, 0
	}
}

func (o *Override) updateStuck() {
	red, blue := o.Red, o.Blue
	if o.state == StateUnplugging {
		red.StuckToAlly, blue.StuckToAlly = true, true
	} else {
		rayLength := o.Config.StickRay
		if red.StuckToAlly || blue.StuckToAlly {
			rayLength = o.Config.StuckStickRay
		}
		red.StuckToAlly = red.checkStuck(rayLength)
		blue.StuckToAlly = blue.checkStuck(rayLength)
	}

	for _, p := range []*PlayerMovement{red, blue} {
		if !p.StuckToAlly {
			continue
		}
		// stuck characters ignore each other's field
		if id := p.AllyField(); id != 0 && p.Magnet.HasForce(id) {
			p.Magnet.UnregisterForce(id)
		}
	}

	switch {
	case o.state == StateSeparate && o.Stuck():
		o.setState(StateStuck)
	case o.state == StateStuck && !o.Stuck():
		o.setState(StateSeparate)
	}
}

func (o *Override) anyVerticalContact() bool {
	r, b := &o.Red.Controller.Collisions, &o.Blue.Controller.Collisions
	return r.Below || r.Above || b.Below || b.Above
}

func (o *Override) resolveStuckVelocity() {
	red, blue := o.Red, o.Blue

	sumX := red.Resulting.X + blue.Resulting.X
	redX, blueX := sumX, sumX
	// both pushing the same way would double the speed
	if red.input.X != 0 && red.input.X == blue.input.X {
		redX -= red.Config.MoveSpeed * red.input.X
		blueX -= blue.Config.MoveSpeed * blue.input.X
	}
	o.velRed.X = common.Clamp(redX, -red.Config.MoveSpeed, red.Config.MoveSpeed) + o.sepRed
	o.velBlue.X = common.Clamp(blueX, -blue.Config.MoveSpeed, blue.Config.MoveSpeed) + o.sepBlue

	redY, blueY := red.Resulting.Y, blue.Resulting.Y
	dy := redY + blueY
	if common.Sign(redY) == common.Sign(blueY) {
		dy = blueY
		if math.Abs(redY) > math.Abs(blueY) {
			dy = redY
		}
	}
	o.velRed.Y += dy
	o.velBlue.Y += dy

	redInfo, blueInfo := &red.Controller.Collisions, &blue.Controller.Collisions
	if (redInfo.Below || blueInfo.Below) && (o.velRed.Y < 0 || o.velBlue.Y < 0) {
		o.velRed.Y, o.velBlue.Y = 0, 0
		// the airborne one hangs at the grounded one's height
		w := o.ctx.Physics
		if redInfo.Below {
			w.SetPosition(blue.collider(), cp.Vector{X: blue.collider().Position().X, Y: red.collider().Position().Y})
		}
		if blueInfo.Below {
			w.SetPosition(red.collider(), cp.Vector{X: red.collider().Position().X, Y: blue.collider().Position().Y})
		}
	}
}

// applyStuckMovement moves the character leading in the travel direction
// first so the other one is not blocked by its not yet moved ally.
func (o *Override) applyStuckMovement(dt float64) {
	red, blue := o.Red, o.Blue
	travel := 1.0
	switch {
	case o.velRed.X > 0 || o.velBlue.X > 0:
		travel = 1
	case o.velRed.X < 0 || o.velBlue.X < 0:
		travel = -1
	}

	first, second := red, blue
	firstVel, secondVel := o.velRed, o.velBlue
	if blue.collider().Position().X*travel > red.collider().Position().X*travel {
		first, second = blue, red
		firstVel, secondVel = o.velBlue, o.velRed
	}

	secondDelta := secondVel.Mult(dt)
	if o.state == StateStuck {
		secondDelta.X += o.contactCorrection(second, first)
	}

	first.Controller.Move(firstVel.Mult(dt), first.input, false)
	second.Controller.Move(secondDelta, second.input, false)
}

// reregisterAllyForce gives p back the ally's field when it is still inside
// its range after unplugging. The field's next stay fills in the value.
func (o *Override) reregisterAllyForce(p *PlayerMovement) {
	id := p.AllyField()
	sensor := p.ally.FieldSensor
	if id == 0 || sensor == nil || p.Magnet == nil || p.Magnet.HasForce(id) {
		return
	}
	self := p.collider()
	for _, c := range o.ctx.Physics.Overlapping(sensor, self.Layer) {
		if c == self {
			p.Magnet.RegisterForce(id, cp.Vector{})
			return
		}
	}
}

// contactCorrection returns the shift that brings p back against ally when
// the horizontal gap drifted past the tolerance.
func (o *Override) contactCorrection(p, ally *PlayerMovement) float64 {
	a, b := p.collider().Bounds(), ally.collider().Bounds()
	var gap, dir float64
	if a.R <= b.L {
		gap, dir = b.L-a.R, 1
	} else if b.R <= a.L {
		gap, dir = a.L-b.R, -1
	}
	if gap <= o.Config.ContactTolerance || gap > o.Config.StuckStickRay {
		return 0
	}
	return gap * dir
}
