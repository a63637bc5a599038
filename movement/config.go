package movement

import "github.com/jakecoffman/cp"

// Config tunes one character.
type Config struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	MaxJumpHeight  float64 `yaml:"max_jump_height"`
	MinJumpHeight  float64 `yaml:"min_jump_height"`
	TimeToJumpApex float64 `yaml:"time_to_jump_apex"`
	// JumpWidth scales the horizontal kick of a jump off a magnetic object.
	JumpWidth float64 `yaml:"jump_width"`
	// JumpPushForce scales the boost received when pushing off the ally from above.
	JumpPushForce float64 `yaml:"jump_push_force"`

	AccelerationTimeGrounded float64 `yaml:"acceleration_time_grounded"`
	AccelerationTimeAirborne float64 `yaml:"acceleration_time_airborne"`

	WallSlideMaxSpeed float64   `yaml:"wall_slide_max_speed"`
	WallStickTime     float64   `yaml:"wall_stick_time"`
	WallJumpClimb     cp.Vector `yaml:"wall_jump_climb"`
	WallJumpOff       cp.Vector `yaml:"wall_jump_off"`
	WallLeap          cp.Vector `yaml:"wall_leap"`
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:                6,
		MaxJumpHeight:            4,
		MinJumpHeight:            1,
		TimeToJumpApex:           0.5,
		JumpWidth:                0.5,
		JumpPushForce:            1.7,
		AccelerationTimeGrounded: 0.1,
		AccelerationTimeAirborne: 0.2,
		WallSlideMaxSpeed:        3,
		WallStickTime:            0.25,
		WallJumpClimb:            cp.Vector{X: 7.5, Y: 16},
		WallJumpOff:              cp.Vector{X: 8.5, Y: 7},
		WallLeap:                 cp.Vector{X: 18, Y: 17},
	}
}

// withDefaults fills zero fields that would make the jump math degenerate.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxJumpHeight <= 0 {
		c.MaxJumpHeight = d.MaxJumpHeight
	}
	if c.MinJumpHeight <= 0 {
		c.MinJumpHeight = d.MinJumpHeight
	}
	if c.TimeToJumpApex <= 0 {
		c.TimeToJumpApex = d.TimeToJumpApex
	}
	if c.AccelerationTimeGrounded <= 0 {
		c.AccelerationTimeGrounded = d.AccelerationTimeGrounded
	}
	if c.AccelerationTimeAirborne <= 0 {
		c.AccelerationTimeAirborne = d.AccelerationTimeAirborne
	}
	return c
}

// OverrideConfig tunes the stuck pair.
type OverrideConfig struct {
	// TimeToUnplug is how long opposite inputs must be held to split the pair.
	TimeToUnplug float64 `yaml:"time_to_unplug"`
	// UnplugForce is the initial separation speed of each character.
	UnplugForce float64 `yaml:"unplug_force"`
	// UnplugDrag is the fraction of separation speed lost per second.
	UnplugDrag   float64 `yaml:"unplug_drag"`
	UnplugWindow float64 `yaml:"unplug_window"`

	SecondJumpWindow float64 `yaml:"second_jump_window"`
	FirstJumpFactor  float64 `yaml:"first_jump_factor"`
	SecondJumpFactor float64 `yaml:"second_jump_factor"`
	GroundCheck      float64 `yaml:"ground_check"`

	StickRay         float64 `yaml:"stick_ray"`
	StuckStickRay    float64 `yaml:"stuck_stick_ray"`
	ContactTolerance float64 `yaml:"contact_tolerance"`
}

func DefaultOverrideConfig() OverrideConfig {
	return OverrideConfig{
		TimeToUnplug:     2,
		UnplugForce:      3,
		UnplugDrag:       4,
		UnplugWindow:     0.2,
		SecondJumpWindow: 0.05,
		FirstJumpFactor:  0.7,
		SecondJumpFactor: 0.5,
		GroundCheck:      0.02,
		StickRay:         0.025,
		StuckStickRay:    0.5,
		ContactTolerance: 0.05,
	}
}
