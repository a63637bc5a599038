package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"gopkg.in/yaml.v3"
)

// TuningFile holds the game wide physics tuning.
const TuningFile = "tuning.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// FieldTuning sizes the field carried by every character.
type FieldTuning struct {
	StrengthX   float64 `yaml:"strength_x"`
	StrengthY   float64 `yaml:"strength_y"`
	Radius      float64 `yaml:"radius"`
	YFloorScale float64 `yaml:"y_floor_scale"`
}

type CrateTuning struct {
	AccelerationTime float64 `yaml:"acceleration_time"`
	ForceReceived    float64 `yaml:"force_received"`
}

// Tuning is every number the simulation reads that is not part of a level.
type Tuning struct {
	VelocityMultiplier float64 `yaml:"velocity_multiplier"`
	SkinWidth          float64 `yaml:"skin_width"`
	RaySpacing         float64 `yaml:"ray_spacing"`
	MaxSlopeAngle      float64 `yaml:"max_slope_angle"`

	Character      movement.Config         `yaml:"character"`
	Override       movement.OverrideConfig `yaml:"override"`
	CharacterSize  cp.Vector               `yaml:"character_size"`
	CharacterField FieldTuning             `yaml:"character_field"`
	// ForceReceived scales the forces applied to characters.
	ForceReceived float64     `yaml:"force_received"`
	Crate         CrateTuning `yaml:"crate"`
}

func DefaultTuning() Tuning {
	return Tuning{
		VelocityMultiplier: 1,
		SkinWidth:          common.SkinWidth,
		RaySpacing:         common.DefaultRaySpacing,
		MaxSlopeAngle:      physics.DefaultMaxSlopeAngle,
		Character:          movement.DefaultConfig(),
		Override:           movement.DefaultOverrideConfig(),
		CharacterSize:      cp.Vector{X: 0.9, Y: 0.9},
		CharacterField: FieldTuning{
			StrengthX:   4,
			StrengthY:   4,
			Radius:      3,
			YFloorScale: 1.5,
		},
		ForceReceived: 1,
		Crate: CrateTuning{
			AccelerationTime: 0.2,
			ForceReceived:    1,
		},
	}
}

// LoadTuning reads tuning.yaml over the defaults, so the file only needs the
// values it changes.
func LoadTuning() (Tuning, error) {
	t := DefaultTuning()
	data, err := Load(TuningFile)
	if err != nil {
		return t, fmt.Errorf("prefabs: load %s: %w", TuningFile, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("prefabs: unmarshal %s: %w", TuningFile, err)
	}
	return t, nil
}
