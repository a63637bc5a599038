package prefabs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/physics"
)

const (
	curveSamples       = 128
	defaultEaseInOut   = 2.0
	curveScriptInput   = "x"
	curveScriptOutput  = "out"
	easeInOutSeparator = ":"
)

var ErrCurveOutput = errors.New("prefabs: curve script does not define out")

// Curve eases the progress of a platform between two waypoints.
type Curve struct {
	Name string

	fn      func(float64) float64
	samples []float64
}

// LoadCurve resolves an ease name. Built in names are linear, smoothstep and
// ease_in_out, which takes an optional exponent as in "ease_in_out:3".
// Any other name is a tengo script under scripts/ that reads x and sets out.
func LoadCurve(name string) (*Curve, error) {
	base, arg, _ := strings.Cut(strings.TrimSpace(name), easeInOutSeparator)
	switch base {
	case "", "linear":
		return &Curve{Name: "linear", fn: func(x float64) float64 { return x }}, nil
	case "smoothstep":
		return &Curve{Name: base, fn: func(x float64) float64 { return x * x * (3 - 2*x) }}, nil
	case "ease_in_out":
		a := defaultEaseInOut
		if arg != "" {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("prefabs: curve %s: bad exponent %q", name, arg)
			}
			a = v
		}
		return &Curve{Name: name, fn: easeInOut(a)}, nil
	}
	return loadScriptCurve(base)
}

func easeInOut(a float64) func(float64) float64 {
	return func(x float64) float64 {
		xa := math.Pow(x, a)
		return xa / (xa + math.Pow(1-x, a))
	}
}

// loadScriptCurve runs the script once per sample so ticking a platform
// never enters the VM.
func loadScriptCurve(name string) (*Curve, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load curve %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add(curveScriptInput, 0.0); err != nil {
		return nil, fmt.Errorf("prefabs: curve %s: %w", name, err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile curve %s: %w", name, err)
	}

	samples := make([]float64, curveSamples+1)
	for i := range samples {
		x := float64(i) / curveSamples
		if err := compiled.Set(curveScriptInput, x); err != nil {
			return nil, fmt.Errorf("prefabs: curve %s: %w", name, err)
		}
		if err := compiled.Run(); err != nil {
			return nil, fmt.Errorf("prefabs: run curve %s at %.3f: %w", name, x, err)
		}
		// globals only exist once the script ran
		out := compiled.Get(curveScriptOutput)
		if out.IsUndefined() {
			return nil, fmt.Errorf("prefabs: curve %s: %w", name, ErrCurveOutput)
		}
		samples[i] = common.Clamp01(out.Float())
	}
	return &Curve{Name: name, samples: samples}, nil
}

// Ease maps x in [0, 1] to the eased progress.
func (c *Curve) Ease(x float64) float64 {
	x = common.Clamp01(x)
	if c == nil {
		return x
	}
	if c.fn != nil {
		return common.Clamp01(c.fn(x))
	}
	if len(c.samples) < 2 {
		return x
	}
	pos := x * float64(len(c.samples)-1)
	i := int(pos)
	if i >= len(c.samples)-1 {
		return c.samples[len(c.samples)-1]
	}
	return common.Lerp(c.samples[i], c.samples[i+1], pos-float64(i))
}

// Func adapts the curve to a platform path.
func (c *Curve) Func() physics.Ease {
	if c == nil {
		return nil
	}
	return c.Ease
}
