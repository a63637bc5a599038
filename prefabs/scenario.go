package prefabs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

const scenarioDir = "scenarios"

// InputSpec is the held input of one character.
type InputSpec struct {
	MoveX  float64 `yaml:"move_x"`
	MoveY  float64 `yaml:"move_y"`
	Jump   bool    `yaml:"jump"`
	Unplug bool    `yaml:"unplug"`
}

// ScenarioStep holds both inputs for the ticks in [From, To).
type ScenarioStep struct {
	From int       `yaml:"from"`
	To   int       `yaml:"to"`
	Red  InputSpec `yaml:"red"`
	Blue InputSpec `yaml:"blue"`
}

// Expectation is checked once the last tick ran. Unset fields are not checked.
type Expectation struct {
	Completed *bool `yaml:"completed"`
	Stuck     *bool `yaml:"stuck"`
}

// Scenario is a scripted input timeline replayed by the headless runner.
type Scenario struct {
	Name   string         `yaml:"name"`
	Level  string         `yaml:"level"`
	Ticks  int            `yaml:"ticks"`
	Steps  []ScenarioStep `yaml:"steps"`
	Expect Expectation    `yaml:"expect"`
}

// InputAt returns the inputs held at tick. Later steps win over earlier ones.
func (s Scenario) InputAt(tick int) (red, blue InputSpec) {
	for _, step := range s.Steps {
		if tick >= step.From && tick < step.To {
			red, blue = step.Red, step.Blue
		}
	}
	return red, blue
}

func LoadScenario(name string) (Scenario, error) {
	file := name
	if !strings.HasSuffix(file, ".yaml") {
		file += ".yaml"
	}
	if !strings.HasPrefix(file, scenarioDir+"/") {
		file = path.Join(scenarioDir, file)
	}
	sc, err := LoadSpec[Scenario](file)
	if err != nil {
		return Scenario{}, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(path.Base(file), ".yaml")
	}
	if sc.Ticks <= 0 {
		return Scenario{}, fmt.Errorf("prefabs: scenario %s: ticks must be positive", sc.Name)
	}
	return sc, nil
}

// ListScenarios returns the names of the embedded scenarios.
func ListScenarios() ([]string, error) {
	files, err := fs.Glob(PrefabsFS, scenarioDir+"/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list scenarios: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
