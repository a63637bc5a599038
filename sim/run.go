package sim

import (
	"fmt"

	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/prefabs"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one replayed scenario.
type Result struct {
	Scenario  string
	Level     string
	Ticks     int
	Completed bool
	Stuck     bool
	Checksum  uint64
	Failures  []string
}

func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Run replays sc on lvl tick by tick and checks its expectations.
func Run(sc prefabs.Scenario, lvl *levels.Level, t prefabs.Tuning, log logrus.FieldLogger) (Result, error) {
	if log != nil {
		log = log.WithField("scenario", sc.Name)
	}
	s, err := New(lvl, t, log)
	if err != nil {
		return Result{}, fmt.Errorf("sim: run %s: %w", sc.Name, err)
	}

	for tick := 0; tick < sc.Ticks; tick++ {
		red, blue := sc.InputAt(tick)
		s.SetInput(component.Red, inputState(red))
		s.SetInput(component.Blue, inputState(blue))
		s.Step()
	}

	res := Result{
		Scenario:  sc.Name,
		Level:     lvl.Name,
		Ticks:     s.Tick(),
		Completed: s.LevelCompleted(),
		Checksum:  s.Checksum(),
	}
	if p := s.Pair(); p != nil {
		res.Stuck = p.Stuck()
	}
	if want := sc.Expect.Completed; want != nil && *want != res.Completed {
		res.Failures = append(res.Failures, fmt.Sprintf("completed: expected %v, got %v", *want, res.Completed))
	}
	if want := sc.Expect.Stuck; want != nil && *want != res.Stuck {
		res.Failures = append(res.Failures, fmt.Sprintf("stuck: expected %v, got %v", *want, res.Stuck))
	}
	return res, nil
}

func inputState(in prefabs.InputSpec) component.InputState {
	return component.InputState{
		MoveX:  in.MoveX,
		MoveY:  in.MoveY,
		Jump:   in.Jump,
		Unplug: in.Unplug,
	}
}
