package system

import (
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/movement"
	"github.com/sirupsen/logrus"
)

// GoalSystem fills the heart while every goal pad holds its character and
// completes the level once it overflows.
type GoalSystem struct {
	ctx *movement.Context
	log logrus.FieldLogger
}

func NewGoalSystem(ctx *movement.Context) *GoalSystem {
	return &GoalSystem{ctx: ctx, log: ctx.Logger().WithField("system", "goal")}
}

func (s *GoalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	colors := characterColors(w)
	pads, occupied := 0, 0
	ecs.ForEach(w, component.GoalPadComponent.Kind(), func(e ecs.Entity, g *component.GoalPad) {
		g.Occupied = touchedBy(s.ctx.Physics, g.Sensor, colors, g.Color)
		pads++
		if g.Occupied {
			occupied++
		}
	})

	dt := s.ctx.Dt()
	ecs.ForEach(w, component.HeartComponent.Kind(), func(e ecs.Entity, h *component.Heart) {
		if h.Completed {
			return
		}
		if pads > 0 && occupied == pads {
			h.Progress += h.Increment * dt
		} else {
			h.Progress = max(0, h.Progress-h.Decrement*dt)
		}
		if h.Progress > h.Max {
			h.Completed = true
			w.Events().Push(ecs.Event{Kind: EventLevelCompleted, Entity: e})
			s.log.Info("level completed")
		}
	})
}
