// Package movement turns per tick input and magnetic forces into
// displacements for characters and crates, and keeps two stuck characters
// moving as one body.
package movement

import (
	"errors"
	"io"

	"github.com/milk9111/magnetpair/common"
	"github.com/milk9111/magnetpair/physics"
	"github.com/sirupsen/logrus"
)

// ErrMissingAlly is returned when a character pair is built without one of its members.
var ErrMissingAlly = errors.New("movement: missing ally")

// Context carries the simulation wide values every mover reads.
type Context struct {
	Physics *physics.World
	Log     logrus.FieldLogger

	// Gravity is the shared downward acceleration, set from the first character's jump tuning.
	Gravity float64
	// VelocityMultiplier scales time. 1 is real time.
	VelocityMultiplier float64
	FixedDelta         float64
}

func NewContext(w *physics.World, log logrus.FieldLogger) *Context {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Context{
		Physics:            w,
		Log:                log.WithField("system", "movement"),
		VelocityMultiplier: 1,
		FixedDelta:         common.FixedDelta,
	}
}

// Dt is the time step movers integrate with.
func (c *Context) Dt() float64 {
	if c == nil {
		return common.FixedDelta
	}
	fd := c.FixedDelta
	if fd <= 0 {
		fd = common.FixedDelta
	}
	return fd * c.VelocityMultiplier
}

func (c *Context) Logger() logrus.FieldLogger {
	if c == nil || c.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return c.Log
}
