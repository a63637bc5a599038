// Package sim builds a level into an ECS world and advances it one fixed
// tick at a time.
package sim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/ecs/entity"
	"github.com/milk9111/magnetpair/ecs/system"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/movement"
	"github.com/milk9111/magnetpair/physics"
	"github.com/milk9111/magnetpair/prefabs"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// ErrMissingSpawn is returned when the level lacks a character spawn.
var ErrMissingSpawn = errors.New("sim: missing spawn")

type Simulation struct {
	World   *ecs.World
	Physics *physics.World
	Ctx     *movement.Context
	Level   *levels.Level

	log       logrus.FieldLogger
	scheduler *ecs.Scheduler
	inputs    system.StaticSource
	spawned   entity.Spawned
	tick      int
	completed bool
}

type options struct {
	source system.InputSource
}

type Option func(*options)

// WithInputSource reads inputs from src instead of SetInput.
func WithInputSource(src system.InputSource) Option {
	return func(o *options) { o.source = src }
}

// New builds lvl with the given tuning. A nil logger discards output.
func New(lvl *levels.Level, t prefabs.Tuning, log logrus.FieldLogger, opts ...Option) (*Simulation, error) {
	if lvl == nil {
		return nil, errors.New("sim: nil level")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("level", lvl.Name)

	if err := lvl.Validate(); err != nil {
		if errors.Is(err, levels.ErrMissingSpawn) {
			return nil, fmt.Errorf("sim: new %s: %w: %w", lvl.Name, ErrMissingSpawn, err)
		}
		return nil, fmt.Errorf("sim: new %s: %w", lvl.Name, err)
	}

	pw := physics.NewWorld(log)
	ctx := movement.NewContext(pw, log)
	if t.VelocityMultiplier > 0 {
		ctx.VelocityMultiplier = t.VelocityMultiplier
	}

	w := ecs.NewWorld()
	spawned, err := entity.LoadLevelToWorld(w, ctx, lvl, t)
	if err != nil {
		return nil, fmt.Errorf("sim: new %s: %w", lvl.Name, err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Simulation{
		World:   w,
		Physics: pw,
		Ctx:     ctx,
		Level:   lvl,
		log:     log,
		inputs:  system.StaticSource{},
		spawned: spawned,
	}
	src := o.source
	if src == nil {
		src = s.inputs
	}

	// characters move before the platforms carry them
	s.scheduler = ecs.NewScheduler(
		system.NewInputSystem(src),
		system.NewFieldSystem(pw),
		system.NewPlayerMovementSystem(),
		system.NewObjectMovementSystem(),
		system.NewPlatformSystem(ctx),
		system.NewButtonSystem(pw),
		system.NewGoalSystem(ctx),
		system.NewTransformSyncSystem(),
	)
	log.WithField("colliders", len(pw.Colliders())).Debug("level built")
	return s, nil
}

// SetInput stores the held controls of a character for the next ticks.
// It has no effect when the simulation reads another input source.
func (s *Simulation) SetInput(c component.Color, in component.InputState) {
	s.inputs[c] = in
}

// Step advances one tick and returns the events it produced.
func (s *Simulation) Step() []ecs.Event {
	s.scheduler.Update(s.World)
	s.tick++
	events := s.World.Events().Drain()
	for _, ev := range events {
		if ev.Kind == system.EventLevelCompleted && !s.completed {
			s.completed = true
			s.log.WithField("tick", s.tick).Info("level completed")
		}
	}
	return events
}

func (s *Simulation) Tick() int { return s.tick }

func (s *Simulation) LevelCompleted() bool { return s.completed }

// Character returns the mover of a color.
func (s *Simulation) Character(c component.Color) *movement.PlayerMovement {
	e := s.spawned.Red
	if c == component.Blue {
		e = s.spawned.Blue
	}
	ch, ok := ecs.Get(s.World, e, component.CharacterComponent.Kind())
	if !ok {
		return nil
	}
	return ch.Movement
}

func (s *Simulation) Pair() *movement.Override {
	p, ok := ecs.Get(s.World, s.spawned.Pair, component.PairComponent.Kind())
	if !ok {
		return nil
	}
	return p.Override
}

func (s *Simulation) Heart() *component.Heart {
	h, _ := ecs.Get(s.World, s.spawned.Heart, component.HeartComponent.Kind())
	return h
}

// Checksum hashes every collider position and enabled flag. Two runs of the
// same level with the same inputs produce the same value.
func (s *Simulation) Checksum() uint64 {
	h := xxh3.New()
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	for _, c := range s.Physics.Colliders() {
		p := c.Position()
		binary.LittleEndian.PutUint64(buf[:], uint64(c.ID))
		_, _ = h.Write(buf[:])
		put(p.X)
		put(p.Y)
		if c.Enabled() {
			put(1)
		} else {
			put(0)
		}
	}
	for _, c := range []component.Color{component.Red, component.Blue} {
		if m := s.Character(c); m != nil {
			put(m.Velocity.X)
			put(m.Velocity.Y)
		}
	}
	return h.Sum64()
}
