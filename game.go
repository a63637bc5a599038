package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/magnetpair/ecs/render"
	"github.com/milk9111/magnetpair/levels"
	"github.com/milk9111/magnetpair/prefabs"
	"github.com/milk9111/magnetpair/sim"
	"github.com/sirupsen/logrus"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	cameraMargin = 1.0
)

var background = color.RGBA{0x14, 0x14, 0x1c, 0xff}

type Game struct {
	frames int
	debug  bool

	levelName string
	log       logrus.FieldLogger
	input     *ebitenSource
	watcher   *prefabs.Watcher

	sim    *sim.Simulation
	camera render.DebugCamera
	status string
}

func NewGame(levelName string, debug bool, log logrus.FieldLogger) (*Game, error) {
	g := &Game{
		debug:     debug,
		levelName: levelName,
		log:       log,
		input:     &ebitenSource{},
	}
	if err := g.rebuild(); err != nil {
		return nil, err
	}

	// hot reload only works against the source tree
	w, err := prefabs.NewWatcher("levels", "prefabs", "prefabs/scenarios", "prefabs/scripts")
	if err != nil {
		log.WithError(err).Warn("hot reload disabled")
	} else {
		g.watcher = w
	}
	return g, nil
}

// rebuild loads the level and tuning again and restarts the simulation.
func (g *Game) rebuild() error {
	lvl, err := levels.Load(g.levelName)
	if err != nil {
		return err
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return err
	}
	s, err := sim.New(lvl, tuning, g.log, sim.WithInputSource(g.input))
	if err != nil {
		return err
	}
	g.sim = s
	g.camera = render.FitCamera(lvl.Size(), baseWidth, baseHeight, cameraMargin)
	g.status = ""
	return nil
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()
	g.input.poll()

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload("restart")
	}
	if g.sim != nil {
		g.sim.Step()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if ch.Kind == prefabs.ChangeScenario {
				continue
			}
			g.reload(ch.Kind.String())
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.WithError(err).Warn("watcher")
		default:
			return
		}
	}
}

func (g *Game) reload(reason string) {
	if err := g.rebuild(); err != nil {
		g.status = fmt.Sprintf("reload failed: %v", err)
		g.log.WithError(err).WithField("reason", reason).Error("reload failed")
		return
	}
	g.log.WithField("reason", reason).Info("level reloaded")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if g.sim != nil {
		render.DrawPhysics(g.sim.Physics, screen, g.camera)
		if g.debug {
			render.DrawPair(g.sim.World, screen)
		}
	}

	hud := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())
	if g.sim != nil && g.sim.LevelCompleted() {
		hud += "    level complete, R to restart"
	}
	if g.status != "" {
		hud += "    " + g.status
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
