// Package render draws the physics world and pair state over an ebiten screen
// for the viewer. Nothing in the simulation path imports it.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/ecs"
	"github.com/milk9111/magnetpair/ecs/component"
	"github.com/milk9111/magnetpair/magnet"
	"github.com/milk9111/magnetpair/physics"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DebugCamera maps world units to screen pixels. X and Y is the world point
// drawn at the bottom left corner of the screen.
type DebugCamera struct {
	X, Y         float64
	Zoom         float64
	ScreenHeight float64
}

// FitCamera frames a level of the given size in a screen, with a margin in
// world units on every side.
func FitCamera(level cp.Vector, screenW, screenH, margin float64) DebugCamera {
	w, h := level.X+2*margin, level.Y+2*margin
	zoom := 1.0
	if w > 0 && h > 0 {
		zoom = math.Min(screenW/w, screenH/h)
	}
	return DebugCamera{X: -margin, Y: -margin, Zoom: zoom, ScreenHeight: screenH}
}

// DrawPhysics outlines every collider, colored by layer.
func DrawPhysics(pw *physics.World, screen *ebiten.Image, cam DebugCamera) {
	if pw == nil || screen == nil {
		return
	}
	drawer := &physicsDebugDrawer{screen: screen, cam: cam, world: pw}
	cp.DrawSpace(pw.Space(), drawer)
}

// DrawPair prints the stick state, per character motion and the heart.
func DrawPair(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	var b strings.Builder
	ecs.ForEach(w, component.PairComponent.Kind(), func(e ecs.Entity, p *component.Pair) {
		o := p.Override
		fmt.Fprintf(&b, "Pair: %s  second jump: %v\n", o.State().Name(), o.WaitingForSecondJump())
	})
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, ch *component.Character) {
		m := ch.Movement
		info := m.Controller.Collisions
		f := m.Magnet.Force()
		fmt.Fprintf(&b, "%s v=(%.2f, %.2f) F=(%.2f, %.2f) below=%v wall=%v stuck=%v above=%v\n",
			ch.Color, m.Velocity.X, m.Velocity.Y, f.X, f.Y, info.Below, m.WallSliding(), m.StuckToAlly, m.AboveAlly)
	})
	ecs.ForEach(w, component.HeartComponent.Kind(), func(e ecs.Entity, h *component.Heart) {
		fmt.Fprintf(&b, "Heart: %.0f%%  completed: %v\n", h.Fraction()*100, h.Completed)
	})
	ebitenutil.DebugPrintAt(screen, b.String(), 10, 24)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    DebugCamera
	world  *physics.World
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
	if radius > 0 {
		d.drawCircle(a, radius, fill)
		d.drawCircle(b, radius, fill)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], fill)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2 / d.zoom()
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor colors a shape by the layer of its collider.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	c, ok := d.world.ColliderForShape(shape)
	if !ok {
		return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 0.9}
	}
	var col cp.FColor
	switch {
	case c.Layer.Has(physics.LayerCharacter):
		col = cp.FColor{R: 1, G: 0.25, B: 0.25, A: 1}
		if c.Magnet != nil && c.Magnet.Polarity == magnet.Negative {
			col = cp.FColor{R: 0.3, G: 0.5, B: 1, A: 1}
		}
	case c.Layer.Has(physics.LayerObject):
		col = cp.FColor{R: 1, G: 0.6, B: 0.1, A: 1}
	case c.Layer.Has(physics.LayerPlatform):
		col = cp.FColor{R: 0.2, G: 0.9, B: 0.9, A: 1}
	case c.Layer.Has(physics.LayerDoor):
		col = cp.FColor{R: 0.7, G: 0.45, B: 0.2, A: 1}
	case c.Layer.Has(physics.LayerField):
		col = cp.FColor{R: 0.9, G: 0.9, B: 0.2, A: 0.35}
	case c.Layer.Has(physics.LayerTrigger):
		col = cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.8}
	case c.Tags.Has(physics.TagPassable):
		col = cp.FColor{R: 0.6, G: 0.6, B: 0.9, A: 0.9}
	case c.Tags.Has(physics.TagSlidingWall):
		col = cp.FColor{R: 0.8, G: 0.8, B: 0.8, A: 1}
	default:
		col = cp.FColor{R: 0.55, G: 0.55, B: 0.55, A: 1}
	}
	if !c.Enabled() {
		col.A *= 0.25
	}
	return col
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) zoom() float64 {
	if d.cam.Zoom <= 0 {
		return 1
	}
	return d.cam.Zoom
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

// toScreen flips Y since the world is Y up and the screen Y down.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float64, float64) {
	z := d.zoom()
	return (v.X - d.cam.X) * z, d.cam.ScreenHeight - (v.Y-d.cam.Y)*z
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
