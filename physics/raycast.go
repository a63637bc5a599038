package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/magnetpair/common"
)

// RaycastOrigins are the corners of a collider's bounds shrunk by the skin width.
type RaycastOrigins struct {
	TopLeft, TopRight       cp.Vector
	BottomLeft, BottomRight cp.Vector
}

// RaycastController casts evenly spaced ray fans from the edges of a box.
type RaycastController struct {
	World    *World
	Collider *Collider
	// Mask selects what the rays can hit.
	Mask Layer

	SkinWidth  float64
	RaySpacing float64

	HorizontalRayCount   int
	VerticalRayCount     int
	HorizontalRaySpacing float64
	VerticalRaySpacing   float64

	Origins RaycastOrigins
}

func NewRaycastController(w *World, c *Collider, mask Layer) RaycastController {
	rc := RaycastController{
		World:      w,
		Collider:   c,
		Mask:       mask,
		SkinWidth:  common.SkinWidth,
		RaySpacing: common.DefaultRaySpacing,
	}
	rc.RecomputeRaySpacing()
	rc.RecomputeRayOrigins()
	return rc
}

// RayCount returns how many rays cover size so that no two neighbours are
// farther apart than maxSpacing. There are always at least two.
func RayCount(size, maxSpacing float64) int {
	if size <= 0 || maxSpacing <= 0 {
		return 2
	}
	n := int(math.Ceil(size/maxSpacing)) + 1
	if n < 2 {
		n = 2
	}
	return n
}

func (r *RaycastController) shrunkBounds() cp.BB {
	bb := r.Collider.Bounds()
	skin := r.SkinWidth
	return cp.BB{L: bb.L + skin, B: bb.B + skin, R: bb.R - skin, T: bb.T - skin}
}

// RecomputeRayOrigins refreshes the corners from the collider's current position.
func (r *RaycastController) RecomputeRayOrigins() {
	if r == nil || r.Collider == nil {
		return
	}
	bb := r.shrunkBounds()
	r.Origins = RaycastOrigins{
		TopLeft:     cp.Vector{X: bb.L, Y: bb.T},
		TopRight:    cp.Vector{X: bb.R, Y: bb.T},
		BottomLeft:  cp.Vector{X: bb.L, Y: bb.B},
		BottomRight: cp.Vector{X: bb.R, Y: bb.B},
	}
}

// RecomputeRaySpacing derives ray counts from the collider size. Call it
// again after resizing the collider.
func (r *RaycastController) RecomputeRaySpacing() {
	if r == nil || r.Collider == nil {
		return
	}
	bb := r.shrunkBounds()
	width := math.Max(0, bb.R-bb.L)
	height := math.Max(0, bb.T-bb.B)

	r.HorizontalRayCount = RayCount(height, r.RaySpacing)
	r.VerticalRayCount = RayCount(width, r.RaySpacing)
	r.HorizontalRaySpacing = height / float64(r.HorizontalRayCount-1)
	r.VerticalRaySpacing = width / float64(r.VerticalRayCount-1)
}

// horizontalOrigin is the start of the i-th ray of the side fan facing dirX.
func (r *RaycastController) horizontalOrigin(dirX float64, i int) cp.Vector {
	o := r.Origins.BottomRight
	if dirX < 0 {
		o = r.Origins.BottomLeft
	}
	o.Y += r.HorizontalRaySpacing * float64(i)
	return o
}

// verticalOrigin is the start of the i-th ray of the fan facing dirY.
func (r *RaycastController) verticalOrigin(dirY float64, i int) cp.Vector {
	o := r.Origins.TopLeft
	if dirY < 0 {
		o = r.Origins.BottomLeft
	}
	o.X += r.VerticalRaySpacing * float64(i)
	return o
}

func (r *RaycastController) cast(origin, dir cp.Vector, length float64, mask Layer) (Hit, bool) {
	return r.World.Raycast(origin, dir, length, mask, r.Collider.ID)
}
