package magnet

import (
	"math"

	"github.com/jakecoffman/cp"
)

// minDistanceSq guards the force law when no floor is configured.
const minDistanceSq = 1e-8

// Field is a force source. A positive strength repels positive receivers.
type Field struct {
	ID        SourceID
	StrengthX float64
	StrengthY float64
	// HalfDiagonal of the owning body, used for the close-range floor.
	HalfDiagonal float64
	// YFloorScale makes the vertical floor stricter than the horizontal one.
	YFloorScale float64
}

func NewField(id SourceID, strengthX, strengthY, halfDiagonal float64) *Field {
	return &Field{
		ID:           id,
		StrengthX:    strengthX,
		StrengthY:    strengthY,
		HalfDiagonal: halfDiagonal,
		YFloorScale:  1.5,
	}
}

// ComputeForce returns the force the field centered at from applies to the receiver at to.
func (f *Field) ComputeForce(from, to cp.Vector, receiver *Object, receiverHalfDiagonal float64) cp.Vector {
	if f == nil || receiver == nil {
		return cp.Vector{}
	}
	d := to.Sub(from)
	sq := d.LengthSq()
	if sq < minDistanceSq {
		return cp.Vector{}
	}
	n := d.Mult(1 / math.Sqrt(sq))

	sqX, sqY := sq, sq
	if floor := f.HalfDiagonal + receiverHalfDiagonal; floor > 0 {
		yScale := f.YFloorScale
		if yScale < 1 {
			yScale = 1
		}
		sqX = math.Max(sq, floor*floor)
		sqY = math.Max(sq, floor*floor*yScale*yScale)
	}

	pol := float64(receiver.Polarity)
	return cp.Vector{
		X: n.X * f.StrengthX / sqX * pol,
		Y: n.Y * f.StrengthY / sqY * pol,
	}
}
