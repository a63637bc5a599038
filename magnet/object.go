package magnet

import (
	"io"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"
)

// SourceID identifies a field instance. Zero means "no field".
type SourceID int

// Polarity decides whether a field pushes or pulls a receiver.
type Polarity int

const (
	Positive Polarity = 1
	Negative Polarity = -1
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// ParsePolarity maps "negative" to Negative and anything else to Positive.
func ParsePolarity(s string) Polarity {
	if s == "negative" || s == "-" {
		return Negative
	}
	return Positive
}

// Object receives forces from the fields it overlaps.
type Object struct {
	Name          string
	Polarity      Polarity
	ForceReceived float64

	forces *orderedmap.OrderedMap[SourceID, cp.Vector]
	log    logrus.FieldLogger
}

// NewObject creates a receiver with full force reception. A nil logger discards warnings.
func NewObject(name string, polarity Polarity, log logrus.FieldLogger) *Object {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if polarity != Negative {
		polarity = Positive
	}
	return &Object{
		Name:          name,
		Polarity:      polarity,
		ForceReceived: 1,
		forces:        orderedmap.NewOrderedMap[SourceID, cp.Vector](),
		log:           log.WithField("magnet", name),
	}
}

// RegisterForce adds the contribution of a field. It refuses ids already present.
func (o *Object) RegisterForce(id SourceID, force cp.Vector) bool {
	if o == nil {
		return false
	}
	if _, ok := o.forces.Get(id); ok {
		o.log.Warnf("register force: source %d already registered", id)
		return false
	}
	o.forces.Set(id, force)
	return true
}

// UpdateForce replaces a registered contribution. Absent ids are ignored.
func (o *Object) UpdateForce(id SourceID, force cp.Vector) bool {
	if o == nil {
		return false
	}
	if _, ok := o.forces.Get(id); !ok {
		return false
	}
	o.forces.Set(id, force)
	return true
}

// UnregisterForce removes a contribution.
func (o *Object) UnregisterForce(id SourceID) bool {
	if o == nil {
		return false
	}
	if !o.forces.Delete(id) {
		o.log.Warnf("unregister force: source %d not registered", id)
		return false
	}
	return true
}

func (o *Object) HasForce(id SourceID) bool {
	if o == nil {
		return false
	}
	_, ok := o.forces.Get(id)
	return ok
}

func (o *Object) ForceFrom(id SourceID) (cp.Vector, bool) {
	if o == nil {
		return cp.Vector{}, false
	}
	return o.forces.Get(id)
}

// Len returns the number of registered sources.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.forces.Len()
}

// Sources lists registered ids in registration order.
func (o *Object) Sources() []SourceID {
	if o == nil {
		return nil
	}
	return o.forces.Keys()
}

// Force sums every registered contribution, scaled by ForceReceived.
func (o *Object) Force() cp.Vector {
	if o == nil {
		return cp.Vector{}
	}
	var sum cp.Vector
	for el := o.forces.Front(); el != nil; el = el.Next() {
		sum = sum.Add(el.Value)
	}
	return sum.Mult(o.ForceReceived)
}
