package ecs

import "strconv"

// Entity is a generational handle: the slot id in the low half and the
// number of times that slot was recycled in the high half. Slot ids start
// at 1 so the zero Entity never refers to anything.
type Entity uint64

type (
	entityID   uint32
	generation uint32
)

func makeEntity(id entityID, gen generation) Entity {
	return Entity(gen)<<32 | Entity(id)
}

func (e Entity) id() entityID { return entityID(e) }
func (e Entity) generation() generation { return generation(e >> 32) }

// String renders e as id/generation, e.g. "3/1", for log fields.
func (e Entity) String() string {
	b := strconv.AppendUint(nil, uint64(e.id()), 10)
	b = append(b, '/')
	return string(strconv.AppendUint(b, uint64(e.generation()), 10))
}

// entityStore hands out slots, reusing freed ones with a bumped generation so
// handles to a destroyed entity stay dead.
type entityStore struct {
	slots []slot
	free  []entityID
	live  int
}

type slot struct {
	gen   generation
	alive bool
}

func (s *entityStore) slot(e Entity) *slot {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.slots) {
		return nil
	}
	return &s.slots[e.id()-1]
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id, s.free = s.free[n-1], s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		id = entityID(len(s.slots))
	}
	sl := &s.slots[id-1]
	sl.alive = true
	s.live++
	return makeEntity(id, sl.gen)
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	sl := s.slot(e)
	sl.alive = false
	sl.gen++
	s.free = append(s.free, e.id())
	s.live--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	sl := s.slot(e)
	return sl != nil && sl.alive && sl.gen == e.generation()
}

// list returns the live entities in slot order.
func (s *entityStore) list() []Entity {
	if s == nil || s.live == 0 {
		return nil
	}
	out := make([]Entity, 0, s.live)
	for i, sl := range s.slots {
		if sl.alive {
			out = append(out, makeEntity(entityID(i+1), sl.gen))
		}
	}
	return out
}
