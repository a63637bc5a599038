package physics

import "sort"

// OverlapEvents lists, per trigger, which colliders started, kept or stopped
// touching it since the previous Update.
type OverlapEvents struct {
	Enter []ColliderID
	Stay  []ColliderID
	Exit  []ColliderID
}

// OverlapTracker turns per tick overlap sets into enter, stay and exit events.
type OverlapTracker struct {
	prev map[ColliderID]map[ColliderID]struct{}
}

func NewOverlapTracker() *OverlapTracker {
	return &OverlapTracker{prev: make(map[ColliderID]map[ColliderID]struct{})}
}

// Update records the colliders currently touching trigger and returns the
// difference with the previous call. All lists are sorted by id.
func (t *OverlapTracker) Update(trigger ColliderID, current []*Collider) OverlapEvents {
	var ev OverlapEvents
	before := t.prev[trigger]
	now := make(map[ColliderID]struct{}, len(current))

	for _, c := range current {
		if c == nil {
			continue
		}
		if _, dup := now[c.ID]; dup {
			continue
		}
		now[c.ID] = struct{}{}
		if _, ok := before[c.ID]; ok {
			ev.Stay = append(ev.Stay, c.ID)
		} else {
			ev.Enter = append(ev.Enter, c.ID)
		}
	}
	for id := range before {
		if _, ok := now[id]; !ok {
			ev.Exit = append(ev.Exit, id)
		}
	}

	sortIDs(ev.Enter)
	sortIDs(ev.Stay)
	sortIDs(ev.Exit)
	t.prev[trigger] = now
	return ev
}

// Touching reports whether other was overlapping trigger at the last Update.
func (t *OverlapTracker) Touching(trigger, other ColliderID) bool {
	_, ok := t.prev[trigger][other]
	return ok
}

// Forget drops the state of a removed trigger.
func (t *OverlapTracker) Forget(trigger ColliderID) {
	delete(t.prev, trigger)
}

func sortIDs(ids []ColliderID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
