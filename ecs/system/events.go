package system

import "github.com/milk9111/magnetpair/ecs"

const (
	EventDoorOpened     ecs.EventKind = "door_opened"
	EventDoorClosed     ecs.EventKind = "door_closed"
	EventLevelCompleted ecs.EventKind = "level_completed"
)
