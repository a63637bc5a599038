package component

import "github.com/milk9111/magnetpair/movement"

// Character is one of the two playable characters.
type Character struct {
	Color    Color
	Movement *movement.PlayerMovement
}

var CharacterComponent = NewComponent[Character]()

// Pair drives both characters while they are linked.
type Pair struct {
	Override *movement.Override
}

var PairComponent = NewComponent[Pair]()
