package component

import "strings"

// Color tells which character a character, button or goal pad belongs to.
type Color int

const (
	Red Color = iota
	Blue
)

func (c Color) String() string {
	if c == Blue {
		return "blue"
	}
	return "red"
}

// ParseColor maps "blue" to Blue and anything else to Red.
func ParseColor(s string) Color {
	if strings.EqualFold(s, "blue") {
		return Blue
	}
	return Red
}
