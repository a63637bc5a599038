package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingSpawn is returned for a level without both character spawns.
	ErrMissingSpawn = errors.New("levels: missing spawn")
	// ErrUnknownDoor is returned when a button names a door the level does not have.
	ErrUnknownDoor = errors.New("levels: unknown door")
)

// TileKind is the static geometry a grid cell holds.
type TileKind byte

const (
	TileEmpty TileKind = iota
	TileSolid
	TilePassable
	TileSlidingWall
)

// Spawn colors.
const (
	Red  = "red"
	Blue = "blue"
)

const defaultTileSize = 1.0

// Level is a tile grid plus the objects placed on it. Row 0 of Tiles is the
// top of the level; world space is Y up with the bottom left corner at 0,0.
type Level struct {
	Name     string  `yaml:"name"`
	TileSize float64 `yaml:"tile_size"`
	Tiles    string  `yaml:"tiles"`
	// Bounds closes the level with walls on the left, right and bottom.
	Bounds bool `yaml:"bounds"`

	Crates    []CrateSpec    `yaml:"crates"`
	Magnets   []MagnetSpec   `yaml:"magnets"`
	Platforms []PlatformSpec `yaml:"platforms"`
	Buttons   []ButtonSpec   `yaml:"buttons"`
	Doors     []DoorSpec     `yaml:"doors"`
	Polygons  []PolygonSpec  `yaml:"polygons"`
	Goals     []GoalSpec     `yaml:"goals"`
	Heart     HeartSpec      `yaml:"heart"`

	width, height int
	grid          [][]TileKind
	spawns        map[string]cp.Vector
}

// FieldSpec describes a magnetic field range around an object.
type FieldSpec struct {
	StrengthX float64 `yaml:"strength_x"`
	StrengthY float64 `yaml:"strength_y"`
	Radius    float64 `yaml:"radius"`
}

type CrateSpec struct {
	Name     string     `yaml:"name"`
	Position cp.Vector  `yaml:"position"`
	Size     cp.Vector  `yaml:"size"`
	Polarity string     `yaml:"polarity"`
	Field    *FieldSpec `yaml:"field"`
}

// MagnetSpec is a static block carrying a field.
type MagnetSpec struct {
	Name     string    `yaml:"name"`
	Position cp.Vector `yaml:"position"`
	Size     cp.Vector `yaml:"size"`
	Field    FieldSpec `yaml:"field"`
}

type PlatformSpec struct {
	Name      string      `yaml:"name"`
	Size      cp.Vector   `yaml:"size"`
	Waypoints []cp.Vector `yaml:"waypoints"`
	Cyclic    bool        `yaml:"cyclic"`
	Speed     float64     `yaml:"speed"`
	Wait      float64     `yaml:"wait"`
	Ease      string      `yaml:"ease"`
	Tags      []string    `yaml:"tags"`
}

type ButtonSpec struct {
	Color    string    `yaml:"color"`
	Position cp.Vector `yaml:"position"`
	Size     cp.Vector `yaml:"size"`
	Door     string    `yaml:"door"`
	// Continuous buttons close their door again once released.
	Continuous bool `yaml:"continuous"`
}

type DoorSpec struct {
	Name     string    `yaml:"name"`
	Position cp.Vector `yaml:"position"`
	Size     cp.Vector `yaml:"size"`
}

type PolygonSpec struct {
	Name   string      `yaml:"name"`
	Points []cp.Vector `yaml:"points"`
	Tags   []string    `yaml:"tags"`
}

type GoalSpec struct {
	Color    string    `yaml:"color"`
	Position cp.Vector `yaml:"position"`
	Size     cp.Vector `yaml:"size"`
}

// HeartSpec tunes how fast the level goal fills and drains, per second.
type HeartSpec struct {
	Max       float64 `yaml:"max"`
	Increment float64 `yaml:"increment"`
	Decrement float64 `yaml:"decrement"`
}

// Block is a rectangle of merged tiles of the same kind.
type Block struct {
	Kind TileKind
	BB   cp.BB
}

// Parse decodes and validates a level.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.init(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) init() error {
	if l.TileSize <= 0 {
		l.TileSize = defaultTileSize
	}
	if l.Heart.Max <= 0 {
		l.Heart.Max = 3
	}
	if l.Heart.Increment <= 0 {
		l.Heart.Increment = 1
	}
	if l.Heart.Decrement <= 0 {
		l.Heart.Decrement = 2
	}
	l.parseTiles()
	return l.Validate()
}

func (l *Level) parseTiles() {
	l.spawns = make(map[string]cp.Vector)
	l.grid = nil
	l.width = 0

	var rows []string
	for _, line := range strings.Split(l.Tiles, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
		l.width = max(l.width, len(line))
	}
	l.height = len(rows)

	for row, line := range rows {
		cells := make([]TileKind, l.width)
		for col := 0; col < len(line); col++ {
			switch line[col] {
			case '#':
				cells[col] = TileSolid
			case '=':
				cells[col] = TilePassable
			case '|':
				cells[col] = TileSlidingWall
			case 'R':
				l.spawns[Red] = l.cellCenter(col, row)
			case 'B':
				l.spawns[Blue] = l.cellCenter(col, row)
			}
		}
		l.grid = append(l.grid, cells)
	}
}

// Validate checks the references a level needs to be built.
func (l *Level) Validate() error {
	if l.spawns == nil {
		if l.TileSize <= 0 {
			l.TileSize = defaultTileSize
		}
		l.parseTiles()
	}
	for _, c := range []string{Red, Blue} {
		if _, ok := l.spawns[c]; !ok {
			return fmt.Errorf("levels: validate %q: %s: %w", l.Name, c, ErrMissingSpawn)
		}
	}
	doors := make(map[string]struct{}, len(l.Doors))
	for _, d := range l.Doors {
		doors[d.Name] = struct{}{}
	}
	for _, b := range l.Buttons {
		if _, ok := doors[b.Door]; !ok {
			return fmt.Errorf("levels: validate %q: button door %q: %w", l.Name, b.Door, ErrUnknownDoor)
		}
	}
	return nil
}

func (l *Level) cellCenter(col, row int) cp.Vector {
	ts := l.TileSize
	return cp.Vector{
		X: (float64(col) + 0.5) * ts,
		Y: (float64(l.height-1-row) + 0.5) * ts,
	}
}

// Spawn returns the center of the spawn tile of a character color.
func (l *Level) Spawn(color string) (cp.Vector, bool) {
	p, ok := l.spawns[color]
	return p, ok
}

// Size is the level extent in world units.
func (l *Level) Size() cp.Vector {
	return cp.Vector{X: float64(l.width) * l.TileSize, Y: float64(l.height) * l.TileSize}
}

func (l *Level) Tile(col, row int) TileKind {
	if row < 0 || row >= l.height || col < 0 || col >= l.width {
		return TileEmpty
	}
	return l.grid[row][col]
}

// Blocks merges contiguous tiles of the same kind into rectangles, growing
// each one along the row first and then downward.
func (l *Level) Blocks() []Block {
	if l.width == 0 || l.height == 0 {
		return nil
	}
	processed := make([]bool, l.width*l.height)
	var out []Block

	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			idx := y*l.width + x
			if processed[idx] {
				continue
			}
			kind := l.grid[y][x]
			if kind == TileEmpty {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < l.width {
				if processed[y*l.width+x+w] || l.grid[y][x+w] != kind {
					break
				}
				w++
			}

			h := 1
		heightLoop:
			for y+h < l.height {
				for xi := x; xi < x+w; xi++ {
					if processed[(y+h)*l.width+xi] || l.grid[y+h][xi] != kind {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*l.width+xx] = true
				}
			}

			ts := l.TileSize
			out = append(out, Block{
				Kind: kind,
				BB: cp.BB{
					L: float64(x) * ts,
					R: float64(x+w) * ts,
					T: float64(l.height-y) * ts,
					B: float64(l.height-y-h) * ts,
				},
			})
		}
	}
	return out
}

// BoundsWalls returns the boxes closing the level on the left, right and
// bottom, one tile thick and outside the grid.
func (l *Level) BoundsWalls() []cp.BB {
	if !l.Bounds {
		return nil
	}
	size := l.Size()
	ts := l.TileSize
	return []cp.BB{
		{L: -ts, B: -ts, R: 0, T: size.Y},
		{L: size.X, B: -ts, R: size.X + ts, T: size.Y},
		{L: -ts, B: -ts, R: size.X + ts, T: 0},
	}
}
