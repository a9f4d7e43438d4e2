package game

import "fmt"

// TileType values match the codes the server puts in the first slot of a tile.
type TileType int

const (
	King TileType = iota
	City
	Fog
	Obstacle // fogged city or mountain
	Plain
	Mountain
	Swamp
)

func (t TileType) String() string {
	switch t {
	case King:
		return "KING"
	case City:
		return "CITY"
	case Fog:
		return "FOG"
	case Obstacle:
		return "OBSTACLE"
	case Plain:
		return "PLAIN"
	case Mountain:
		return "MOUNTAIN"
	case Swamp:
		return "SWAMP"
	default:
		return "UNKNOWN"
	}
}

// Color identifies a player on the board.
type Color int

// Position is a board coordinate with X in [0, width) and Y in [0, height).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add offsets p by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Dist returns the Manhattan distance between a and b.
func Dist(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Tile is one observed cell. Owner and Army are only meaningful when the
// matching Has flag is set.
type Tile struct {
	Type     TileType
	Owner    Color
	HasOwner bool
	Army     int
	HasArmy  bool
}

// FogTile is the state of every cell before anything is observed.
var FogTile = Tile{Type: Fog}

// NewTile builds an owned tile with a known army.
func NewTile(t TileType, owner Color, army int) Tile {
	return Tile{Type: t, Owner: owner, HasOwner: true, Army: army, HasArmy: true}
}

// NeutralTile builds an unowned tile with a known army.
func NeutralTile(t TileType, army int) Tile {
	return Tile{Type: t, Army: army, HasArmy: true}
}

// OwnedBy reports whether the tile is known to belong to c.
func (t Tile) OwnedBy(c Color) bool {
	return t.HasOwner && t.Owner == c
}

// Hostile reports whether the tile is known to belong to someone other than c.
func (t Tile) Hostile(c Color) bool {
	return t.HasOwner && t.Owner != c
}

// Units returns the army count, or 0 if it has not been observed.
func (t Tile) Units() int {
	if !t.HasArmy {
		return 0
	}
	return t.Army
}

// IsUnrevealed is true for tiles whose contents are unknown.
func IsUnrevealed(t Tile) bool {
	return t.Type == Fog || t.Type == Obstacle
}

// IsUnmovable reports whether pathing may not enter t. Cities only block
// when ignoreCity is set.
func IsUnmovable(t Tile, ignoreCity bool) bool {
	return t.Type == Mountain || t.Type == Obstacle || (ignoreCity && t.Type == City)
}
