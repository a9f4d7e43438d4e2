package game

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyInitialized = errors.New("grid already initialized")
	ErrNotInitialized     = errors.New("grid not initialized")
	ErrOutOfBounds        = errors.New("position out of bounds")
)

// Directions are the four orthogonal moves a unit can make.
var Directions = [4]Position{
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
}

// Neighborhood adds the diagonals to Directions.
var Neighborhood = [8]Position{
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
}

// Grid is the observed board plus the cells that have ever been revealed.
// Cells are stored row-major: cell (x, y) lives at x*height+y.
type Grid struct {
	width   int
	height  int
	tiles   []Tile
	visible []bool
}

// Init sizes the grid for a game. All cells start as Fog and unseen.
func (g *Grid) Init(width, height int) error {
	if g.tiles != nil {
		return ErrAlreadyInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	g.width = width
	g.height = height
	g.tiles = make([]Tile, width*height)
	for i := range g.tiles {
		g.tiles[i] = FogTile
	}
	g.visible = make([]bool, width*height)
	return nil
}

// NewGrid returns an initialized grid.
func NewGrid(width, height int) (*Grid, error) {
	g := &Grid{}
	if err := g.Init(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Size() int   { return g.width * g.height }

// Initialized reports whether Init has run.
func (g *Grid) Initialized() bool { return g.tiles != nil }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

func (g *Grid) index(p Position) int {
	return p.X*g.height + p.Y
}

func (g *Grid) position(i int) Position {
	return Position{X: i / g.height, Y: i % g.height}
}

// TileAt returns the tile at p.
func (g *Grid) TileAt(p Position) (Tile, error) {
	if !g.InBounds(p) {
		return Tile{}, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	return g.tiles[g.index(p)], nil
}

// At is TileAt for callers that already checked bounds.
func (g *Grid) At(p Position) Tile {
	return g.tiles[g.index(p)]
}

// Set overwrites a single cell and marks it visible when revealed.
// Intended for building boards by hand; live updates go through Apply.
func (g *Grid) Set(p Position, t Tile) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	i := g.index(p)
	g.tiles[i] = t
	if !IsUnrevealed(t) {
		g.visible[i] = true
	}
	return nil
}

// Visible reports whether p has ever been revealed. Out-of-range cells are
// never visible.
func (g *Grid) Visible(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.visible[g.index(p)]
}

// Passable reports whether p is on the board and not unmovable.
func (g *Grid) Passable(p Position, ignoreCity bool) bool {
	return g.InBounds(p) && !IsUnmovable(g.At(p), ignoreCity)
}

// Each calls fn for every cell in storage order.
func (g *Grid) Each(fn func(p Position, t Tile)) {
	for i, t := range g.tiles {
		fn(g.position(i), t)
	}
}

// Tiles returns a copy of the flattened board.
func (g *Grid) Tiles() []Tile {
	out := make([]Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height}
	c.tiles = make([]Tile, len(g.tiles))
	copy(c.tiles, g.tiles)
	c.visible = make([]bool, len(g.visible))
	copy(c.visible, g.visible)
	return c
}
