package planner

import (
	"math/rand"

	"genniabot/internal/game"
)

const (
	MaxPriority      = 999
	DefenseHorizon   = 10
	ThreatHorizon    = 25
	expandPriority   = 50
	expandSwitchOdds = 0.7
)

// Request describes one gathering search converging on Target.
type Request struct {
	Intent   Intent
	Priority int
	Target   game.Position
	Limit    int
}

type way struct {
	val     int
	path    []game.Position // reached cell first, root last
	reached bool
	sealed  bool
}

type frontier struct {
	pos  game.Position
	step int
}

// ShuffledDirections returns the four directions in an order drawn from rng.
// A nil rng keeps the fixed order.
func ShuffledDirections(rng *rand.Rand) [4]game.Position {
	dirs := game.Directions
	if rng != nil {
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	}
	return dirs
}

// search runs the weighted BFS from root and returns, per cell, the best net
// value found and the path achieving it. Cells are sealed when dequeued and
// the search stops at the first dequeued cell whose depth reaches limit.
func search(g *game.Grid, self game.Color, root game.Position, limit int, rng *rand.Rand) []way {
	h := g.Height()
	idx := func(p game.Position) int { return p.X*h + p.Y }

	table := make([]way, g.Size())
	rootTile := g.At(root)
	rootVal := -rootTile.Units()
	if rootTile.OwnedBy(self) {
		rootVal = rootTile.Units()
	}
	table[idx(root)] = way{val: rootVal, path: []game.Position{root}, reached: true}

	queue := []frontier{{pos: root}}
	for front := 0; front < len(queue); front++ {
		a := queue[front]
		cur := &table[idx(a.pos)]
		cur.sealed = true
		if a.step >= limit {
			break
		}
		for _, d := range ShuffledDirections(rng) {
			b := a.pos.Add(d)
			if !g.Passable(b, false) {
				continue
			}
			next := &table[idx(b)]
			if next.sealed {
				continue
			}
			tile := g.At(b)
			val := cur.val - 1
			if tile.OwnedBy(self) {
				val += tile.Units()
			} else {
				if tile.Type == game.City {
					continue
				}
				val -= tile.Units()
			}
			if next.reached && next.val >= val {
				continue
			}
			path := make([]game.Position, 0, len(cur.path)+1)
			path = append(path, b)
			path = append(path, cur.path...)
			*next = way{val: val, path: path, reached: true}
			queue = append(queue, frontier{pos: b, step: a.step + 1})
		}
	}
	return table
}

// BestRoute finds the path within limit steps that delivers the largest net
// army to root. It reports false when no path has a positive value.
func BestRoute(g *game.Grid, self game.Color, root game.Position, limit int, rng *rand.Rand) (Route, bool) {
	if !g.Initialized() || !g.InBounds(root) {
		return Route{}, false
	}
	best := way{}
	for _, w := range search(g, self, root, limit, rng) {
		if w.reached && w.val > best.val {
			best = w
		}
	}
	if best.val <= 0 {
		return Route{}, false
	}
	return Route{Value: best.val, Path: best.path}, true
}

// Gather plans a chain of moves that pulls our armies toward req.Target.
// An empty plan means nothing worth moving was found.
func Gather(g *game.Grid, self game.Color, req Request, rng *rand.Rand) Plan {
	route, ok := BestRoute(g, self, req.Target, req.Limit, rng)
	if !ok {
		return nil
	}
	return route.Plan(req.Intent, req.Priority)
}

// QuickExpand runs the same search outward from our king and heads for a
// profitable cell that has never been seen, picking among candidates at
// random so consecutive calls spread out.
func QuickExpand(g *game.Grid, self game.Color, king game.Position, rng *rand.Rand) Plan {
	if !g.Initialized() || !g.InBounds(king) {
		return nil
	}
	var chosen *way
	table := search(g, self, king, g.Size(), rng)
	for i := range table {
		w := &table[i]
		if !w.reached || w.val <= 0 || g.Visible(w.path[0]) {
			continue
		}
		if chosen == nil || rng == nil || rng.Float64() < expandSwitchOdds {
			chosen = w
		}
	}
	if chosen == nil {
		return nil
	}
	route := Route{Value: chosen.val, Path: chosen.path}
	return route.Reversed().Plan(ExpandLand, expandPriority)
}
