package planner

import (
	"math/rand"

	"genniabot/internal/game"
)

// Threat is the most dangerous hostile cell found around our king.
type Threat struct {
	Pos   game.Position
	Color game.Color
	Army  int
	Score int
}

// KingInDanger checks the eight cells around king for hostile tiles. When
// one is found it returns a maximum-priority defense: first a strike at the
// intruder, then a gathering converging on the king. The plan may be empty
// if no productive move exists yet.
func KingInDanger(g *game.Grid, self game.Color, king game.Position, rng *rand.Rand) (Plan, bool) {
	if !g.Initialized() || !g.InBounds(king) {
		return nil, false
	}
	for _, d := range game.Neighborhood {
		p := king.Add(d)
		if !g.InBounds(p) || !g.At(p).Hostile(self) {
			continue
		}
		var plan Plan
		for _, target := range []game.Position{p, king} {
			plan = append(plan, Gather(g, self, Request{
				Intent:   Defend,
				Priority: MaxPriority,
				Target:   target,
				Limit:    DefenseHorizon,
			}, rng)...)
		}
		return plan, true
	}
	return nil, false
}

// DetectThreat walks every revealed, passable cell reachable from king and
// scores each hostile one by army minus distance to the king.
func DetectThreat(g *game.Grid, self game.Color, king game.Position, rng *rand.Rand) (Threat, bool) {
	if !g.Initialized() || !g.InBounds(king) {
		return Threat{}, false
	}
	h := g.Height()
	booked := make([]bool, g.Size())
	booked[king.X*h+king.Y] = true

	var best Threat
	found := false
	queue := []game.Position{king}
	for front := 0; front < len(queue); front++ {
		a := queue[front]
		for _, d := range ShuffledDirections(rng) {
			b := a.Add(d)
			if !g.InBounds(b) || booked[b.X*h+b.Y] {
				continue
			}
			tile := g.At(b)
			if game.IsUnrevealed(tile) || game.IsUnmovable(tile, false) {
				continue
			}
			booked[b.X*h+b.Y] = true
			queue = append(queue, b)
			if !tile.Hostile(self) {
				continue
			}
			score := tile.Units() - game.Dist(king, b)
			if !found || score > best.Score {
				best = Threat{Pos: b, Color: tile.Owner, Army: tile.Units(), Score: score}
				found = true
			}
		}
	}
	return best, found
}

// DefendAgainst gathers toward a detected threat.
func DefendAgainst(g *game.Grid, self game.Color, t Threat, rng *rand.Rand) Plan {
	return Gather(g, self, Request{
		Intent:   Defend,
		Priority: t.Score,
		Target:   t.Pos,
		Limit:    ThreatHorizon,
	}, rng)
}
