package engine

import (
	"log"

	"genniabot/internal/game"
	"genniabot/internal/planner"
)

const (
	// ExpandPeriod is the turn cycle of the land game. Every ExpandPeriod-th
	// turn opens a quick expansion; after the first cycle plain tiles are
	// taken one at a time.
	ExpandPeriod = 17

	kingPriority       = 100
	chasedKingPriority = 200
	expandLandPriority = 10
	expandLandFallback = 10
	expandCityPriority = 1
	expandCityHorizon  = 34
)

// Tick runs one round of the tactical state machine over the current grid.
// It returns the command to send, if any.
func (s *Session) Tick() (Command, bool) {
	if !s.Grid.Initialized() {
		return Command{}, false
	}
	king, ok := s.Kings.Own()
	if !ok {
		return Command{}, false
	}

	if step, ok := s.nextStep(); ok {
		return s.command(step), true
	}

	if enemies := s.Kings.Enemies(); len(enemies) > 0 {
		if !s.huntKings(enemies) {
			s.expand(king)
		}
		return Command{}, false
	}

	if plan, danger := planner.KingInDanger(&s.Grid, s.Color, king, s.rng); danger {
		if !s.kingThreatened {
			log.Printf("[Engine] session %s: king at %v under threat", s.ID, king)
		}
		s.kingThreatened = true
		s.Queue.Push(plan...)
		return Command{}, false
	}
	s.kingThreatened = false

	if s.chase() {
		return Command{}, false
	}
	if s.answerThreat(king) {
		return Command{}, false
	}
	s.expand(king)
	return Command{}, false
}

// nextStep drops stale steps from the front of the queue and pops the first
// one still worth executing.
func (s *Session) nextStep() (planner.Step, bool) {
	for {
		step, ok := s.Queue.PopFront()
		if !ok {
			return planner.Step{}, false
		}
		if !s.owns(step.From) {
			if step.Intent == planner.Attack {
				s.stopChase()
			}
			continue
		}
		if step.Intent.GoalDriven() && s.owns(step.Target) {
			continue
		}
		return step, true
	}
}

// gather queues a converging plan and reports whether one was found.
func (s *Session) gather(intent planner.Intent, priority int, target game.Position, limit int) bool {
	plan := planner.Gather(&s.Grid, s.Color, planner.Request{
		Intent:   intent,
		Priority: priority,
		Target:   target,
		Limit:    limit,
	}, s.rng)
	s.Queue.Push(plan...)
	return len(plan) > 0
}

// huntKings replaces the queue with attacks on every known enemy king.
// The king of the player we are chasing gets a closer, higher-priority run.
func (s *Session) huntKings(enemies []game.EnemyKing) bool {
	span := s.Grid.Width() + s.Grid.Height()
	s.Queue.Clear()

	booked := false
	for _, k := range enemies {
		if s.pursuit != nil && s.pursuit.Color == k.Color {
			if s.gather(planner.AttackKing, chasedKingPriority, k.Pos, span) {
				booked = true
			}
		}
		if s.gather(planner.AttackKing, kingPriority, k.Pos, 2*span) {
			booked = true
		}
	}
	if booked {
		log.Printf("[Engine] session %s: attacking %d known king(s)", s.ID, len(enemies))
	}
	return booked
}

// chase keeps pushing the pursued unit one cell further into the territory
// of its owner. Revealed non-city cells are preferred.
func (s *Session) chase() bool {
	if s.pursuit == nil {
		return false
	}
	from := s.pursuit.Pos
	if !s.owns(from) {
		s.stopChase()
		return false
	}

	for _, revealedOnly := range []bool{true, false} {
		for _, d := range planner.ShuffledDirections(s.rng) {
			to := from.Add(d)
			if !s.Grid.InBounds(to) {
				continue
			}
			tile := s.Grid.At(to)
			if revealedOnly {
				if game.IsUnmovable(tile, true) || !s.Grid.Visible(to) {
					continue
				}
			} else if game.IsUnmovable(tile, false) {
				continue
			}
			if !tile.OwnedBy(s.pursuit.Color) {
				continue
			}
			s.Queue.Push(planner.Step{
				From:     from,
				To:       to,
				Intent:   planner.Attack,
				Priority: planner.MaxPriority,
				Target:   to,
			})
			s.pursuit.Pos = to
			return true
		}
	}
	s.stopChase()
	return false
}

// answerThreat defends against the strongest visible hostile unit unless the
// retreat rule prefers to expand elsewhere. A defended unit is chased next.
func (s *Session) answerThreat(king game.Position) bool {
	threat, ok := planner.DetectThreat(&s.Grid, s.Color, king, s.rng)
	if !ok {
		return false
	}
	if s.policy.Retreat(s.policyEnv(threat.Color)) {
		log.Printf("[Engine] session %s: ignoring color %d at %v, expanding instead", s.ID, threat.Color, threat.Pos)
		s.expand(king)
		return true
	}
	s.Queue.Push(planner.DefendAgainst(&s.Grid, s.Color, threat, s.rng)...)
	s.Chase(threat.Color, threat.Pos)
	return true
}

// expand runs the land game for the current turn and falls back to taking
// the cheapest city.
func (s *Session) expand(king game.Position) bool {
	next := s.turn + 1
	booked := false
	switch {
	case next%ExpandPeriod == 0:
		plan := planner.QuickExpand(&s.Grid, s.Color, king, s.rng)
		s.Queue.Push(plan...)
		booked = len(plan) > 0
	case next > ExpandPeriod:
		booked = s.expandLand()
	}
	if !booked {
		booked = s.conquerCity(king)
	}
	return booked
}

// expandLand tries plain tiles we do not own in random order and books a
// one-step capture of the first reachable one. If none is adjacent it
// gathers toward the first candidate from further away.
func (s *Session) expandLand() bool {
	var targets []game.Position
	s.Grid.Each(func(p game.Position, t game.Tile) {
		if t.Type == game.Plain && !t.OwnedBy(s.Color) {
			targets = append(targets, p)
		}
	})
	if len(targets) == 0 {
		return false
	}
	s.rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	for _, p := range targets {
		if s.gather(planner.ExpandLand, expandLandPriority, p, 1) {
			return true
		}
	}
	return s.gather(planner.ExpandLand, expandLandPriority, targets[0], expandLandFallback)
}

// conquerCity gathers toward the city we do not own that is cheapest to
// take, counting its garrison plus its distance from our king.
func (s *Session) conquerCity(king game.Position) bool {
	var best game.Position
	cost := -1
	s.Grid.Each(func(p game.Position, t game.Tile) {
		if t.Type != game.City || t.OwnedBy(s.Color) {
			return
		}
		if c := t.Units() + game.Dist(p, king); cost < 0 || c < cost {
			best, cost = p, c
		}
	})
	if cost < 0 {
		return false
	}
	return s.gather(planner.ExpandCity, expandCityPriority, best, expandCityHorizon)
}
