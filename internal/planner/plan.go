package planner

import (
	"fmt"

	"genniabot/internal/game"
)

// Intent tags every queued step with the purpose of the chain it belongs to.
type Intent int

const (
	Defend Intent = iota
	AttackKing
	ExpandLand
	ExpandCity
	Attack
)

func (i Intent) String() string {
	switch i {
	case Defend:
		return "DEFEND"
	case AttackKing:
		return "ATTACK_KING"
	case ExpandLand:
		return "EXPAND_LAND"
	case ExpandCity:
		return "EXPAND_CITY"
	case Attack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}

// GoalDriven reports whether steps with this intent become stale once their
// final target is ours.
func (i Intent) GoalDriven() bool {
	switch i {
	case Defend, AttackKing, ExpandLand, ExpandCity:
		return true
	}
	return false
}

// Step is one move of a planned chain. Target is the last cell of the chain.
type Step struct {
	From     game.Position `json:"from"`
	To       game.Position `json:"to"`
	Intent   Intent        `json:"intent"`
	Priority int           `json:"priority"`
	Target   game.Position `json:"target"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s %v->%v (target %v, priority %d)", s.Intent, s.From, s.To, s.Target, s.Priority)
}

// Plan is an ordered chain of steps.
type Plan []Step

// Route is a path and the net army value it delivers to its last cell.
type Route struct {
	Value int
	Path  []game.Position
}

// Plan turns the route into consecutive steps. Routes of a single cell
// produce no steps.
func (r Route) Plan(intent Intent, priority int) Plan {
	if len(r.Path) < 2 {
		return nil
	}
	target := r.Path[len(r.Path)-1]
	plan := make(Plan, 0, len(r.Path)-1)
	for i := 0; i+1 < len(r.Path); i++ {
		plan = append(plan, Step{
			From:     r.Path[i],
			To:       r.Path[i+1],
			Intent:   intent,
			Priority: priority,
			Target:   target,
		})
	}
	return plan
}

// Reversed returns the route walked from the other end.
func (r Route) Reversed() Route {
	path := make([]game.Position, len(r.Path))
	for i, p := range r.Path {
		path[len(r.Path)-1-i] = p
	}
	return Route{Value: r.Value, Path: path}
}
