package planner

import (
	"math/rand"
	"testing"

	"genniabot/internal/game"
)

const me game.Color = 0

func newGrid(t *testing.T, w, h int) *game.Grid {
	t.Helper()
	g, err := game.NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", w, h, err)
	}
	return g
}

func set(t *testing.T, g *game.Grid, x, y int, tile game.Tile) {
	t.Helper()
	if err := g.Set(game.Position{X: x, Y: y}, tile); err != nil {
		t.Fatalf("Set(%d, %d): %v", x, y, err)
	}
}

func pos(x, y int) game.Position { return game.Position{X: x, Y: y} }

// corridor: own armies 5,3,1,1 leading into a neutral plain holding 2.
func corridor(t *testing.T) *game.Grid {
	g := newGrid(t, 5, 1)
	set(t, g, 0, 0, game.NewTile(game.Plain, me, 5))
	set(t, g, 1, 0, game.NewTile(game.Plain, me, 3))
	set(t, g, 2, 0, game.NewTile(game.Plain, me, 1))
	set(t, g, 3, 0, game.NewTile(game.Plain, me, 1))
	set(t, g, 4, 0, game.NeutralTile(game.Plain, 2))
	return g
}

func TestBestRouteCorridor(t *testing.T) {
	g := corridor(t)
	route, ok := BestRoute(g, me, pos(4, 0), 4, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("BestRoute found nothing")
	}
	// 5+3+1+1 gathered, 4 moves, 2 lost taking the target
	if route.Value != 4 {
		t.Errorf("Value = %d, want 4", route.Value)
	}
	want := []game.Position{pos(0, 0), pos(1, 0), pos(2, 0), pos(3, 0), pos(4, 0)}
	if len(route.Path) != len(want) {
		t.Fatalf("Path = %v, want %v", route.Path, want)
	}
	for i := range want {
		if route.Path[i] != want[i] {
			t.Errorf("Path[%d] = %v, want %v", i, route.Path[i], want[i])
		}
	}
}

func TestBestRouteValueTracksArmyDelta(t *testing.T) {
	g := corridor(t)
	before, ok := BestRoute(g, me, pos(4, 0), 4, nil)
	if !ok {
		t.Fatal("no route before change")
	}
	set(t, g, 1, 0, game.NewTile(game.Plain, me, 6))
	after, ok := BestRoute(g, me, pos(4, 0), 4, nil)
	if !ok {
		t.Fatal("no route after change")
	}
	if after.Value-before.Value != 3 {
		t.Errorf("value delta = %d, want 3", after.Value-before.Value)
	}
}

func TestBestRouteRespectsHorizon(t *testing.T) {
	g := corridor(t)
	if route, ok := BestRoute(g, me, pos(4, 0), 2, nil); ok {
		t.Errorf("BestRoute within 2 steps = %+v, want none", route)
	}
}

func TestBestRoutePicksRicherBranch(t *testing.T) {
	//   x=0  x=1  x=2
	// y=0 2    9    [1 neutral target]
	// y=1 2    1    1
	g := newGrid(t, 3, 2)
	set(t, g, 0, 0, game.NewTile(game.Plain, me, 2))
	set(t, g, 1, 0, game.NewTile(game.Plain, me, 9))
	set(t, g, 2, 0, game.NeutralTile(game.Plain, 1))
	set(t, g, 0, 1, game.NewTile(game.Plain, me, 2))
	set(t, g, 1, 1, game.NewTile(game.Plain, me, 1))
	set(t, g, 2, 1, game.NewTile(game.Plain, me, 1))

	want := []game.Position{pos(0, 1), pos(0, 0), pos(1, 0), pos(2, 0)}
	for seed := int64(0); seed < 10; seed++ {
		route, ok := BestRoute(g, me, pos(2, 0), 5, rand.New(rand.NewSource(seed)))
		if !ok {
			t.Fatalf("seed %d: no route", seed)
		}
		if route.Value != 9 {
			t.Errorf("seed %d: Value = %d, want 9", seed, route.Value)
		}
		for i := range want {
			if i >= len(route.Path) || route.Path[i] != want[i] {
				t.Errorf("seed %d: Path = %v, want %v", seed, route.Path, want)
				break
			}
		}
	}
}

func TestGatherEmitsChain(t *testing.T) {
	g := corridor(t)
	plan := Gather(g, me, Request{Intent: AttackKing, Priority: 100, Target: pos(4, 0), Limit: 10}, nil)
	if len(plan) != 4 {
		t.Fatalf("len(plan) = %d, want 4: %v", len(plan), plan)
	}
	for i, step := range plan {
		if step.From != pos(i, 0) || step.To != pos(i+1, 0) {
			t.Errorf("step %d = %v", i, step)
		}
		if step.Intent != AttackKing || step.Priority != 100 || step.Target != pos(4, 0) {
			t.Errorf("step %d tagged %v", i, step)
		}
	}
}

func TestGatherBlockedByForeignCity(t *testing.T) {
	g := newGrid(t, 3, 1)
	set(t, g, 0, 0, game.NewTile(game.Plain, me, 30))
	set(t, g, 1, 0, game.NeutralTile(game.City, 10))
	set(t, g, 2, 0, game.NeutralTile(game.Plain, 0))
	if plan := Gather(g, me, Request{Intent: ExpandLand, Target: pos(2, 0), Limit: 5}, nil); plan != nil {
		t.Errorf("plan through a neutral city: %v", plan)
	}
}

func TestGatherBlockedByMountain(t *testing.T) {
	g := newGrid(t, 3, 1)
	set(t, g, 0, 0, game.NewTile(game.Plain, me, 30))
	set(t, g, 1, 0, game.Tile{Type: game.Mountain})
	set(t, g, 2, 0, game.NeutralTile(game.Plain, 0))
	if plan := Gather(g, me, Request{Intent: ExpandLand, Target: pos(2, 0), Limit: 5}, nil); plan != nil {
		t.Errorf("plan through a mountain: %v", plan)
	}
}

func TestGatherOutOfBoundsTarget(t *testing.T) {
	g := corridor(t)
	if plan := Gather(g, me, Request{Target: pos(9, 9), Limit: 5}, nil); plan != nil {
		t.Errorf("plan for off-board target: %v", plan)
	}
}

func TestGatherNoPositivePath(t *testing.T) {
	g := newGrid(t, 2, 1)
	set(t, g, 0, 0, game.NewTile(game.Plain, me, 1))
	set(t, g, 1, 0, game.NeutralTile(game.Plain, 0))
	// 1 army minus one move leaves nothing
	if plan := Gather(g, me, Request{Target: pos(1, 0), Limit: 1}, nil); plan != nil {
		t.Errorf("plan = %v, want none", plan)
	}
}

func TestQuickExpandHeadsIntoUnseenTerritory(t *testing.T) {
	g := newGrid(t, 4, 1)
	set(t, g, 0, 0, game.NewTile(game.King, me, 5))

	for seed := int64(0); seed < 10; seed++ {
		plan := QuickExpand(g, me, pos(0, 0), rand.New(rand.NewSource(seed)))
		if len(plan) == 0 {
			t.Fatalf("seed %d: empty plan", seed)
		}
		if plan[0].From != pos(0, 0) {
			t.Errorf("seed %d: plan starts at %v, want the king", seed, plan[0].From)
		}
		last := plan[len(plan)-1]
		for i, step := range plan {
			if step.Intent != ExpandLand || step.Target != last.To {
				t.Errorf("seed %d: step %d = %v", seed, i, step)
			}
			if i > 0 && plan[i-1].To != step.From {
				t.Errorf("seed %d: chain broken at %d", seed, i)
			}
		}
		if g.Visible(last.To) {
			t.Errorf("seed %d: target %v already seen", seed, last.To)
		}
	}
}

func TestQuickExpandNothingUnseen(t *testing.T) {
	g := newGrid(t, 2, 1)
	set(t, g, 0, 0, game.NewTile(game.King, me, 5))
	set(t, g, 1, 0, game.NeutralTile(game.Plain, 0))
	if plan := QuickExpand(g, me, pos(0, 0), rand.New(rand.NewSource(3))); plan != nil {
		t.Errorf("plan = %v, want none", plan)
	}
}

func TestRouteReversed(t *testing.T) {
	r := Route{Value: 3, Path: []game.Position{pos(0, 0), pos(0, 1), pos(1, 1)}}
	rev := r.Reversed()
	if rev.Path[0] != pos(1, 1) || rev.Path[2] != pos(0, 0) || rev.Value != 3 {
		t.Errorf("Reversed() = %+v", rev)
	}
	if len(Route{Path: []game.Position{pos(0, 0)}}.Plan(Defend, 1)) != 0 {
		t.Error("single-cell route produced steps")
	}
}
