package engine

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"genniabot/internal/game"
	"genniabot/internal/planner"

	"github.com/google/uuid"
)

// Standing is one leaderboard row as broadcast with each update.
type Standing struct {
	Color game.Color `json:"color"`
	Army  int        `json:"army"`
	Land  int        `json:"land"`
}

// Command is the attack emitted for a tick.
type Command struct {
	From game.Position
	To   game.Position
	Half bool
}

// Move is an executed command kept for the game archive.
type Move struct {
	Turn   int           `json:"turn"`
	From   game.Position `json:"from"`
	To     game.Position `json:"to"`
	Half   bool          `json:"half,omitempty"`
	Intent string        `json:"intent"`
}

// Pursuit tracks one enemy unit we keep chasing after beating it back.
type Pursuit struct {
	Color game.Color
	Pos   game.Position
}

// Session is the decision state of one game. It is created when the game
// starts and dropped when it ends; it is not safe for concurrent use.
type Session struct {
	ID        string
	Color     game.Color
	StartedAt time.Time

	Grid  game.Grid
	Kings game.Kings
	Queue Queue

	turn           int
	leaderboard    []Standing
	pursuit        *Pursuit
	kingThreatened bool
	policy         *Policy
	rng            *rand.Rand
	moves          []Move
}

// NewSession prepares a session for the player with the given color.
// A nil policy selects the default rules; a nil rng is seeded from the clock.
func NewSession(color game.Color, policy *Policy, rng *rand.Rand) *Session {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		ID:        uuid.New().String(),
		Color:     color,
		StartedAt: time.Now(),
		policy:    policy,
		rng:       rng,
	}
}

// Start sizes the grid. It fails if the session has already started.
func (s *Session) Start(width, height int) error {
	if err := s.Grid.Init(width, height); err != nil {
		return fmt.Errorf("start session %s: %w", s.ID, err)
	}
	return nil
}

// HandleUpdate applies one map diff and runs the tactical tick. A diff that
// cannot be applied leaves the grid untouched and produces no command.
func (s *Session) HandleUpdate(diff game.Diff, turn int, board []Standing) (Command, bool, error) {
	s.turn = turn
	if board != nil {
		s.leaderboard = board
	}
	if err := game.Apply(&s.Grid, diff, s.Color, &s.Kings); err != nil {
		return Command{}, false, fmt.Errorf("turn %d: %w", turn, err)
	}
	cmd, ok := s.Tick()
	return cmd, ok, nil
}

func (s *Session) Turn() int               { return s.turn }
func (s *Session) Leaderboard() []Standing { return s.leaderboard }
func (s *Session) KingThreatened() bool    { return s.kingThreatened }

// Moves returns a copy of the executed commands.
func (s *Session) Moves() []Move {
	out := make([]Move, len(s.moves))
	copy(out, s.moves)
	return out
}

// Pursuit reports the unit currently chased, if any.
func (s *Session) Pursuit() (Pursuit, bool) {
	if s.pursuit == nil {
		return Pursuit{}, false
	}
	return *s.pursuit, true
}

// Chase starts pursuing the unit of color c standing on p.
func (s *Session) Chase(c game.Color, p game.Position) {
	s.pursuit = &Pursuit{Color: c, Pos: p}
}

func (s *Session) stopChase() {
	if s.pursuit != nil {
		log.Printf("[Engine] session %s: pursuit of color %d ended at %v", s.ID, s.pursuit.Color, s.pursuit.Pos)
	}
	s.pursuit = nil
}

func (s *Session) owns(p game.Position) bool {
	return s.Grid.InBounds(p) && s.Grid.At(p).OwnedBy(s.Color)
}

func (s *Session) standing(c game.Color) (Standing, bool) {
	for _, row := range s.leaderboard {
		if row.Color == c {
			return row, true
		}
	}
	return Standing{}, false
}

func (s *Session) policyEnv(enemy game.Color) PolicyEnv {
	env := PolicyEnv{
		Turn:           s.turn,
		KingThreatened: s.kingThreatened,
		Roll:           s.rng.Float64(),
	}
	if mine, ok := s.standing(s.Color); ok {
		env.MyArmy = mine.Army
	}
	if theirs, ok := s.standing(enemy); ok {
		env.EnemyArmy = theirs.Army
	}
	for _, row := range s.leaderboard {
		if row.Army > env.MaxArmy {
			env.MaxArmy = row.Army
		}
	}
	return env
}

// command turns a dequeued step into the tick's attack and records it.
func (s *Session) command(step planner.Step) Command {
	env := s.policyEnv(-1)
	if king, ok := s.Kings.Own(); ok {
		env.FromKing = step.From == king
	}
	cmd := Command{From: step.From, To: step.To, Half: s.policy.HalfMove(env)}
	s.moves = append(s.moves, Move{
		Turn:   s.turn,
		From:   cmd.From,
		To:     cmd.To,
		Half:   cmd.Half,
		Intent: step.Intent.String(),
	})
	return cmd
}
