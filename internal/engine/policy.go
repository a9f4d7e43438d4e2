package engine

import (
	"fmt"
	"log"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	DefaultRetreatRule  = `EnemyArmy > MyArmy * 1.1 && Roll > 0.5`
	DefaultHalfMoveRule = `KingThreatened && FromKing`
)

// PolicyEnv is the set of facts a policy expression can read.
type PolicyEnv struct {
	Turn           int
	MyArmy         int
	MaxArmy        int
	EnemyArmy      int
	KingThreatened bool
	FromKing       bool
	Roll           float64 // uniform in [0, 1), drawn per evaluation
}

// Policy holds the compiled tactical switches.
//
// Retreat decides whether a detected threat is answered by expanding
// elsewhere instead of defending. HalfMove decides whether an executed move
// only sends half of the source army.
type Policy struct {
	RetreatSrc  string
	HalfMoveSrc string
	retreat     *vm.Program
	halfMove    *vm.Program
}

// CompilePolicy compiles both expressions. Empty sources fall back to the
// defaults.
func CompilePolicy(retreat, halfMove string) (*Policy, error) {
	if retreat == "" {
		retreat = DefaultRetreatRule
	}
	if halfMove == "" {
		halfMove = DefaultHalfMoveRule
	}
	p := &Policy{RetreatSrc: retreat, HalfMoveSrc: halfMove}

	var err error
	if p.retreat, err = expr.Compile(retreat, expr.Env(PolicyEnv{}), expr.AsBool()); err != nil {
		return nil, fmt.Errorf("compile retreat rule %q: %w", retreat, err)
	}
	if p.halfMove, err = expr.Compile(halfMove, expr.Env(PolicyEnv{}), expr.AsBool()); err != nil {
		return nil, fmt.Errorf("compile half-move rule %q: %w", halfMove, err)
	}
	return p, nil
}

// DefaultPolicy returns the built-in rules. They are constants, so a
// compile failure is a programming error.
func DefaultPolicy() *Policy {
	p, err := CompilePolicy(DefaultRetreatRule, DefaultHalfMoveRule)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Policy) Retreat(env PolicyEnv) bool {
	return run(p.retreat, "retreat", env)
}

func (p *Policy) HalfMove(env PolicyEnv) bool {
	return run(p.halfMove, "half-move", env)
}

func run(prog *vm.Program, name string, env PolicyEnv) bool {
	out, err := vm.Run(prog, env)
	if err != nil {
		log.Printf("[Engine] %s rule failed: %v", name, err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}
