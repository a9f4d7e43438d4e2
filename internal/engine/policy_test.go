package engine

import "testing"

func TestCompilePolicyRejectsBadRules(t *testing.T) {
	tests := []struct {
		name     string
		retreat  string
		halfMove string
	}{
		{"syntax", "MyArmy >", ""},
		{"unknown field", "Gold > 3", ""},
		{"not a bool", "", "MyArmy + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompilePolicy(tt.retreat, tt.halfMove); err == nil {
				t.Error("CompilePolicy succeeded")
			}
		})
	}
}

func TestCompilePolicyDefaults(t *testing.T) {
	p, err := CompilePolicy("", "")
	if err != nil {
		t.Fatalf("CompilePolicy: %v", err)
	}
	if p.RetreatSrc != DefaultRetreatRule || p.HalfMoveSrc != DefaultHalfMoveRule {
		t.Errorf("sources = %q, %q", p.RetreatSrc, p.HalfMoveSrc)
	}
}

func TestDefaultRetreat(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name string
		env  PolicyEnv
		want bool
	}{
		{"outnumbered, lucky roll", PolicyEnv{MyArmy: 10, EnemyArmy: 30, Roll: 0.9}, true},
		{"outnumbered, unlucky roll", PolicyEnv{MyArmy: 10, EnemyArmy: 30, Roll: 0.2}, false},
		{"even armies", PolicyEnv{MyArmy: 30, EnemyArmy: 32, Roll: 0.9}, false},
		{"no leaderboard", PolicyEnv{Roll: 0.9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Retreat(tt.env); got != tt.want {
				t.Errorf("Retreat(%+v) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func TestDefaultHalfMove(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		threatened, fromKing, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tt := range tests {
		env := PolicyEnv{KingThreatened: tt.threatened, FromKing: tt.fromKing}
		if got := p.HalfMove(env); got != tt.want {
			t.Errorf("HalfMove(%+v) = %v, want %v", env, got, tt.want)
		}
	}
}
