package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"genniabot/internal/engine"
	"genniabot/internal/game"
	"genniabot/internal/storage"
)

func TestPrintGame(t *testing.T) {
	g := &storage.Game{
		ID:         "g1",
		RoomID:     "3",
		BotName:    "GenniaBot",
		Color:      2,
		StartedAt:  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2026, 5, 1, 10, 9, 0, 0, time.UTC),
		Width:      20,
		Height:     18,
		Turns:      250,
		Result:     storage.ResultCaptured,
		Opponent:   "alice",
		ReplayLink: "/replays/g1",
		Moves: []engine.Move{
			{Turn: 18, From: game.Position{X: 1, Y: 1}, To: game.Position{X: 1, Y: 2}, Intent: "EXPAND_LAND"},
		},
	}

	var buf bytes.Buffer
	if err := printGame(&buf, g, true); err != nil {
		t.Fatalf("printGame: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Game ID: g1",
		"Board: 20x18, 250 turns",
		"Result: captured (alice)",
		"Replay: /replays/g1",
		`"turn": 18`,
		`"intent": "EXPAND_LAND"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printGame(&buf, g, false); err != nil {
		t.Fatalf("printGame: %v", err)
	}
	if strings.Contains(buf.String(), "Moves") {
		t.Errorf("moves printed with moves disabled:\n%s", buf.String())
	}
}
