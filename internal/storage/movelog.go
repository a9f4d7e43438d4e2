package storage

import (
	"encoding/json"

	"genniabot/internal/engine"
	"genniabot/internal/game"
)

// LogTurn groups the moves sent during one turn.
type LogTurn struct {
	Turn  int       `json:"turn"`
	Moves []LogMove `json:"moves"`
}

type LogMove struct {
	From   game.Position `json:"from"`
	To     game.Position `json:"to"`
	Half   bool          `json:"half,omitempty"`
	Intent string        `json:"intent"`
}

// GroupMoves folds a flat move list into per-turn blocks, keeping order.
func GroupMoves(moves []engine.Move) []LogTurn {
	var turns []LogTurn
	var current *LogTurn

	for _, m := range moves {
		if current == nil || current.Turn != m.Turn {
			if current != nil {
				turns = append(turns, *current)
			}
			current = &LogTurn{Turn: m.Turn, Moves: []LogMove{}}
		}
		current.Moves = append(current.Moves, LogMove{
			From:   m.From,
			To:     m.To,
			Half:   m.Half,
			Intent: m.Intent,
		})
	}
	if current != nil {
		turns = append(turns, *current)
	}
	return turns
}

func encodeMoveLog(moves []engine.Move) (string, error) {
	turns := GroupMoves(moves)
	if turns == nil {
		turns = []LogTurn{}
	}
	bytes, err := json.Marshal(turns)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func decodeMoveLog(content string) ([]engine.Move, error) {
	if content == "" {
		return nil, nil
	}
	var turns []LogTurn
	if err := json.Unmarshal([]byte(content), &turns); err != nil {
		return nil, err
	}
	var moves []engine.Move
	for _, t := range turns {
		for _, m := range t.Moves {
			moves = append(moves, engine.Move{
				Turn:   t.Turn,
				From:   m.From,
				To:     m.To,
				Half:   m.Half,
				Intent: m.Intent,
			})
		}
	}
	return moves, nil
}
