package transport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"genniabot/internal/engine"
	"genniabot/internal/game"
)

// Player is a room member as listed in update_room.
type Player struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Color      int    `json:"color"`
	IsRoomHost bool   `json:"isRoomHost"`
	ForceStart bool   `json:"forceStart"`
	Spectating bool   `json:"spectating"`
}

// Room is the lobby state broadcast by the server.
type Room struct {
	ID          string   `json:"id"`
	RoomName    string   `json:"roomName"`
	GameStarted bool     `json:"gameStarted"`
	Players     []Player `json:"players"`
}

func (r Room) player(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// UserData identifies a player in game_over and game_ended.
type UserData struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Color    int    `json:"color"`
}

// GameInfo is the payload of game_started.
type GameInfo struct {
	MapWidth  int `json:"mapWidth"`
	MapHeight int `json:"mapHeight"`
}

// decodeTile parses the [type, color|null, army|null] tile form.
func decodeTile(data []byte) (game.Tile, error) {
	var raw []*int
	if err := json.Unmarshal(data, &raw); err != nil {
		return game.Tile{}, fmt.Errorf("tile %s: %w", data, err)
	}
	if len(raw) == 0 || raw[0] == nil {
		return game.Tile{}, fmt.Errorf("tile %s: missing type", data)
	}
	kind := game.TileType(*raw[0])
	if kind < game.King || kind > game.Swamp {
		return game.Tile{}, fmt.Errorf("tile %s: unknown type %d", data, *raw[0])
	}

	t := game.Tile{Type: kind}
	if len(raw) > 1 && raw[1] != nil {
		t.Owner = game.Color(*raw[1])
		t.HasOwner = true
	}
	if len(raw) > 2 && raw[2] != nil {
		t.Army = *raw[2]
		t.HasArmy = true
	}
	return t, nil
}

// decodeDiff parses a map diff: numbers are skip counts, arrays are tiles.
func decodeDiff(data []byte) (game.Diff, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrMalformedDiff, err)
	}
	diff := make(game.Diff, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '[' {
			t, err := decodeTile(item)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", game.ErrMalformedDiff, err)
			}
			diff = append(diff, game.ReplaceToken(t))
			continue
		}
		var skip int
		if err := json.Unmarshal(item, &skip); err != nil {
			return nil, fmt.Errorf("%w: token %s", game.ErrMalformedDiff, item)
		}
		diff = append(diff, game.SkipToken(skip))
	}
	return diff, nil
}

// decodeLeaderboard parses rows of [color, army, land].
func decodeLeaderboard(data []byte) ([]engine.Standing, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	board := make([]engine.Standing, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("leaderboard row %v: want [color, army, land]", row)
		}
		board = append(board, engine.Standing{Color: game.Color(row[0]), Army: row[1], Land: row[2]})
	}
	return board, nil
}
