package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"genniabot/internal/engine"
	"genniabot/internal/game"

	_ "modernc.org/sqlite"
)

// Result is how a game ended for the bot.
type Result string

const (
	ResultWon          Result = "won"
	ResultCaptured     Result = "captured"
	ResultEnded        Result = "ended"
	ResultDisconnected Result = "disconnected"
)

// Game is one archived game as seen by one bot.
type Game struct {
	ID         string
	RoomID     string
	BotName    string
	Color      game.Color
	StartedAt  time.Time
	EndedAt    time.Time
	Width      int
	Height     int
	Turns      int
	Result     Result
	Opponent   string // capturer or winner, if known
	ReplayLink string
	Moves      []engine.Move
}

// Store archives finished games in SQLite.
type Store struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	room_id TEXT,
	bot_name TEXT,
	color INTEGER,
	started_at TEXT,
	ended_at TEXT,
	width INTEGER,
	height INTEGER,
	turns INTEGER,
	result TEXT,
	opponent TEXT,
	replay_link TEXT,
	moves_content TEXT
);
`

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	log.Println("[Store] Database initialized at", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGame inserts g. Saving the same game twice fails.
func (s *Store) SaveGame(g *Game) error {
	content, err := encodeMoveLog(g.Moves)
	if err != nil {
		return fmt.Errorf("encode moves of game %s: %w", g.ID, err)
	}

	insertSQL := `
	INSERT INTO games (id, room_id, bot_name, color, started_at, ended_at, width, height, turns, result, opponent, replay_link, moves_content)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(insertSQL,
		g.ID,
		g.RoomID,
		g.BotName,
		int(g.Color),
		formatTime(g.StartedAt),
		formatTime(g.EndedAt),
		g.Width,
		g.Height,
		g.Turns,
		string(g.Result),
		g.Opponent,
		g.ReplayLink,
		content,
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}

	log.Printf("[Store] Game %s saved (%s, %d turns, %d moves)", g.ID, g.Result, g.Turns, len(g.Moves))
	return nil
}

// ListGames returns archived games, most recent first. A limit of zero or
// less returns all of them.
func (s *Store) ListGames(limit int) ([]Game, error) {
	query := `
	SELECT id, room_id, bot_name, color, started_at, ended_at, width, height,
	       turns, result, opponent, replay_link, moves_content
	FROM games
	ORDER BY started_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var (
			g                  Game
			color              int
			startedAt, endedAt string
			result             string
			opponent, replay   sql.NullString
			content            string
		)
		err := rows.Scan(&g.ID, &g.RoomID, &g.BotName, &color, &startedAt, &endedAt,
			&g.Width, &g.Height, &g.Turns, &result, &opponent, &replay, &content)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Color = game.Color(color)
		g.Result = Result(result)
		g.Opponent = opponent.String
		g.ReplayLink = replay.String
		if g.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		if g.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		if g.Moves, err = decodeMoveLog(content); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// fixed width so that text order matches time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}
