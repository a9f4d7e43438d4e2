package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"genniabot/internal/storage"
)

func main() {
	dbPath := flag.String("db", "data/games.db", "Path to SQLite database")
	limit := flag.Int("limit", 0, "Show at most this many games, 0 for all")
	withMoves := flag.Bool("moves", true, "Print the move log of each game")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatalf("Database not found at %s", *dbPath)
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	games, err := store.ListGames(*limit)
	if err != nil {
		log.Fatalf("Failed to query games: %v", err)
	}

	for i := range games {
		if err := printGame(os.Stdout, &games[i], *withMoves); err != nil {
			log.Fatalf("Failed to print game %s: %v", games[i].ID, err)
		}
	}
	fmt.Printf("Total games found: %d\n", len(games))
}

func printGame(w io.Writer, g *storage.Game, withMoves bool) error {
	fmt.Fprintf(w, "Game ID: %s\n", g.ID)
	fmt.Fprintf(w, "Time: %s - %s\n", g.StartedAt.Format(time.RFC822), g.EndedAt.Format(time.RFC822))
	fmt.Fprintf(w, "Room: %s, bot %s (color %d)\n", g.RoomID, g.BotName, g.Color)
	fmt.Fprintf(w, "Board: %dx%d, %d turns\n", g.Width, g.Height, g.Turns)
	fmt.Fprintf(w, "Result: %s", g.Result)
	if g.Opponent != "" {
		fmt.Fprintf(w, " (%s)", g.Opponent)
	}
	fmt.Fprintln(w)
	if g.ReplayLink != "" {
		fmt.Fprintf(w, "Replay: %s\n", g.ReplayLink)
	}

	if withMoves {
		fmt.Fprintln(w, "Moves (formatted):")
		formatted, err := json.MarshalIndent(storage.GroupMoves(g.Moves), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(formatted))
	}
	fmt.Fprintln(w, "--------------------------------------------------")
	return nil
}
