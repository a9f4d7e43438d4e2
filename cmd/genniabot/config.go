package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"strconv"

	"genniabot/internal/engine"
)

type Config struct {
	ServerURL    string
	RoomID       string
	BotName      string
	PoolSize     int
	DBPath       string
	StatusAddr   string
	RetreatRule  string
	HalfMoveRule string
}

// LoadConfig reads the environment and then args. Flags override the
// environment.
func LoadConfig(args []string) (*Config, error) {
	poolSize, _ := strconv.Atoi(getEnv("BOT_POOL_SIZE", "1"))

	config := &Config{}
	fs := flag.NewFlagSet("genniabot", flag.ContinueOnError)
	fs.StringVar(&config.ServerURL, "server_url", getEnv("SERVER_URL", "http://localhost:3000"), "Gennia server URL")
	fs.StringVar(&config.RoomID, "room_id", getEnv("ROOM_ID", "1"), "room to join")
	fs.StringVar(&config.BotName, "bot_name", getEnv("BOT_NAME", "GenniaBot"), "player name")
	fs.IntVar(&config.PoolSize, "pool", poolSize, "number of bots to launch into the room")
	fs.StringVar(&config.DBPath, "db", getEnv("DB_PATH", "data/games.db"), "game archive path, empty to disable")
	fs.StringVar(&config.StatusAddr, "status_addr", getEnv("STATUS_ADDR", ":8081"), "status server address, empty to disable")
	fs.StringVar(&config.RetreatRule, "retreat_rule", getEnv("RETREAT_RULE", engine.DefaultRetreatRule), "expression deciding to expand instead of defending")
	fs.StringVar(&config.HalfMoveRule, "half_move_rule", getEnv("HALF_MOVE_RULE", engine.DefaultHalfMoveRule), "expression deciding to move half an army")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("invalid server url %q: scheme must be http, https, ws or wss", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server url %q: missing host", c.ServerURL)
	}
	if c.RoomID == "" {
		return errors.New("room id is required")
	}
	if c.BotName == "" {
		return errors.New("bot name is required")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool size must be at least 1, got %d", c.PoolSize)
	}
	return nil
}

// BotNames returns one player name per pool slot. The first bot keeps the
// configured name, the others get a generated suffix.
func (c *Config) BotNames(rng *rand.Rand) []string {
	names := make([]string, c.PoolSize)
	for i := range names {
		if i == 0 {
			names[i] = c.BotName
			continue
		}
		names[i] = poolName(c.BotName, i+1, rng)
	}
	return names
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
