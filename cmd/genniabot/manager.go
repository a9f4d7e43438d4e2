package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"genniabot/internal/engine"
	"genniabot/internal/transport"
)

type BotManager struct {
	config  *Config
	policy  *engine.Policy
	archive transport.Archive
	bots    []*transport.Bot
	mu      sync.RWMutex
}

func NewBotManager(config *Config, policy *engine.Policy, archive transport.Archive) *BotManager {
	return &BotManager{
		config:  config,
		policy:  policy,
		archive: archive,
		bots:    make([]*transport.Bot, 0, config.PoolSize),
	}
}

// Start initializes and connects all bots
func (m *BotManager) Start() error {
	log.Printf("Starting bot pool with size: %d", m.config.PoolSize)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i, name := range m.config.BotNames(rng) {
		bot := transport.NewBot(m.config.ServerURL, m.config.RoomID, name, m.policy, m.archive)

		if err := bot.Connect(); err != nil {
			log.Printf("Failed to connect bot %d: %v (continuing with remaining bots)", i+1, err)
			continue
		}

		m.add(bot)

		// Start bot message loop in goroutine
		go bot.Run()

		log.Printf("Bot %d/%d started as %s", i+1, m.config.PoolSize, name)
	}

	m.mu.RLock()
	connectedCount := len(m.bots)
	m.mu.RUnlock()

	if connectedCount == 0 {
		return fmt.Errorf("no bots connected successfully")
	}

	log.Printf("Bot pool ready: %d/%d bots connected", connectedCount, m.config.PoolSize)
	return nil
}

func (m *BotManager) add(bot *transport.Bot) {
	m.mu.Lock()
	m.bots = append(m.bots, bot)
	m.mu.Unlock()
}

// Stop shuts down all bots and waits for their archive writes.
func (m *BotManager) Stop() {
	log.Println("Stopping bot pool...")

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, bot := range m.bots {
		bot.Disconnect()
	}
	for _, bot := range m.bots {
		bot.Wait()
	}

	log.Printf("All %d bots stopped", len(m.bots))
}

// GetStats returns current pool statistics
func (m *BotManager) GetStats() map[string]int {
	stats := map[string]int{
		"total":        0,
		"idle":         0,
		"in_lobby":     0,
		"in_game":      0,
		"disconnected": 0,
		"games":        0,
	}

	for _, st := range m.Statuses() {
		stats["total"]++
		stats["games"] += st.Games

		switch st.State {
		case transport.BotIdle.String():
			stats["idle"]++
		case transport.BotInLobby.String():
			stats["in_lobby"]++
		case transport.BotInGame.String():
			stats["in_game"]++
		case transport.BotDisconnected.String():
			stats["disconnected"]++
		}
	}

	return stats
}

// Statuses returns a snapshot of every bot in the pool.
func (m *BotManager) Statuses() []transport.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]transport.Status, 0, len(m.bots))
	for _, bot := range m.bots {
		out = append(out, bot.Status())
	}
	return out
}
