package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"genniabot/internal/engine"
	"genniabot/internal/transport"
)

func testManager(t *testing.T) (*BotManager, *transport.Bot) {
	t.Helper()
	config := &Config{ServerURL: "http://localhost:1", RoomID: "1", BotName: "GenniaBot", PoolSize: 1}
	m := NewBotManager(config, engine.DefaultPolicy(), nil)
	bot := transport.NewBot(config.ServerURL, config.RoomID, config.BotName, nil, nil)
	m.add(bot)
	return m, bot
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
	return rec.Code
}

func TestStatusRoutes(t *testing.T) {
	m, bot := testManager(t)
	h := statusRouter(m, engine.DefaultPolicy())

	var health map[string]string
	if code := get(t, h, "/healthz", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Errorf("/healthz = %d %v", code, health)
	}

	var stats map[string]int
	if code := get(t, h, "/stats", &stats); code != http.StatusOK {
		t.Fatalf("/stats = %d", code)
	}
	if stats["total"] != 1 || stats["disconnected"] != 1 || stats["in_game"] != 0 {
		t.Errorf("/stats = %v", stats)
	}

	var bots []transport.Status
	if code := get(t, h, "/bots", &bots); code != http.StatusOK || len(bots) != 1 || bots[0].Username != "GenniaBot" {
		t.Errorf("/bots = %d %+v", code, bots)
	}

	var one transport.Status
	if code := get(t, h, "/bots/"+bot.ID, &one); code != http.StatusOK || one.ID != bot.ID {
		t.Errorf("/bots/{id} = %d %+v", code, one)
	}

	var missing map[string]string
	if code := get(t, h, "/bots/unknown", &missing); code != http.StatusNotFound || missing["error"] == "" {
		t.Errorf("/bots/unknown = %d %v", code, missing)
	}

	var policy map[string]string
	if code := get(t, h, "/policy", &policy); code != http.StatusOK || policy["retreat"] != engine.DefaultRetreatRule {
		t.Errorf("/policy = %d %v", code, policy)
	}
}

func TestStopWithoutBots(t *testing.T) {
	m := NewBotManager(&Config{PoolSize: 1}, nil, nil)
	m.Stop()
	if stats := m.GetStats(); stats["total"] != 0 {
		t.Errorf("stats = %v", stats)
	}
}

func TestStartFailsWhenNothingConnects(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewBotManager(&Config{ServerURL: srv.URL, RoomID: "1", BotName: "GenniaBot", PoolSize: 2}, nil, nil)
	if err := m.Start(); err == nil {
		t.Error("Start succeeded with no reachable server")
	}
}
