package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genniabot/internal/engine"
	"genniabot/internal/storage"
	"genniabot/internal/transport"
)

func main() {
	log.Println("Starting genniabot...")

	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	policy, err := engine.CompilePolicy(config.RetreatRule, config.HalfMoveRule)
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	var archive transport.Archive
	if config.DBPath != "" {
		store, err := storage.Open(config.DBPath)
		if err != nil {
			log.Fatalf("Failed to open game archive: %v", err)
		}
		defer store.Close()
		archive = store
	}

	manager := NewBotManager(config, policy, archive)

	// Start bot pool
	if err := manager.Start(); err != nil {
		log.Fatalf("Failed to start bot manager: %v", err)
	}

	log.Printf("genniabot started with %d bots in room %s on %s",
		config.PoolSize, config.RoomID, config.ServerURL)

	var server *http.Server
	if config.StatusAddr != "" {
		server = &http.Server{
			Addr:              config.StatusAddr,
			Handler:           statusRouter(manager, policy),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("Status server listening on %s", config.StatusAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Status server failed: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down genniabot...")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Status server shutdown: %v", err)
		}
		cancel()
	}
	manager.Stop()
	log.Println("genniabot stopped")
}
