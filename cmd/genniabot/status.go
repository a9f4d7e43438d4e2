package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"genniabot/internal/engine"
)

// statusRouter exposes the pool state for monitoring.
func statusRouter(m *BotManager, policy *engine.Policy) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, m.GetStats())
	})

	r.Get("/bots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, m.Statuses())
	})

	r.Get("/bots/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		for _, st := range m.Statuses() {
			if st.ID == id {
				respondJSON(w, http.StatusOK, st)
				return
			}
		}
		respondError(w, http.StatusNotFound, "bot not found")
	})

	r.Get("/policy", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"retreat":   policy.RetreatSrc,
			"half_move": policy.HalfMoveSrc,
		})
	})

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
