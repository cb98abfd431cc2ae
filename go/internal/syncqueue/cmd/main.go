package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/syncqueue"
)

// Sidecar for courtside capture devices: accepts event captures on a local
// port, stores them durably, and drains them to the tracking service
// whenever it is reachable.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	port := getEnv("SYNC_PORT", "8090")
	queuePath := getEnv("SYNC_QUEUE_PATH", "courtside-queue.db")
	target := getEnv("SYNC_TARGET_URL", "http://localhost:8080")

	store, err := syncqueue.Open(queuePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open sync queue")
	}
	defer store.Close()

	queue := syncqueue.NewQueue(store, syncqueue.NewHTTPSender(target), clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go queue.Run(ctx)

	log.Info().
		Str("port", port).
		Str("queue_path", queuePath).
		Str("target", target).
		Msg("starting sync sidecar")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /games/{id}/captures", func(w http.ResponseWriter, r *http.Request) {
		gameID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}
		var req gameevents.RecordEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		item, err := queue.Enqueue(r.Context(), gameID, req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"queued_id": item.ID, "idempotency_key": item.IdempotencyKey})
	})
	mux.HandleFunc("POST /undo", func(w http.ResponseWriter, r *http.Request) {
		item, err := queue.UndoLast(r.Context())
		if errors.Is(err, syncqueue.ErrNothingPending) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"undone_id": item.ID})
	})
	mux.HandleFunc("GET /pending", func(w http.ResponseWriter, r *http.Request) {
		n, err := queue.Pending(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"pending": n})
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("sync sidecar failed")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
