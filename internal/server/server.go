// Package server exposes the roster HTTP API: player records, score
// upserts, and webhook subscription management. Mutating handlers
// enqueue events after persisting; the webhook worker picks them up out
// of band.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scout-pipeline/internal/common/auth"
	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/common/logger"
	"scout-pipeline/internal/store"
	"scout-pipeline/internal/webhook"
)

type Options struct {
	Players       store.PlayerStore
	Evaluations   store.EvaluationStore
	Subscriptions store.SubscriptionStore
	Index         *store.PlayerIndex // optional search index
	Verifier      auth.Verifier
	Queue         *webhook.Queue
	Logger        logger.Logger
}

type Server struct {
	players       store.PlayerStore
	evaluations   store.EvaluationStore
	subscriptions store.SubscriptionStore
	index         *store.PlayerIndex
	verifier      auth.Verifier
	queue         *webhook.Queue
	errors        *errors.ErrorHandler
	logger        logger.Logger
}

func New(opts Options) *Server {
	return &Server{
		players:       opts.Players,
		evaluations:   opts.Evaluations,
		subscriptions: opts.Subscriptions,
		index:         opts.Index,
		verifier:      opts.Verifier,
		queue:         opts.Queue,
		errors:        errors.NewErrorHandler(opts.Logger),
		logger:        opts.Logger.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Routes wires every endpoint. GET endpoints on records are public;
// everything that mutates or aggregates requires the shared-secret
// token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /players", s.handleListPlayers)
	mux.HandleFunc("GET /players/{id}", s.handleGetPlayer)
	mux.HandleFunc("POST /players", s.requireToken(s.handleCreatePlayer))

	mux.HandleFunc("GET /players/{id}/score", s.handleGetScore)
	mux.HandleFunc("POST /players/{id}/score", s.requireToken(s.handleUpsertScore))
	mux.HandleFunc("POST /scores", s.requireToken(s.handleCreateScore))

	mux.HandleFunc("GET /players/stats/teams", s.requireToken(s.handleTeamStats))
	mux.HandleFunc("GET /players/stats/positions", s.requireToken(s.handlePositionStats))

	mux.HandleFunc("POST /subscribe", s.requireToken(s.handleSubscribe))
	mux.HandleFunc("DELETE /unsubscribe", s.requireToken(s.handleUnsubscribe))
	mux.HandleFunc("GET /webhooks", s.requireToken(s.handleListWebhooks))
	mux.HandleFunc("POST /webhooks/test", s.requireToken(s.handleTestWebhook))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	body := map[string]interface{}{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	s.writeJSON(w, status, body)
}

// enqueueEvent schedules a webhook dispatch after a successful
// mutation. A dropped event is logged and otherwise ignored.
func (s *Server) enqueueEvent(eventType string, payload interface{}) {
	event := webhook.NewEvent(eventType, payload)
	if !s.queue.Enqueue(event) {
		s.logger.Warn("event dropped, queue unavailable", map[string]interface{}{
			"eventType": eventType,
		})
	}
}
