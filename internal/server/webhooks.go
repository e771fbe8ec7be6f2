package server

import (
	"encoding/json"
	"net/http"

	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/models"
	"scout-pipeline/internal/store"
)

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	body := s.readValidatedBody(w, r, subscriptionSchema)
	if body == nil {
		return
	}

	var sub models.Subscription
	if err := json.Unmarshal(body, &sub); err != nil {
		s.errors.WriteError(w, errors.NewValidationError(err.Error()))
		return
	}

	if err := s.subscriptions.Add(r.Context(), sub); err != nil {
		if err == store.ErrDuplicate {
			s.errors.WriteError(w, errors.NewDuplicateRecordError("subscription", sub.URL))
			return
		}
		s.errors.WriteError(w, errors.NewStorageError("add subscription", err))
		return
	}

	s.writeSuccess(w, http.StatusCreated, "subscription registered", sub)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.errors.WriteError(w, errors.NewValidationError("url query parameter is required"))
		return
	}

	if err := s.subscriptions.Remove(r.Context(), url); err != nil {
		if err == store.ErrNotFound {
			s.errors.WriteError(w, errors.NewRecordNotFoundError("subscription", url))
			return
		}
		s.errors.WriteError(w, errors.NewStorageError("remove subscription", err))
		return
	}

	s.writeSuccess(w, http.StatusOK, "subscription removed", nil)
}

func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	subs, err := s.subscriptions.List(r.Context())
	if err != nil {
		s.errors.WriteError(w, errors.NewStorageError("list subscriptions", err))
		return
	}

	s.writeSuccess(w, http.StatusOK, "subscriptions retrieved", map[string]interface{}{
		"subscriptions": subs,
		"count":         len(subs),
	})
}

// handleTestWebhook fires a synthetic event at every subscriber so an
// endpoint can be verified without mutating any record.
func (s *Server) handleTestWebhook(w http.ResponseWriter, r *http.Request) {
	s.enqueueEvent(models.EventTest, map[string]string{
		"message": "webhook connectivity test",
	})
	s.writeSuccess(w, http.StatusAccepted, "test event queued", nil)
}
