package server

import (
	"encoding/json"
	"net/http"

	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/models"
	"scout-pipeline/internal/store"
)

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}

	eval, err := s.evaluations.Get(r.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			s.errors.WriteError(w, errors.NewRecordNotFoundError("evaluation", id))
			return
		}
		s.errors.WriteError(w, errors.NewStorageError("get evaluation", err))
		return
	}

	s.writeSuccess(w, http.StatusOK, "evaluation retrieved", eval)
}

// handleUpsertScore replaces the evaluation attached to a record. The
// path id wins over any playerId in the body.
func (s *Server) handleUpsertScore(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}

	exists, err := s.players.Exists(r.Context(), id)
	if err != nil {
		s.errors.WriteError(w, errors.NewStorageError("check player", err))
		return
	}
	if !exists {
		s.errors.WriteError(w, errors.NewRecordNotFoundError("player", id))
		return
	}

	body := s.readValidatedBody(w, r, evaluationSchema)
	if body == nil {
		return
	}

	var eval models.Evaluation
	if err := json.Unmarshal(body, &eval); err != nil {
		s.errors.WriteError(w, errors.NewValidationError(err.Error()))
		return
	}
	eval.PlayerID = id

	created, err := s.evaluations.Upsert(r.Context(), eval)
	if err != nil {
		s.errors.WriteError(w, errors.NewStorageError("upsert evaluation", err))
		return
	}

	if created {
		s.enqueueEvent(models.EventScoreCreated, eval)
		s.writeSuccess(w, http.StatusCreated, "evaluation created", eval)
		return
	}
	s.enqueueEvent(models.EventScoreUpdated, eval)
	s.writeSuccess(w, http.StatusOK, "evaluation updated", eval)
}

// handleCreateScore is the batch delivery target: create-only, so a
// repeated run surfaces already-delivered evaluations as 409s instead
// of silently overwriting them.
func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	body := s.readValidatedBody(w, r, evaluationSchema)
	if body == nil {
		return
	}

	var eval models.Evaluation
	if err := json.Unmarshal(body, &eval); err != nil {
		s.errors.WriteError(w, errors.NewValidationError(err.Error()))
		return
	}

	if _, err := s.evaluations.Get(r.Context(), eval.PlayerID); err == nil {
		s.errors.WriteError(w, errors.NewDuplicateRecordError("evaluation", eval.PlayerID))
		return
	} else if err != store.ErrNotFound {
		s.errors.WriteError(w, errors.NewStorageError("check evaluation", err))
		return
	}

	if _, err := s.evaluations.Upsert(r.Context(), eval); err != nil {
		s.errors.WriteError(w, errors.NewStorageError("create evaluation", err))
		return
	}

	s.enqueueEvent(models.EventScoreCreated, eval)
	s.writeSuccess(w, http.StatusCreated, "evaluation created", eval)
}
