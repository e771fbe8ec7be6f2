package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/common/validation"
	"scout-pipeline/internal/models"
	"scout-pipeline/internal/store"
)

const maxBodyBytes = 1 << 20

// readValidatedBody consumes the request body and checks it against the
// given schema. It writes the error response itself and returns nil on
// failure.
func (s *Server) readValidatedBody(w http.ResponseWriter, r *http.Request, schema string) []byte {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errors.WriteError(w, errors.NewValidationError("unreadable request body"))
		return nil
	}

	result, err := validation.Validate(schema, body)
	if err != nil {
		s.errors.WriteError(w, errors.NewValidationError(err.Error()))
		return nil
	}
	if !result.Valid {
		s.errors.WriteError(w, errors.NewValidationError(strings.Join(result.Errors, "; ")))
		return nil
	}
	return body
}

func (s *Server) playerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		s.errors.WriteError(w, errors.NewValidationError("player id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	if name != "" && s.index != nil {
		players, err := s.index.SearchByName(r.Context(), name)
		if err == nil {
			s.writeSuccess(w, http.StatusOK, "players retrieved", map[string]interface{}{
				"players": players,
				"count":   len(players),
			})
			return
		}
		s.logger.Warn("search index unavailable, falling back to store scan", map[string]interface{}{
			"error": err.Error(),
		})
	}

	players, err := s.players.List(r.Context())
	if err != nil {
		s.errors.WriteError(w, errors.NewStorageError("list players", err))
		return
	}

	if name != "" {
		needle := strings.ToLower(name)
		filtered := make([]models.Player, 0, len(players))
		for _, p := range players {
			if strings.Contains(strings.ToLower(p.FullName()), needle) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	s.writeSuccess(w, http.StatusOK, "players retrieved", map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}

	player, err := s.players.Get(r.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			s.errors.WriteError(w, errors.NewRecordNotFoundError("player", id))
			return
		}
		s.errors.WriteError(w, errors.NewStorageError("get player", err))
		return
	}

	s.writeSuccess(w, http.StatusOK, "player retrieved", player)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	body := s.readValidatedBody(w, r, playerSchema)
	if body == nil {
		return
	}

	var player models.Player
	if err := json.Unmarshal(body, &player); err != nil {
		s.errors.WriteError(w, errors.NewValidationError(err.Error()))
		return
	}

	if err := s.players.Create(r.Context(), player); err != nil {
		if err == store.ErrDuplicate {
			s.errors.WriteError(w, errors.NewDuplicateRecordError("player", player.ID))
			return
		}
		s.errors.WriteError(w, errors.NewStorageError("create player", err))
		return
	}

	if s.index != nil {
		if err := s.index.Index(r.Context(), player); err != nil {
			s.logger.Warn("player not indexed", map[string]interface{}{
				"playerId": player.ID,
				"error":    err.Error(),
			})
		}
	}

	s.enqueueEvent(models.EventPlayerCreated, player)
	s.writeSuccess(w, http.StatusCreated, "player created", player)
}
