package server

import (
	"net/http"

	"scout-pipeline/internal/common/errors"
	"scout-pipeline/internal/models"
)

func (s *Server) handleTeamStats(w http.ResponseWriter, r *http.Request) {
	s.writeDistribution(w, r, "teams", func(p models.Player) string { return p.Team })
}

func (s *Server) handlePositionStats(w http.ResponseWriter, r *http.Request) {
	s.writeDistribution(w, r, "positions", func(p models.Player) string { return p.Position })
}

func (s *Server) writeDistribution(w http.ResponseWriter, r *http.Request, dimension string, key func(models.Player) string) {
	players, err := s.players.List(r.Context())
	if err != nil {
		s.errors.WriteError(w, errors.NewStorageError("list players", err))
		return
	}

	distribution := make(map[string]int)
	for _, p := range players {
		distribution[key(p)]++
	}

	s.writeSuccess(w, http.StatusOK, dimension+" statistics", map[string]interface{}{
		"dimension":    dimension,
		"total":        len(players),
		"distribution": distribution,
	})
}
