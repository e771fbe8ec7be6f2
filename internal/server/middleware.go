package server

import (
	"net/http"

	"scout-pipeline/internal/common/auth"
	"scout-pipeline/internal/common/errors"
)

// requireToken rejects the request with 401 before the handler runs
// when the shared-secret header doesn't match. No mutation, no event.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.verifier.Verify(r.Header.Get(auth.HeaderName)) {
			s.errors.WriteError(w, errors.NewUnauthorizedError())
			return
		}
		next(w, r)
	}
}
