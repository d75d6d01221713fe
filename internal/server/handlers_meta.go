package server

import (
	"fmt"
	"net/http"

	"marineportal/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeServiceError(w, r, storeUnavailable(fmt.Errorf("record store is not configured")))
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeServiceError(w, r, storeUnavailable(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
