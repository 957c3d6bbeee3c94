package api

import "net/http"

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.GetStats(r.Context())
	respond(w, "api.stats", http.StatusOK, st, err)
}

// handleCohortStats handles GET /api/stats/cohort.
func (s *Server) handleCohortStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.CohortStats(r.Context())
	respond(w, "api.cohort_stats", http.StatusOK, st, err)
}
