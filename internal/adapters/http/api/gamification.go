package api

import "net/http"

func (s *Server) handleCheckBadges(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.CheckBadges(r.Context(), UserID(r.Context()))
	respond(w, "api.check_badges", http.StatusOK, res, err)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Badges(r.Context(), UserID(r.Context()))
	respond(w, "api.badges", http.StatusOK, res, err)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Progress(r.Context(), UserID(r.Context()))
	respond(w, "api.progress", http.StatusOK, res, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Dashboard(r.Context(), UserID(r.Context()))
	respond(w, "api.dashboard", http.StatusOK, res, err)
}

// handleLeaderboard handles GET /api/leaderboard?limit=N.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard"
	limit, err := queryInt(r, op, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.Leaderboard(r.Context(), limit)
	respond(w, op, http.StatusOK, res, err)
}
