package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/alumnet/internal/domain/mentoring"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var in mentoring.Draft
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	ses, err := s.deps.CreateSession(r.Context(), UserID(r.Context()), in)
	respond(w, op, http.StatusCreated, ses, err)
}

// handleListSessions handles GET /api/sessions?domain=.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.ListSessions(r.Context(), r.URL.Query().Get("domain"))
	respond(w, "api.list_sessions", http.StatusOK, list, err)
}

func (s *Server) handleRecommendedSessions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.deps.RecommendedSessions(r.Context(), UserID(r.Context()))
	respond(w, "api.recommended_sessions", http.StatusOK, recs, err)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.MyBookings(r.Context(), UserID(r.Context()))
	respond(w, "api.my_bookings", http.StatusOK, list, err)
}

func (s *Server) handleBookSession(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.BookSession(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	respond(w, "api.book_session", http.StatusCreated, p, err)
}

type rateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleRateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.rate_session"
	var in rateRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	rt, err := s.deps.RateSession(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), in.Rating, in.Feedback)
	respond(w, op, http.StatusCreated, rt, err)
}

func (s *Server) handleSetSessionStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_session_status"
	var in statusRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	ses, err := s.deps.SetSessionStatus(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), in.Status)
	respond(w, op, http.StatusOK, ses, err)
}
