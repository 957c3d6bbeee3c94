package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/alumnet/internal/domain/referral"
)

func (s *Server) handleCreateReferral(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_referral"
	var in referral.Draft
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	ref, err := s.deps.CreateReferral(r.Context(), UserID(r.Context()), in)
	respond(w, op, http.StatusCreated, ref, err)
}

func (s *Server) handleListReferrals(w http.ResponseWriter, r *http.Request) {
	refs, err := s.deps.ListReferrals(r.Context())
	respond(w, "api.list_referrals", http.StatusOK, refs, err)
}

func (s *Server) handleReferralMatches(w http.ResponseWriter, r *http.Request) {
	ms, err := s.deps.ReferralMatches(r.Context(), UserID(r.Context()))
	respond(w, "api.referral_matches", http.StatusOK, ms, err)
}

func (s *Server) handleReferralDetails(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.ReferralDetails(r.Context(), chi.URLParam(r, "id"))
	respond(w, "api.referral_details", http.StatusOK, d, err)
}

func (s *Server) handleApplyReferral(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.ApplyReferral(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	respond(w, "api.apply_referral", http.StatusCreated, a, err)
}

func (s *Server) handleSetReferralStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_referral_status"
	var in statusRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	ref, err := s.deps.SetReferralStatus(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), in.Status)
	respond(w, op, http.StatusOK, ref, err)
}

func (s *Server) handleSetApplicantStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_applicant_status"
	var in statusRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.deps.SetApplicantStatus(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()),
		chi.URLParam(r, "userID"), in.Status)
	respond(w, op, http.StatusOK, a, err)
}
