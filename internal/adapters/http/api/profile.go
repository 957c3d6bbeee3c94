package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/alumnet/internal/adapters/document"
	service "github.com/okian/alumnet/internal/app"
)

const cvField = "cv"

// handleUploadCV handles POST /api/profile/cv as multipart/form-data with a
// "cv" file part.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_cv"
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody+1<<20)
	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, WrapKind(op, document.ErrDocumentTooLarge, err))
			return
		}
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	file, header, err := r.FormFile(cvField)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("missing %q file: %w", cvField, err)))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxBody+1))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if int64(len(data)) > s.maxBody {
		writeError(w, NewKind(op, document.ErrDocumentTooLarge))
		return
	}
	res, err := s.deps.UploadCV(r.Context(), UserID(r.Context()), header.Filename, data)
	respond(w, op, http.StatusOK, res, err)
}

func (s *Server) handleGetAIProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.GetAIProfile(r.Context(), UserID(r.Context()))
	respond(w, "api.get_ai_profile", http.StatusOK, u, err)
}

func (s *Server) handleUpdateAIProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_ai_profile"
	var in service.AIProfileUpdate
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.deps.UpdateAIProfile(r.Context(), UserID(r.Context()), in)
	respond(w, op, http.StatusOK, u, err)
}

func (s *Server) handleProfileScore(w http.ResponseWriter, r *http.Request) {
	ps, err := s.deps.ProfileScore(r.Context(), UserID(r.Context()))
	respond(w, "api.profile_score", http.StatusOK, ps, err)
}

type roleRequest struct {
	TargetRole string `json:"targetRole"`
}

func (s *Server) handleRoleReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "api.role_readiness"
	var in roleRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	rep, err := s.deps.RoleReadiness(r.Context(), UserID(r.Context()), in.TargetRole)
	respond(w, op, http.StatusOK, rep, err)
}

func (s *Server) handleATS(w http.ResponseWriter, r *http.Request) {
	const op = "api.ats"
	var in roleRequest
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	rep, err := s.deps.ATSScore(r.Context(), UserID(r.Context()), in.TargetRole)
	respond(w, op, http.StatusOK, rep, err)
}

// handleGenerateResume handles GET /api/profile/resume?role=&format=html.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_resume"
	res, err := s.deps.GenerateResume(r.Context(), UserID(r.Context()), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, res.HTML)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTargetRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"roles": s.deps.TargetRoles()})
}
