package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/domain/types"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_user"
	var in service.NewUser
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.deps.CreateUser(r.Context(), in)
	respond(w, op, http.StatusCreated, u, err)
}

// handleGetUser returns the full document for the caller and the public
// view for anyone else.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user"
	id := chi.URLParam(r, "id")
	u, err := s.deps.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if id == UserID(r.Context()) {
		writeJSON(w, http.StatusOK, u)
		return
	}
	writeJSON(w, http.StatusOK, types.Public(u))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.GetUser(r.Context(), UserID(r.Context()))
	respond(w, "api.me", http.StatusOK, u, err)
}

func (s *Server) handleUpdateBasics(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_basics"
	var in service.BasicsUpdate
	if err := decode(r, op, &in); err != nil {
		writeError(w, err)
		return
	}
	u, err := s.deps.UpdateBasics(r.Context(), UserID(r.Context()), in)
	respond(w, op, http.StatusOK, u, err)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Connect(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	respond(w, "api.connect", http.StatusOK, u, err)
}
