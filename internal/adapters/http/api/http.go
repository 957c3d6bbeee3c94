// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/domain/badges"
	"github.com/okian/alumnet/internal/domain/dedupe"
	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/referral"
	"github.com/okian/alumnet/internal/domain/scoring"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	Idempotency() dedupe.Deduper

	CreateUser(ctx context.Context, in service.NewUser) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateBasics(ctx context.Context, id string, in service.BasicsUpdate) (*model.User, error)
	Connect(ctx context.Context, userID, otherID string) (*model.User, error)

	UploadCV(ctx context.Context, userID, filename string, data []byte) (*service.CVResult, error)
	GetAIProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateAIProfile(ctx context.Context, userID string, in service.AIProfileUpdate) (*model.User, error)
	ProfileScore(ctx context.Context, userID string) (types.ProfileScore, error)
	RoleReadiness(ctx context.Context, userID, role string) (scoring.Readiness, error)
	ATSScore(ctx context.Context, userID, role string) (scoring.ATSReport, error)
	GenerateResume(ctx context.Context, userID, role string) (*service.GeneratedResume, error)
	TargetRoles() []string

	CheckBadges(ctx context.Context, userID string) (service.BadgeCheck, error)
	Badges(ctx context.Context, userID string) (badges.Listing, error)
	Progress(ctx context.Context, userID string) (types.Progress, error)
	Dashboard(ctx context.Context, userID string) (types.Dashboard, error)
	Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
	CohortStats(ctx context.Context) (types.CohortStats, error)
	GetStats(ctx context.Context) (types.Stats, error)

	CreateReferral(ctx context.Context, posterID string, d referral.Draft) (*model.Referral, error)
	ListReferrals(ctx context.Context) ([]*model.Referral, error)
	ReferralMatches(ctx context.Context, userID string) ([]referral.Match, error)
	ApplyReferral(ctx context.Context, referralID, userID string) (model.Applicant, error)
	ReferralDetails(ctx context.Context, referralID string) (*types.ReferralDetails, error)
	SetApplicantStatus(ctx context.Context, referralID, actorID, applicantID, status string) (model.Applicant, error)
	SetReferralStatus(ctx context.Context, referralID, actorID, status string) (*model.Referral, error)

	CreateSession(ctx context.Context, hostID string, d mentoring.Draft) (*model.Session, error)
	ListSessions(ctx context.Context, domain string) ([]*model.Session, error)
	RecommendedSessions(ctx context.Context, userID string) ([]mentoring.Recommendation, error)
	BookSession(ctx context.Context, sessionID, userID string) (model.Participant, error)
	MyBookings(ctx context.Context, userID string) ([]types.Booking, error)
	RateSession(ctx context.Context, sessionID, userID string, rating int, feedback string) (model.Rating, error)
	SetSessionStatus(ctx context.Context, sessionID, actorID, status string) (*model.Session, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps     Dependencies
	realtime http.Handler
	docs     func(chi.Router)
	limiter  *userLimiter
	maxBody  int64
	logger   logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRealtime mounts h at /ws.
func WithRealtime(h http.Handler) Option {
	return func(s *Server) { s.realtime = h }
}

// WithDocs registers documentation routes.
func WithDocs(register func(chi.Router)) Option {
	return func(s *Server) { s.docs = register }
}

// WithUploadRate limits CV uploads per user to perSec with the given burst.
func WithUploadRate(perSec float64, burst int) Option {
	return func(s *Server) {
		if perSec > 0 && burst > 0 {
			s.limiter = newUserLimiter(perSec, burst)
		}
	}
}

// WithMaxUploadBytes caps multipart CV uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:    deps,
		limiter: newUserLimiter(0.2, 3),
		maxBody: 5 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", HandleHealth)
	r.Get("/stats", s.handleStats)
	if s.realtime != nil {
		r.Handle("/ws", s.realtime)
	}
	if s.docs != nil {
		s.docs(r)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/roles", s.handleTargetRoles)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/stats/cohort", s.handleCohortStats)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Use(Idempotency(s.deps.Idempotency()))

			r.Get("/users/{id}", s.handleGetUser)
			r.Post("/users/{id}/connect", s.handleConnect)
			r.Get("/me", s.handleMe)
			r.Patch("/me", s.handleUpdateBasics)

			r.With(s.limiter.Middleware).Post("/profile/cv", s.handleUploadCV)
			r.Get("/profile/ai", s.handleGetAIProfile)
			r.Put("/profile/ai", s.handleUpdateAIProfile)
			r.Get("/profile/score", s.handleProfileScore)
			r.Post("/profile/readiness", s.handleRoleReadiness)
			r.Post("/profile/ats", s.handleATS)
			r.Get("/profile/resume", s.handleGenerateResume)

			r.Get("/badges", s.handleBadges)
			r.Post("/badges/check", s.handleCheckBadges)
			r.Get("/progress", s.handleProgress)
			r.Get("/dashboard", s.handleDashboard)

			r.Post("/referrals", s.handleCreateReferral)
			r.Get("/referrals", s.handleListReferrals)
			r.Get("/referrals/matches", s.handleReferralMatches)
			r.Get("/referrals/{id}", s.handleReferralDetails)
			r.Post("/referrals/{id}/apply", s.handleApplyReferral)
			r.Patch("/referrals/{id}/status", s.handleSetReferralStatus)
			r.Patch("/referrals/{id}/applicants/{userID}", s.handleSetApplicantStatus)

			r.Post("/sessions", s.handleCreateSession)
			r.Get("/sessions", s.handleListSessions)
			r.Get("/sessions/recommended", s.handleRecommendedSessions)
			r.Get("/sessions/mine", s.handleMyBookings)
			r.Post("/sessions/{id}/book", s.handleBookSession)
			r.Post("/sessions/{id}/rate", s.handleRateSession)
			r.Patch("/sessions/{id}/status", s.handleSetSessionStatus)
		})
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respond writes v with status, or the mapped error.
func respond(w http.ResponseWriter, op string, status int, v any, err error) {
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, status, v)
}

const maxJSONBody = 1 << 20

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

func queryInt(r *http.Request, op, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("%s must be an integer", key))
	}
	return n, nil
}

type statusRequest struct {
	Status string `json:"status"`
}
