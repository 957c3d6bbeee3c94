// Package service orchestrates the career engine, the document store and
// notification dispatch behind the operations the HTTP API exposes.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/alumnet/internal/adapters/document"
	"github.com/okian/alumnet/internal/adapters/mq/queue"
	"github.com/okian/alumnet/internal/adapters/mq/worker"
	"github.com/okian/alumnet/internal/adapters/notify"
	"github.com/okian/alumnet/internal/adapters/repository"
	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/internal/domain/dedupe"
	"github.com/okian/alumnet/internal/domain/history"
	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/resume"
	"github.com/okian/alumnet/internal/domain/scoring"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// Presence reports who is connected to the realtime relay.
type Presence interface {
	Online() []string
}

// Service implements the API dependencies of the career platform.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	leaderboard *repository.Leaderboard
	catalog     *catalog.Catalog
	engine      *scoring.Engine
	extractor   *resume.Extractor
	documents   *document.Reader
	deduper     dedupe.Deduper
	queue       *queue.InMemoryQueue
	pool        *worker.Pool
	sinks       []worker.Sink
	presence    Presence
	locks       *keyedLocker

	workerCount         int
	queueSize           int
	dedupeSize          int
	minResumeChars      int
	maxUploadBytes      int64
	historyLimit        int
	defaultCredits      int
	leaderboardLimit    int
	maxLeaderboardLimit int

	now   func() time.Time
	newID func() string

	started bool
	logger  logger.Logger
}

// New constructs a Service. Components are usable immediately; Start launches
// the notification workers and rebuilds the leaderboard index.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         4,
		queueSize:           10_000,
		dedupeSize:          50_000,
		minResumeChars:      resume.DefaultMinChars,
		maxUploadBytes:      5 << 20,
		historyLimit:        history.DefaultLimit,
		defaultCredits:      10,
		leaderboardLimit:    10,
		maxLeaderboardLimit: 100,
		now:                 time.Now,
		newID:               func() string { return uuid.NewString() },
		locks:               newKeyedLocker(),
		leaderboard:         repository.NewLeaderboard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	s.engine = scoring.NewEngine(scoring.WithCatalog(s.catalog))
	s.extractor = resume.NewExtractor(lexicon.NewMatcher(s.catalog.Skills()), resume.WithMinChars(s.minResumeChars))
	if s.documents == nil {
		s.documents = document.NewReader(document.WithMaxBytes(s.maxUploadBytes))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start rebuilds the leaderboard from the store and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting career service...")

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		s.index(ctx, u)
	}

	sinks := s.sinks
	if len(sinks) == 0 {
		sinks = []worker.Sink{notify.NewLogSink()}
	}
	s.pool = worker.NewPool(s.workerCount, s.queue, sinks)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "career service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("ranked", s.leaderboard.Count(ctx)),
	)
	return nil
}

// Stop drains pending notifications and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping career service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.started = false
	if err := s.store.Close(); err != nil {
		return err
	}
	s.logger.Info(ctx, "career service stopped")
	return nil
}

// Idempotency returns the request idempotency cache.
func (s *Service) Idempotency() dedupe.Deduper { return s.deduper }

// recompute refreshes the derived scores that depend only on the profile.
// Readiness is 0 without a target role.
func (s *Service) recompute(u *model.User) {
	u.ProfileStrengthScore = scoring.ProfileStrength(u)
	metrics.RecordScore("profile", u.ProfileStrengthScore)
	if strings.TrimSpace(u.TargetRole) == "" {
		u.RoleReadinessScore = 0
		return
	}
	u.RoleReadinessScore = s.engine.RoleReadiness(u, u.TargetRole).Score
	metrics.RecordScore("readiness", u.RoleReadinessScore)
}

// saveUser persists u and refreshes its leaderboard entry.
func (s *Service) saveUser(ctx context.Context, u *model.User) error {
	u.UpdatedAt = s.now().UTC()
	if err := s.store.PutUser(ctx, u); err != nil {
		return err
	}
	s.index(ctx, u)
	return nil
}

// index keeps only students on the leaderboard.
func (s *Service) index(ctx context.Context, u *model.User) {
	if u.Role != model.RoleStudent {
		s.leaderboard.Remove(ctx, u.ID)
		return
	}
	s.leaderboard.Upsert(ctx, u.ID, scoring.Composite(scoring.ScoresOf(u)))
}

// mutateUser runs fn on a fresh copy of user id under its lock and saves the
// result when fn succeeds.
func (s *Service) mutateUser(ctx context.Context, id string, fn func(u *model.User) error) (*model.User, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := s.saveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// notify enqueues a notification. A full queue drops it; the request still succeeds.
func (s *Service) notify(ctx context.Context, userID, kind, title, body string, payload map[string]any) {
	n := model.Notification{
		ID:        s.newID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.logger.Warn(ctx, "notification dropped",
			logger.String("user_id", userID),
			logger.String("kind", kind),
			logger.Error(err),
		)
	}
}
