package seed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	app "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/catalog"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
)

type counters struct {
	users, profiles, badges atomic.Int64
	referrals, sessions     atomic.Int64
	applications, bookings  atomic.Int64
	rejected, failed        atomic.Int64
}

// runner carries the state of one seeding run.
type runner struct {
	cfg    *Config
	client *client
	log    logger.Logger
	n      counters
}

// Run seeds the service at cfg.BaseURL and verifies the resulting
// leaderboard. Business rejections are counted, not fatal.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}
	r := &runner{cfg: cfg, client: newClient(cfg.BaseURL, cfg.Timeout), log: logger.Get().Named("seed")}

	r.log.Info(ctx, "starting alumnet seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("students", cfg.Students),
		logger.Int("alumni", cfg.Alumni),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if err := r.checkHealth(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	plan := generatePlan(cfg, catalog.Default(), time.Now().UTC())

	alumni := make([]string, len(plan.Alumni))
	r.parallel(ctx, len(plan.Alumni), func(i int) {
		alumni[i] = r.createUser(ctx, plan.Alumni[i].User)
	})
	students := make([]string, len(plan.Students))
	r.parallel(ctx, len(plan.Students), func(i int) {
		if id := r.createUser(ctx, plan.Students[i].User); id != "" {
			students[i] = id
			r.buildProfile(ctx, id, plan.Students[i].Profile)
		}
	})

	referrals := make([]string, len(plan.Alumni))
	sessions := make([]string, len(plan.Alumni))
	r.parallel(ctx, len(plan.Alumni), func(i int) {
		if alumni[i] == "" {
			return
		}
		referrals[i] = r.post(ctx, "/api/referrals", alumni[i], plan.Alumni[i].Referral, &r.n.referrals)
		sessions[i] = r.post(ctx, "/api/sessions", alumni[i], plan.Alumni[i].Session, &r.n.sessions)
	})
	referrals, sessions = nonEmpty(referrals), nonEmpty(sessions)

	r.parallel(ctx, len(students), func(i int) {
		if students[i] == "" {
			return
		}
		for k := range min(cfg.Applications, len(referrals)) {
			id := referrals[(i+k*7)%len(referrals)]
			r.act(ctx, "/api/referrals/"+id+"/apply", students[i], &r.n.applications)
		}
		if len(sessions) > 0 {
			r.act(ctx, "/api/sessions/"+sessions[i%len(sessions)]+"/book", students[i], &r.n.bookings)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("seeding interrupted: %w", err)
	}

	var board []types.LeaderboardEntry
	if err := r.client.do(ctx, http.MethodGet, "/api/leaderboard?limit="+strconv.Itoa(cfg.TopN), "", nil, &board); err != nil {
		return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := verifyLeaderboard(board); err != nil {
		return nil, fmt.Errorf("leaderboard verification failed: %w", err)
	}
	displayTopStudents(ctx, r.log, board)

	stats.UsersCreated = int(r.n.users.Load())
	stats.ProfilesScored = int(r.n.profiles.Load())
	stats.BadgesAwarded = int(r.n.badges.Load())
	stats.ReferralsPosted = int(r.n.referrals.Load())
	stats.SessionsPosted = int(r.n.sessions.Load())
	stats.Applications = int(r.n.applications.Load())
	stats.Bookings = int(r.n.bookings.Load())
	stats.Rejected = int(r.n.rejected.Load())
	stats.Failed = int(r.n.failed.Load())
	stats.LeaderboardEntries = len(board)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, r.log, stats)
	return stats, nil
}

// parallel runs fn for 0..n-1 on cfg.Workers goroutines.
func (r *runner) parallel(ctx context.Context, n int, fn func(i int)) {
	jobs := make(chan int, r.cfg.Workers*2)
	var wg sync.WaitGroup
	for range min(r.cfg.Workers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				fn(i)
			}
		}()
	}
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func (r *runner) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := r.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	r.log.Info(ctx, "service is healthy")
	return nil
}

func (r *runner) createUser(ctx context.Context, in app.NewUser) string {
	var u model.User
	if !r.record(ctx, "create user", r.client.do(ctx, http.MethodPost, "/api/users", "", in, &u)) {
		return ""
	}
	r.n.users.Add(1)
	return u.ID
}

// buildProfile fills in the scored sections, stores an ATS score for the
// target role and awards any badges the profile now qualifies for.
func (r *runner) buildProfile(ctx context.Context, userID string, p profilePayload) {
	if !r.record(ctx, "update profile", r.client.do(ctx, http.MethodPut, "/api/profile/ai", userID, p, nil)) {
		return
	}
	r.n.profiles.Add(1)
	if p.TargetRole != "" {
		body := map[string]string{"targetRole": p.TargetRole}
		r.record(ctx, "ats score", r.client.do(ctx, http.MethodPost, "/api/profile/ats", userID, body, nil))
	}
	var check app.BadgeCheck
	if r.record(ctx, "check badges", r.client.do(ctx, http.MethodPost, "/api/badges/check", userID, nil, &check)) {
		r.n.badges.Add(int64(len(check.NewBadges)))
	}
}

// post creates a resource and returns its id, or "" on failure.
func (r *runner) post(ctx context.Context, path, userID string, body any, n *atomic.Int64) string {
	var out struct {
		ID string `json:"id"`
	}
	if !r.record(ctx, "post "+path, r.client.do(ctx, http.MethodPost, path, userID, body, &out)) {
		return ""
	}
	n.Add(1)
	return out.ID
}

func (r *runner) act(ctx context.Context, path, userID string, n *atomic.Int64) {
	if r.record(ctx, "post "+path, r.client.do(ctx, http.MethodPost, path, userID, nil, nil)) {
		n.Add(1)
	}
}

// record classifies err and reports whether the call succeeded.
func (r *runner) record(ctx context.Context, what string, err error) bool {
	switch {
	case err == nil:
		return true
	case rejected(err):
		r.n.rejected.Add(1)
		r.log.Debug(ctx, "request rejected", logger.String("op", what), logger.Error(err))
	default:
		r.n.failed.Add(1)
		if r.cfg.Verbose {
			r.log.Warn(ctx, "request failed", logger.String("op", what), logger.Error(err))
		}
	}
	return false
}

func nonEmpty(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.UsersCreated) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("profilesScored", stats.ProfilesScored),
		logger.Int("badgesAwarded", stats.BadgesAwarded),
		logger.Int("referralsPosted", stats.ReferralsPosted),
		logger.Int("sessionsPosted", stats.SessionsPosted),
		logger.Int("applications", stats.Applications),
		logger.Int("bookings", stats.Bookings),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("usersPerSecond", perSecond))
}
