package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/alumnet/internal/adapters/repository"
	"github.com/okian/alumnet/internal/domain/badges"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/scoring"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

// recentHistory is how many entries the dashboard shows.
const recentHistory = 7

// BadgeCheck is the outcome of a badge evaluation.
type BadgeCheck struct {
	NewBadges   []model.Badge `json:"newBadges"`
	TotalBadges int           `json:"totalBadges"`
	Message     string        `json:"message"`
}

// CheckBadges awards every badge the freshly scored profile qualifies for.
// Repeated calls award nothing new.
func (s *Service) CheckBadges(ctx context.Context, userID string) (BadgeCheck, error) {
	var res badges.Result
	u, err := s.mutateUser(ctx, userID, func(u *model.User) error {
		s.recompute(u)
		res = badges.Evaluate(u, s.now().UTC())
		u.Badges = append(u.Badges, res.NewBadges...)
		return nil
	})
	if err != nil {
		return BadgeCheck{}, err
	}
	for _, b := range res.NewBadges {
		metrics.RecordBadgeAwarded(b.Name)
		s.notify(ctx, userID, model.NotifyBadgeEarned, "Badge earned",
			fmt.Sprintf("%s You earned the %s badge", b.Icon, b.Name),
			map[string]any{"badge": b.Name})
	}
	if len(res.NewBadges) > 0 {
		s.logger.Info(ctx, "badges awarded", logger.String("user_id", userID), logger.Int("count", len(res.NewBadges)))
	}
	return BadgeCheck{NewBadges: res.NewBadges, TotalBadges: len(u.Badges), Message: res.Message}, nil
}

// Badges lists every badge with the user's earned state.
func (s *Service) Badges(ctx context.Context, userID string) (badges.Listing, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return badges.Listing{}, err
	}
	return badges.Overview(u.Badges), nil
}

func currentScores(u *model.User) types.CurrentScores {
	return types.CurrentScores{
		ProfileStrength: u.ProfileStrengthScore,
		RoleReadiness:   u.RoleReadinessScore,
		ResumeScore:     u.ResumeScore,
		SkillGrowth:     u.SkillGrowthScore,
	}
}

// Progress returns the score history and section counts.
func (s *Service) Progress(ctx context.Context, userID string) (types.Progress, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return types.Progress{}, err
	}
	return types.Progress{
		ScoreHistory:    u.ScoreHistory,
		CurrentScores:   currentScores(u),
		Skills:          u.Skills,
		ProjectCount:    len(u.Projects),
		CertCount:       len(u.Certifications),
		InternshipCount: len(u.Internships),
	}, nil
}

// Dashboard summarizes a user. Rank is 0 for users not on the leaderboard.
func (s *Service) Dashboard(ctx context.Context, userID string) (types.Dashboard, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return types.Dashboard{}, err
	}
	rank := 0
	if e, err := s.leaderboard.Rank(ctx, userID); err == nil {
		rank = e.Rank
	}
	recent := u.ScoreHistory
	if len(recent) > recentHistory {
		recent = recent[len(recent)-recentHistory:]
	}
	return types.Dashboard{
		CurrentScores:  currentScores(u),
		CompositeScore: scoring.Composite(scoring.ScoresOf(u)),
		Rank:           rank,
		TargetRole:     u.TargetRole,
		BadgeCount:     len(u.Badges),
		Credits:        u.Credits,
		SkillCount:     len(u.Skills),
		ProjectCount:   len(u.Projects),
		RecentHistory:  recent,
	}, nil
}

// Leaderboard returns the top students by composite score. A zero limit uses
// the default; larger limits are capped.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}
	if limit == 0 {
		limit = s.leaderboardLimit
	}
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	top, err := s.leaderboard.TopN(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.LeaderboardEntry, 0, len(top))
	for _, e := range top {
		u, err := s.store.GetUser(ctx, e.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, types.LeaderboardEntry{
			Rank:            e.Rank,
			UserID:          u.ID,
			Name:            u.Name,
			ProfilePic:      u.ProfilePic,
			CompositeScore:  e.Score,
			ProfileStrength: u.ProfileStrengthScore,
			RoleReadiness:   u.RoleReadinessScore,
			ResumeScore:     u.ResumeScore,
			SkillGrowth:     u.SkillGrowthScore,
			BadgeCount:      len(u.Badges),
		})
	}
	return out, nil
}
