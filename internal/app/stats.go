package service

import (
	"context"

	"github.com/montanaflynn/stats"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/referral"
	"github.com/okian/alumnet/internal/domain/scoring"
	"github.com/okian/alumnet/internal/domain/types"
)

const unknownBatch = "unknown"

// summarize describes data. An empty sample yields a zero Summary.
func summarize(data []float64) types.Summary {
	if len(data) == 0 {
		return types.Summary{}
	}
	out := types.Summary{Count: len(data)}
	in := stats.Float64Data(data)
	out.Mean, _ = in.Mean()
	out.Median, _ = in.Median()
	out.P90, _ = in.Percentile(90)
	out.StdDev, _ = in.StandardDeviation()
	out.Min, _ = in.Min()
	out.Max, _ = in.Max()
	return out
}

// CohortStats summarizes student scores overall and per batch.
func (s *Service) CohortStats(ctx context.Context) (types.CohortStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return types.CohortStats{}, err
	}
	var profile, readiness, resumes, composite []float64
	byBatch := map[string][]float64{}
	for _, u := range users {
		if u.Role != model.RoleStudent {
			continue
		}
		c := float64(scoring.Composite(scoring.ScoresOf(u)))
		profile = append(profile, float64(u.ProfileStrengthScore))
		readiness = append(readiness, float64(u.RoleReadinessScore))
		resumes = append(resumes, float64(u.ResumeScore))
		composite = append(composite, c)
		batch := u.Batch
		if batch == "" {
			batch = unknownBatch
		}
		byBatch[batch] = append(byBatch[batch], c)
	}

	out := types.CohortStats{
		Students:        len(composite),
		ProfileStrength: summarize(profile),
		RoleReadiness:   summarize(readiness),
		ResumeScore:     summarize(resumes),
		Composite:       summarize(composite),
		ByBatch:         make(map[string]types.Summary, len(byBatch)),
	}
	for b, scores := range byBatch {
		out.ByBatch[b] = summarize(scores)
	}
	return out, nil
}

// GetStats returns service counters.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	refs, err := s.store.ListReferrals(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return types.Stats{}, err
	}

	out := types.Stats{
		Users:          len(users),
		Referrals:      len(refs),
		Sessions:       len(sessions),
		QueueDepth:     s.queue.Len(),
		IdempotencyLen: s.deduper.Size(),
	}
	for _, u := range users {
		switch u.Role {
		case model.RoleStudent:
			out.Students++
		case model.RoleAlumni:
			out.Alumni++
		}
	}
	now := s.now()
	for _, r := range refs {
		if referral.IsOpen(r, now) {
			out.OpenReferrals++
		}
	}
	if s.presence != nil {
		out.OnlineUsers = len(s.presence.Online())
	}
	return out, nil
}
