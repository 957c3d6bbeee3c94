package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/alumnet/internal/adapters/repository"
	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/referral"
	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
	"github.com/okian/alumnet/pkg/metrics"
)

func canPost(u *model.User) bool {
	return u.Role == model.RoleAlumni || u.Role == model.RoleAdmin
}

// CreateReferral posts a referral opening. Only alumni and admins may post.
func (s *Service) CreateReferral(ctx context.Context, posterID string, d referral.Draft) (*model.Referral, error) {
	poster, err := s.store.GetUser(ctx, posterID)
	if err != nil {
		return nil, err
	}
	if !canPost(poster) {
		return nil, fmt.Errorf("%w: only alumni can post referrals", ErrForbidden)
	}
	ref, err := referral.New(s.newID(), posterID, d, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.PutReferral(ctx, &ref); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "referral posted",
		logger.String("referral_id", ref.ID),
		logger.String("company", ref.Company),
		logger.String("role", ref.Role),
	)
	return &ref, nil
}

// ListReferrals returns open referrals, newest first.
func (s *Service) ListReferrals(ctx context.Context) ([]*model.Referral, error) {
	all, err := s.store.ListReferrals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]*model.Referral, 0, len(all))
	for _, r := range all {
		if referral.IsOpen(r, now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func derefReferrals(in []*model.Referral) []model.Referral {
	out := make([]model.Referral, 0, len(in))
	for _, r := range in {
		out = append(out, *r)
	}
	return out
}

// ReferralMatches ranks the open referrals for a user.
func (s *Service) ReferralMatches(ctx context.Context, userID string) ([]referral.Match, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.recompute(u)
	refs, err := s.store.ListReferrals(ctx)
	if err != nil {
		return nil, err
	}
	return referral.Matches(derefReferrals(refs), u, s.now()), nil
}

// ApplyReferral applies the user to a referral with a fresh profile score.
func (s *Service) ApplyReferral(ctx context.Context, referralID, userID string) (model.Applicant, error) {
	unlock := s.locks.Lock(referralID, userID)
	defer unlock()

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return model.Applicant{}, err
	}
	s.recompute(u)
	ref, err := s.store.GetReferral(ctx, referralID)
	if err != nil {
		return model.Applicant{}, err
	}

	a, err := referral.Apply(ref, u, s.now().UTC())
	if err != nil {
		metrics.RecordReferralApplication(applyOutcome(err))
		return model.Applicant{}, err
	}
	if err := s.store.PutReferral(ctx, ref); err != nil {
		return model.Applicant{}, err
	}
	metrics.RecordReferralApplication("applied")

	s.notify(ctx, ref.PostedBy, model.NotifyReferralApplied, "New referral applicant",
		fmt.Sprintf("%s applied to %s at %s", u.Name, ref.Role, ref.Company),
		map[string]any{"referralId": ref.ID, "userId": userID, "matchScore": a.MatchScore})
	return a, nil
}

func applyOutcome(err error) string {
	switch {
	case errors.Is(err, referral.ErrReferralClosed):
		return "closed"
	case errors.Is(err, referral.ErrBelowMinimumScore):
		return "below_minimum"
	case errors.Is(err, referral.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, referral.ErrCapacityExceeded):
		return "full"
	}
	return "error"
}

// ReferralDetails resolves the poster and applicants of a referral.
func (s *Service) ReferralDetails(ctx context.Context, referralID string) (*types.ReferralDetails, error) {
	ref, err := s.store.GetReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	out := &types.ReferralDetails{Referral: *ref, Applicants: make([]types.ApplicantView, 0, len(ref.Applicants))}
	if poster, err := s.store.GetUser(ctx, ref.PostedBy); err == nil {
		p := types.Public(poster)
		out.Poster = &p
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	for _, a := range ref.Applicants {
		view := types.ApplicantView{Applicant: a}
		u, err := s.store.GetUser(ctx, a.UserID)
		switch {
		case err == nil:
			view.Name = u.Name
			view.ProfileStrength = u.ProfileStrengthScore
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		out.Applicants = append(out.Applicants, view)
	}
	return out, nil
}

// managedReferral loads a referral the actor may manage.
func (s *Service) managedReferral(ctx context.Context, referralID, actorID string) (*model.Referral, error) {
	ref, err := s.store.GetReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	if ref.PostedBy == actorID {
		return ref, nil
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin {
		return nil, fmt.Errorf("%w: only the poster can manage this referral", ErrForbidden)
	}
	return ref, nil
}

// SetApplicantStatus shortlists, rejects or restores an applicant. Only the
// poster or an admin may do so.
func (s *Service) SetApplicantStatus(ctx context.Context, referralID, actorID, applicantID, status string) (model.Applicant, error) {
	unlock := s.locks.Lock(referralID)
	defer unlock()

	ref, err := s.managedReferral(ctx, referralID, actorID)
	if err != nil {
		return model.Applicant{}, err
	}
	a, err := referral.SetApplicantStatus(ref, applicantID, status)
	if err != nil {
		return model.Applicant{}, err
	}
	if err := s.store.PutReferral(ctx, ref); err != nil {
		return model.Applicant{}, err
	}
	s.notify(ctx, applicantID, model.NotifyApplicantUpdated, "Application updated",
		fmt.Sprintf("Your application for %s at %s is now %s", ref.Role, ref.Company, status),
		map[string]any{"referralId": ref.ID, "status": status})
	return a, nil
}

// SetReferralStatus opens, closes or fills a referral.
func (s *Service) SetReferralStatus(ctx context.Context, referralID, actorID, status string) (*model.Referral, error) {
	unlock := s.locks.Lock(referralID)
	defer unlock()

	ref, err := s.managedReferral(ctx, referralID, actorID)
	if err != nil {
		return nil, err
	}
	if err := referral.SetStatus(ref, status); err != nil {
		return nil, err
	}
	if err := s.store.PutReferral(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}
