// Package referral implements the referral board: posting openings,
// applying with a match score and ranking applicants.
package referral

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/scoring"
)

// Defaults for new referrals.
const (
	DefaultMaxApplicants = 10
	DefaultOpenFor       = 30 * 24 * time.Hour
)

// Draft carries the poster-supplied fields of a referral.
type Draft struct {
	Company         string    `json:"company"`
	Role            string    `json:"role"`
	Description     string    `json:"description"`
	RequiredSkills  []string  `json:"requiredSkills"`
	MinProfileScore int       `json:"minProfileScore"`
	MaxApplicants   int       `json:"maxApplicants"`
	Deadline        time.Time `json:"deadline"`
}

// New builds an open referral from d, filling defaults.
func New(id, postedBy string, d Draft, now time.Time) (model.Referral, error) {
	company := strings.TrimSpace(d.Company)
	role := strings.TrimSpace(d.Role)
	if company == "" || role == "" {
		return model.Referral{}, ErrInvalidReferral
	}
	r := model.Referral{
		ID:              id,
		PostedBy:        postedBy,
		Company:         company,
		Role:            role,
		Description:     d.Description,
		RequiredSkills:  trimAll(d.RequiredSkills),
		MinProfileScore: scoring.Clamp(d.MinProfileScore, 0, scoring.MaxScore),
		MaxApplicants:   d.MaxApplicants,
		Applicants:      []model.Applicant{},
		Status:          model.ReferralOpen,
		Deadline:        d.Deadline,
		CreatedAt:       now,
	}
	if r.MaxApplicants <= 0 {
		r.MaxApplicants = DefaultMaxApplicants
	}
	if r.Deadline.IsZero() {
		r.Deadline = now.Add(DefaultOpenFor)
	}
	return r, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsOpen reports whether ref accepts applications at now.
func IsOpen(ref *model.Referral, now time.Time) bool {
	if ref.Status != model.ReferralOpen {
		return false
	}
	return ref.Deadline.IsZero() || !now.After(ref.Deadline)
}

// Apply adds u to ref and re-ranks every applicant. The returned applicant
// carries its rank after re-ranking.
func Apply(ref *model.Referral, u *model.User, now time.Time) (model.Applicant, error) {
	if !IsOpen(ref, now) {
		return model.Applicant{}, ErrReferralClosed
	}
	if u.ProfileStrengthScore < ref.MinProfileScore {
		return model.Applicant{}, &ScoreDeficitError{Current: u.ProfileStrengthScore, Required: ref.MinProfileScore}
	}
	if _, ok := ref.Applicant(u.ID); ok {
		return model.Applicant{}, ErrDuplicateApplication
	}
	if ref.AppliedCount() >= ref.MaxApplicants {
		return model.Applicant{}, ErrCapacityExceeded
	}

	ref.Applicants = append(ref.Applicants, model.Applicant{
		UserID:     u.ID,
		MatchScore: scoring.ReferralMatch(u, ref.RequiredSkills),
		Status:     model.ApplicantApplied,
		AppliedAt:  now,
	})
	Rerank(ref)
	a, _ := ref.Applicant(u.ID)
	return a, nil
}

// Rerank orders applicants by descending match score and assigns ranks
// 1..N. Earlier applications win ties.
func Rerank(ref *model.Referral) {
	sort.SliceStable(ref.Applicants, func(i, j int) bool {
		return ref.Applicants[i].MatchScore > ref.Applicants[j].MatchScore
	})
	for i := range ref.Applicants {
		ref.Applicants[i].Rank = i + 1
	}
}

// SetApplicantStatus moves an applicant to applied, shortlisted or
// rejected.
func SetApplicantStatus(ref *model.Referral, userID, status string) (model.Applicant, error) {
	switch status {
	case model.ApplicantApplied, model.ApplicantShortlisted, model.ApplicantRejected:
	default:
		return model.Applicant{}, ErrInvalidStatus
	}
	for i := range ref.Applicants {
		if ref.Applicants[i].UserID != userID {
			continue
		}
		if status == model.ApplicantApplied && ref.Applicants[i].Status != model.ApplicantApplied &&
			ref.AppliedCount() >= ref.MaxApplicants {
			return model.Applicant{}, ErrCapacityExceeded
		}
		ref.Applicants[i].Status = status
		return ref.Applicants[i], nil
	}
	return model.Applicant{}, ErrApplicantNotFound
}

// SetStatus changes the board status of ref.
func SetStatus(ref *model.Referral, status string) error {
	switch status {
	case model.ReferralOpen, model.ReferralClosed, model.ReferralFilled:
		ref.Status = status
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Match is an open referral scored for one user.
type Match struct {
	Referral          model.Referral `json:"referral"`
	MatchScore        int            `json:"matchScore"`
	MeetsMinScore     bool           `json:"meetsMinScore"`
	HasApplied        bool           `json:"hasApplied"`
	ApplicationStatus string         `json:"applicationStatus,omitempty"`
	ApplicantCount    int            `json:"applicantCount"`
	Rank              int            `json:"rank"`
}

// Matches scores every open referral for u, best first.
func Matches(refs []model.Referral, u *model.User, now time.Time) []Match {
	out := make([]Match, 0, len(refs))
	for i := range refs {
		ref := &refs[i]
		if !IsOpen(ref, now) {
			continue
		}
		m := Match{
			Referral:       *ref,
			MatchScore:     scoring.ReferralMatch(u, ref.RequiredSkills),
			MeetsMinScore:  u.ProfileStrengthScore >= ref.MinProfileScore,
			ApplicantCount: ref.AppliedCount(),
		}
		if a, ok := ref.Applicant(u.ID); ok {
			m.HasApplied = true
			m.ApplicationStatus = a.Status
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
