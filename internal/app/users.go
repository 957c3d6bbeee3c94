package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/logger"
)

// NewUser holds the fields accepted when registering a user.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Course   string `json:"course"`
	Batch    string `json:"batch"`
	Company  string `json:"company"`
	JobRole  string `json:"jobRole"`
	LinkedIn string `json:"linkedIn"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// BasicsUpdate changes the non-scored profile fields. Nil fields are kept.
type BasicsUpdate struct {
	Name       *string `json:"name"`
	Bio        *string `json:"bio"`
	ProfilePic *string `json:"profilePic"`
	Course     *string `json:"course"`
	Batch      *string `json:"batch"`
	Company    *string `json:"company"`
	JobRole    *string `json:"jobRole"`
	LinkedIn   *string `json:"linkedIn"`
	Location   *string `json:"location"`
}

func validRole(role string) bool {
	switch role {
	case model.RoleStudent, model.RoleAlumni, model.RoleAdmin:
		return true
	}
	return false
}

// CreateUser registers a user with the default credit balance.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = model.RoleStudent
	}
	if !validRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
	}

	now := s.now().UTC()
	u := &model.User{
		ID:             s.newID(),
		Name:           name,
		Email:          email,
		Role:           role,
		Bio:            in.Bio,
		Course:         in.Course,
		Batch:          in.Batch,
		Company:        in.Company,
		JobRole:        in.JobRole,
		LinkedIn:       in.LinkedIn,
		Location:       in.Location,
		Skills:         []string{},
		Projects:       []model.Project{},
		Internships:    []model.Internship{},
		Certifications: []model.Certification{},
		ScoreHistory:   []model.ScoreEntry{},
		Badges:         []model.Badge{},
		Connections:    []string{},
		Credits:        s.defaultCredits,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.recompute(u)
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.index(ctx, u)
	s.logger.Debug(ctx, "user created", logger.String("user_id", u.ID), logger.String("role", u.Role))
	return u, nil
}

// GetUser returns the stored user.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateBasics applies the non-nil fields of in.
func (s *Service) UpdateBasics(ctx context.Context, id string, in BasicsUpdate) (*model.User, error) {
	return s.mutateUser(ctx, id, func(u *model.User) error {
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		set(&u.Name, in.Name)
		set(&u.Bio, in.Bio)
		set(&u.ProfilePic, in.ProfilePic)
		set(&u.Course, in.Course)
		set(&u.Batch, in.Batch)
		set(&u.Company, in.Company)
		set(&u.JobRole, in.JobRole)
		set(&u.LinkedIn, in.LinkedIn)
		set(&u.Location, in.Location)
		s.recompute(u)
		return nil
	})
}

// Connect links two users both ways and tells the other side.
func (s *Service) Connect(ctx context.Context, userID, otherID string) (*model.User, error) {
	if userID == otherID {
		return nil, fmt.Errorf("%w: cannot connect to yourself", ErrInvalidInput)
	}
	unlock := s.locks.Lock(userID, otherID)
	defer unlock()

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.store.GetUser(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if u.IsConnected(otherID) {
		return nil, ErrAlreadyConnected
	}
	u.Connections = append(u.Connections, otherID)
	if !other.IsConnected(userID) {
		other.Connections = append(other.Connections, userID)
	}
	if err := s.saveUser(ctx, u); err != nil {
		return nil, err
	}
	if err := s.saveUser(ctx, other); err != nil {
		return nil, err
	}

	s.notify(ctx, otherID, model.NotifyConnection, "New connection",
		u.Name+" connected with you", map[string]any{"userId": userID})
	return u, nil
}
