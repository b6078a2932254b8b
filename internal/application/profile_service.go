package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
)

// UpdateUserCommand holds a partial profile edit. Nil fields are left
// unchanged.
type UpdateUserCommand struct {
	FullName *string
	IsAdmin  *bool
}

// UserDTO is the response representation of a user profile.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileService manages user profiles mirrored from the identity
// provider's tokens.
type ProfileService struct {
	profiles profileDomain.Repository
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles profileDomain.Repository, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// EnsureProfile returns the stored profile for an authenticated user,
// creating it on first sight. Called from the auth middleware on every
// request, so it must be idempotent and cheap on the common path.
func (s *ProfileService) EnsureProfile(ctx context.Context, id uuid.UUID, email, fullName string) (*profileDomain.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err == nil {
		return p, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	p, err = profileDomain.NewProfile(id, email, fullName)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("profile created on first login",
		zap.String("user_id", id.String()),
		zap.String("email", email))
	return p, nil
}

// Get retrieves a single profile.
func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(p), nil
}

// List retrieves all profiles (admin).
func (s *ProfileService) List(ctx context.Context) ([]UserDTO, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = *toUserDTO(p)
	}
	return dtos, nil
}

// Update applies a partial profile edit (admin). An admin must not change
// their own admin flag, so the last administrator cannot lock everyone out.
func (s *ProfileService) Update(ctx context.Context, actorID, userID uuid.UUID, cmd UpdateUserCommand) (*UserDTO, error) {
	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cmd.IsAdmin != nil {
		if actorID == userID && *cmd.IsAdmin != p.IsAdmin() {
			return nil, domain.NewForbiddenError("Cannot change your own admin status")
		}
		p.SetAdmin(*cmd.IsAdmin)
	}
	if cmd.FullName != nil {
		p.SetFullName(*cmd.FullName)
	}

	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return toUserDTO(p), nil
}

// Delete removes a profile (admin). Self-deletion is refused.
func (s *ProfileService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return domain.NewForbiddenError("Cannot delete yourself")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted",
		zap.String("user_id", userID.String()),
		zap.String("deleted_by", actorID.String()))
	return nil
}

func toUserDTO(p *profileDomain.Profile) *UserDTO {
	return &UserDTO{
		ID:        p.ID(),
		Email:     p.Email(),
		FullName:  p.FullName(),
		IsAdmin:   p.IsAdmin(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
