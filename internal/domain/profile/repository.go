package profile

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for user profiles.
type Repository interface {
	// FindByID retrieves a profile by user ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// List retrieves all profiles, newest first.
	List(ctx context.Context) ([]*Profile, error)

	// Save persists a new profile.
	Save(ctx context.Context, p *Profile) error

	// Update persists changes to an existing profile.
	Update(ctx context.Context, p *Profile) error

	// Delete removes a profile.
	Delete(ctx context.Context, id uuid.UUID) error
}
