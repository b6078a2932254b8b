package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain"
)

// Profile holds the locally stored attributes of an authenticated user.
// The identity itself (credentials, sessions) lives with the external
// identity provider; the profile shares its ID.
type Profile struct {
	id        uuid.UUID
	email     string
	fullName  string
	isAdmin   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewProfile creates a profile for a user seen for the first time.
// New members are never admins; an existing admin promotes them later.
func NewProfile(id uuid.UUID, email, fullName string) (*Profile, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	now := time.Now().UTC()
	return &Profile{
		id:        id,
		email:     email,
		fullName:  fullName,
		isAdmin:   false,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Profile from persistence data (no validation).
func Reconstruct(id uuid.UUID, email, fullName string, isAdmin bool, createdAt, updatedAt time.Time) *Profile {
	return &Profile{
		id:        id,
		email:     email,
		fullName:  fullName,
		isAdmin:   isAdmin,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the profile's identifier, shared with the identity provider.
func (p *Profile) ID() uuid.UUID { return p.id }

// Email returns the user's email address.
func (p *Profile) Email() string { return p.email }

// FullName returns the user's display name.
func (p *Profile) FullName() string { return p.fullName }

// IsAdmin reports whether the user has administrator rights.
func (p *Profile) IsAdmin() bool { return p.isAdmin }

// CreatedAt returns the creation timestamp.
func (p *Profile) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Profile) UpdatedAt() time.Time { return p.updatedAt }

// SetFullName updates the display name.
func (p *Profile) SetFullName(name string) {
	p.fullName = name
	p.updatedAt = time.Now().UTC()
}

// SetAdmin grants or revokes administrator rights.
func (p *Profile) SetAdmin(isAdmin bool) {
	p.isAdmin = isAdmin
	p.updatedAt = time.Now().UTC()
}
