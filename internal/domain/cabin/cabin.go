package cabin

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain"
)

// Cabin is the aggregate root for a bookable cabin.
type Cabin struct {
	id          uuid.UUID
	name        string
	description string
	capacity    int
	nightlyFee  float64
	imageURL    string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewCabin creates a new Cabin aggregate.
func NewCabin(name, description string, capacity int, nightlyFee float64, imageURL string) (*Cabin, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("cabin name is required")
	}
	if capacity <= 0 {
		return nil, domain.NewValidationError("cabin capacity must be positive")
	}
	if nightlyFee < 0 {
		return nil, domain.NewValidationError("nightly fee cannot be negative")
	}

	now := time.Now().UTC()
	return &Cabin{
		id:          uuid.New(),
		name:        strings.TrimSpace(name),
		description: description,
		capacity:    capacity,
		nightlyFee:  nightlyFee,
		imageURL:    imageURL,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Cabin from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, description string,
	capacity int,
	nightlyFee float64,
	imageURL string,
	createdAt, updatedAt time.Time,
) *Cabin {
	return &Cabin{
		id:          id,
		name:        name,
		description: description,
		capacity:    capacity,
		nightlyFee:  nightlyFee,
		imageURL:    imageURL,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the cabin's unique identifier.
func (c *Cabin) ID() uuid.UUID { return c.id }

// Name returns the cabin's display name.
func (c *Cabin) Name() string { return c.name }

// Description returns the optional description text.
func (c *Cabin) Description() string { return c.description }

// Capacity returns the maximum number of simultaneous guests.
func (c *Cabin) Capacity() int { return c.capacity }

// NightlyFee returns the fee per night; 0 means the cabin is free.
func (c *Cabin) NightlyFee() float64 { return c.nightlyFee }

// ImageURL returns the optional image URL.
func (c *Cabin) ImageURL() string { return c.imageURL }

// CreatedAt returns the creation timestamp.
func (c *Cabin) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (c *Cabin) UpdatedAt() time.Time { return c.updatedAt }

// Update replaces the cabin's editable attributes.
func (c *Cabin) Update(name, description string, capacity int, nightlyFee float64, imageURL string) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationError("cabin name is required")
	}
	if capacity <= 0 {
		return domain.NewValidationError("cabin capacity must be positive")
	}
	if nightlyFee < 0 {
		return domain.NewValidationError("nightly fee cannot be negative")
	}

	c.name = strings.TrimSpace(name)
	c.description = description
	c.capacity = capacity
	c.nightlyFee = nightlyFee
	c.imageURL = imageURL
	c.updatedAt = time.Now().UTC()
	return nil
}
