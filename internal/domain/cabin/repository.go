package cabin

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for cabin aggregates.
type Repository interface {
	// FindByID retrieves a cabin by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Cabin, error)

	// List retrieves all cabins ordered by name.
	List(ctx context.Context) ([]*Cabin, error)

	// Save persists a new cabin.
	Save(ctx context.Context, c *Cabin) error

	// Update persists changes to an existing cabin.
	Update(ctx context.Context, c *Cabin) error

	// Delete removes a cabin.
	Delete(ctx context.Context, id uuid.UUID) error
}
