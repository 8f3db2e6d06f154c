package repository

import (
	"context"

	"github.com/AJVG007/gestor-tareas/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// TareaRepository defines the persistence boundary for task records. Every
// method takes the owner identity and narrows the result set before any
// existence check: the owner filter is the sole authorization mechanism, so
// a foreign task is indistinguishable from a missing one. No unfiltered
// lookup is exposed.
type TareaRepository interface {
	// Create inserts a new tarea and fills in its generated ID.
	Create(ctx context.Context, tarea *domain.Tarea) error

	// ListByOwner returns the owner's tareas in creation order. When
	// completed is non-nil the result is additionally filtered by
	// completion state.
	ListByOwner(ctx context.Context, ownerID string, completed *bool) ([]domain.Tarea, error)

	// GetByOwnerAndID retrieves a single tarea owned by ownerID.
	GetByOwnerAndID(ctx context.Context, ownerID string, id int64) (*domain.Tarea, error)

	// UpdateFields applies a partial update to a tarea owned by ownerID and
	// returns the updated record. Only the non-nil patch fields change.
	UpdateFields(ctx context.Context, ownerID string, id int64, patch domain.TareaPatch) (*domain.Tarea, error)

	// DeleteByOwnerAndID removes a tarea owned by ownerID.
	DeleteByOwnerAndID(ctx context.Context, ownerID string, id int64) error
}
