package profileRepo

import (
	"context"

	"transylvania/models"
)

// ProfileRepository defines methods for profile data access.
type ProfileRepository interface {
	// GetByID retrieves a profile by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetByEmail retrieves a profile by email address.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// GetAll retrieves all profiles.
	GetAll(ctx context.Context) ([]models.Profile, error)
	// Create inserts a new profile record.
	Create(ctx context.Context, profile *models.Profile) error
	// Update replaces the mutable fields (username, password hash) of a profile.
	Update(ctx context.Context, profile *models.Profile) error
	// SetAdmin toggles the admin flag on a profile.
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	// Delete removes a profile record by its ID.
	Delete(ctx context.Context, id string) error
}
