package repository

import (
	"context"

	"riskctl/internal/domain/entity"
	"riskctl/internal/errors"
)

// ErrProfileNotFound is returned when no profile exists for a
// (risk user, app) pair.
var ErrProfileNotFound = errors.New("app profile not found")

// ProfileRepository manages the per-(risk user, app) observed attributes.
type ProfileRepository interface {
	// FindByOwnerAndApp returns the profile for the pair, or
	// ErrProfileNotFound.
	FindByOwnerAndApp(ctx context.Context, riskUserID int64, app string) (*entity.AppProfile, error)

	// FindByOwner returns all app profiles of a risk user.
	FindByOwner(ctx context.Context, riskUserID int64) ([]*entity.AppProfile, error)

	// Create inserts a new profile and fills in its ID.
	Create(ctx context.Context, profile *entity.AppProfile) error

	// Update persists a modified profile.
	Update(ctx context.Context, profile *entity.AppProfile) error

	// Delete removes one profile row. Used by the merge after a loser's
	// profile has been folded into the survivor's row for the same app.
	Delete(ctx context.Context, id int64) error

	// ReassignOwner repoints every profile owned by one of fromIDs to toID,
	// stamping updatedAt. Part of the merge. Callers must first resolve
	// (toID, app) collisions or the unique index rejects the repoint.
	ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error
}
