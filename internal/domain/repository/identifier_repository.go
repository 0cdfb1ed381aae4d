package repository

import (
	"context"

	"riskctl/internal/domain/entity"
	"riskctl/internal/errors"
)

// ErrIdentifierNotFound is returned when no identifier row matches a lookup.
var ErrIdentifierNotFound = errors.New("identifier not found")

// IdentifierRepository manages the durable mapping from
// (type, value, app) to an owning risk user.
type IdentifierRepository interface {
	// FindOwner returns the risk user owning the identifier within the
	// given app, or ErrIdentifierNotFound.
	FindOwner(ctx context.Context, typ entity.IdentifierType, value, app string) (int64, error)

	// FindOwnerAnyApp returns the risk user owning the identifier in any
	// app, or ErrIdentifierNotFound. Used for cross-app linkage and for
	// unscoped query lookups.
	FindOwnerAnyApp(ctx context.Context, typ entity.IdentifierType, value string) (int64, error)

	// Upsert creates the (type, value, app) row pointing at
	// identifier.RiskUserID, or repoints an existing row that points
	// elsewhere. A concurrent insert of the same triple surfaces as a
	// unique-constraint violation and aborts the enclosing transaction.
	Upsert(ctx context.Context, identifier *entity.Identifier) error

	// ReassignOwner repoints every identifier owned by one of fromIDs to
	// toID. Part of the merge.
	ReassignOwner(ctx context.Context, fromIDs []int64, toID int64) error
}
