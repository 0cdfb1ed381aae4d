// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"

	"riskctl/internal/domain/entity"
)

// RiskUserRepository manages the durable set of risk identity records.
// Creation and merge-deletion are exclusively driven by the resolution
// engine inside its transaction.
type RiskUserRepository interface {
	// Create inserts a new risk user and fills in its sequence-assigned ID.
	Create(ctx context.Context, user *entity.RiskUser) error

	// LockByIDs takes row-level locks on the given risk users so two
	// concurrent reports cannot merge the same identities in opposite
	// directions. IDs are locked in ascending order. If any id no longer
	// exists (deleted by a concurrent merge) it returns ErrConflict so the
	// caller re-resolves from scratch.
	LockByIDs(ctx context.Context, ids []int64) error

	// DeleteByIDs removes merged-away risk users after their dependents
	// have been repointed.
	DeleteByIDs(ctx context.Context, ids []int64) error
}
