package repository

import (
	"context"

	"riskctl/internal/domain/entity"
	"riskctl/internal/errors"
)

// ErrOrderNotFound is returned when no refund order matches the
// (app, order_no) key.
var ErrOrderNotFound = errors.New("refund order not found")

// RefundOrderRepository manages the append-mostly refund ledger.
type RefundOrderRepository interface {
	// FindByAppOrderNo returns the order for the unique (app, order_no)
	// key, or ErrOrderNotFound.
	FindByAppOrderNo(ctx context.Context, app, orderNo string) (*entity.RefundOrder, error)

	// Create inserts a new order and fills in its ID. Inserting a
	// duplicate (app, order_no) surfaces as a unique-constraint violation.
	Create(ctx context.Context, order *entity.RefundOrder) error

	// FindValidByOwner returns all valid orders of a risk user, newest
	// refund first.
	FindValidByOwner(ctx context.Context, riskUserID int64) ([]*entity.RefundOrder, error)

	// CountValidByOwner returns the number of valid orders of a risk user.
	CountValidByOwner(ctx context.Context, riskUserID int64) (int64, error)

	// Update persists a modified order (status transition).
	Update(ctx context.Context, order *entity.RefundOrder) error

	// ReassignOwner repoints every order owned by one of fromIDs to toID,
	// stamping updatedAt. Part of the merge.
	ReassignOwner(ctx context.Context, fromIDs []int64, toID int64, updatedAt int64) error
}
