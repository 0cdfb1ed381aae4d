package entity

import "github.com/shopspring/decimal"

// OrderStatus is the lifecycle state of a reported refund.
type OrderStatus int

const (
	OrderStatusValid    OrderStatus = 1
	OrderStatusCanceled OrderStatus = 2
)

// RefundOrder is one reported refund event. The (app, order_no) pair is
// globally unique and immutable once created; re-reporting it is a no-op
// that returns the existing owner. The only mutation after creation is the
// one-way valid -> canceled status transition.
type RefundOrder struct {
	ID             int64
	RiskUserID     int64 // Owning risk user; repointed on merge.
	App            string
	OrderNo        string
	RefundAmount   decimal.Decimal
	PaymentChannel string
	Status         OrderStatus
	RefundedAt     int64 // Unix seconds, supplied by the reporter.
	CanceledAt     int64 // Unix seconds, zero while valid.
	CreatedAt      int64
	UpdatedAt      int64
}

// IsCanceled reports whether the order has been canceled.
func (o *RefundOrder) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}

// IsValid reports whether the order still counts toward refund totals.
func (o *RefundOrder) IsValid() bool {
	return o.Status == OrderStatusValid
}

// Cancel transitions the order to canceled. It returns false if the order
// is already canceled; the transition is never reversed.
func (o *RefundOrder) Cancel(now int64) bool {
	if o.IsCanceled() {
		return false
	}

	o.Status = OrderStatusCanceled
	o.CanceledAt = now
	o.UpdatedAt = now

	return true
}
