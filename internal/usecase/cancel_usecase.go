package usecase

import "context"

// CancelInput identifies the refund order to cancel.
type CancelInput struct {
	App     string
	OrderNo string
}

// CancelOutput returns the owning risk user's remaining valid refund count
// after the cancellation.
type CancelOutput struct {
	RemainingRefundCount int64 `json:"remaining_refund_count"`
}

// CancelUsecase flips a refund order to canceled, one way only. Canceling a
// missing or already-canceled order is a reported business-rule violation,
// not a silent no-op.
type CancelUsecase interface {
	Cancel(ctx context.Context, input *CancelInput) (*CancelOutput, error)
}
