package usecase

import "context"

// QueryInput carries the candidate identifier values for a risk lookup.
// At least one should be non-empty for a positive result.
type QueryInput struct {
	Phone              string
	PaymentAccount     string
	GoogleID           string
	FacebookBusinessID string
}

// AppRefundSummary aggregates the valid refunds of one app.
type AppRefundSummary struct {
	App          string `json:"app"`
	RefundCount  int64  `json:"refund_count"`
	RefundAmount string `json:"refund_amount"` // Two decimal places.
	AppUID       string `json:"app_uid"`
	Nickname     string `json:"nickname"`
}

// QueryOutput is the aggregated risk view for the matched risk user.
type QueryOutput struct {
	IsRisk            bool               `json:"is_risk"`
	RiskUserID        *int64             `json:"risk_user_id"`
	TotalRefundCount  int64              `json:"total_refund_count"`
	TotalRefundAmount string             `json:"total_refund_amount"` // Two decimal places.
	RefundSummary     []AppRefundSummary `json:"refund_summary"`
}

// QueryUsecase is the read path: find the owning risk user for any supplied
// identifier (first match wins, in the fixed type priority order) and
// aggregate its refund history.
type QueryUsecase interface {
	Query(ctx context.Context, input *QueryInput) (*QueryOutput, error)
}
