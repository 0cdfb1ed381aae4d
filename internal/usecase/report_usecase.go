// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "context"

// --- Input DTOs ---

// ReportInput defines one reported refund event. The caller-facing layer
// guarantees the required fields are present; the engine still defensively
// re-validates the numeric ones.
type ReportInput struct {
	App            string
	OrderNo        string
	RefundAmount   string // Decimal string, e.g. "10.00".
	RefundTime     int64  // Unix seconds.
	PaymentChannel string

	// Per-app profile observations.
	AppUID           string
	Nickname         string
	RegisterTime     int64
	RegisterIP       string
	GoogleNickname   string
	FacebookNickname string

	// Account identifiers; blank values are treated as absent.
	Phone              string
	PaymentAccount     string
	GoogleID           string
	FacebookBusinessID string
}

// --- Output DTOs ---

// ReportOutput returns the resolved risk user for the event.
type ReportOutput struct {
	RiskUserID int64 `json:"risk_user_id"`
}

// ReportUsecase is the resolution engine's contract: idempotently associate
// a refund event with exactly one risk user, merging previously separate
// users when the event links their identifiers.
type ReportUsecase interface {
	Report(ctx context.Context, input *ReportInput) (*ReportOutput, error)
}
