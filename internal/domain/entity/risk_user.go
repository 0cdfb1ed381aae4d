// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// RiskUser represents one real-world actor as currently understood by the
// system. It is an abstract subject: identifiers, per-app profiles and
// refund orders all hang off its ID. A risk user ceases to exist the moment
// it is merged into another one.
//
// IDs are assigned by the database sequence, so "numerically smallest ID"
// is a total, reproducible merge tie-break.
type RiskUser struct {
	ID        int64 // Sequence-assigned identity ID.
	CreatedAt int64 // Unix seconds.
	UpdatedAt int64 // Unix seconds.
}
