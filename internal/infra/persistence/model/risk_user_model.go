// Package model contains the GORM-specific structs mirroring the risk
// control tables. Timestamps are stored as unix seconds (bigint), matching
// the wire contract of the reporting callers.
package model

// RiskUserModel mirrors the 't_risk_user' table. IDs come from the table's
// bigserial sequence; the merge tie-break relies on their ordering.
type RiskUserModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (RiskUserModel) TableName() string {
	return "t_risk_user"
}
