package model

// RiskIdentifierModel mirrors the 't_risk_identifier' table. The unique
// index over (type, value, app) is what turns concurrent first-writes of
// the same identifier into a detectable conflict.
type RiskIdentifierModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RiskUserID int64  `gorm:"not null;index"`
	App        string `gorm:"type:varchar(64);not null;uniqueIndex:uk_type_value_app,priority:3"`
	Type       string `gorm:"type:varchar(32);not null;uniqueIndex:uk_type_value_app,priority:1"`
	Value      string `gorm:"type:varchar(255);not null;uniqueIndex:uk_type_value_app,priority:2"`
	CreatedAt  int64  `gorm:"not null;autoCreateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (RiskIdentifierModel) TableName() string {
	return "t_risk_identifier"
}
