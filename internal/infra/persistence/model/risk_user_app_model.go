package model

// RiskUserAppModel mirrors the 't_risk_user_app' table: one row of observed
// attributes per (risk user, app) pair.
type RiskUserAppModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	RiskUserID       int64  `gorm:"not null;uniqueIndex:uk_user_app,priority:1"`
	App              string `gorm:"type:varchar(64);not null;uniqueIndex:uk_user_app,priority:2"`
	UID              string `gorm:"column:uid;type:varchar(64);not null;default:''"`
	Nickname         string `gorm:"type:varchar(255);not null;default:''"`
	RegisterTime     int64  `gorm:"not null;default:0"`
	RegisterIP       string `gorm:"column:register_ip;type:varchar(64);not null;default:''"`
	GoogleNickname   string `gorm:"type:varchar(255);not null;default:''"`
	FacebookNickname string `gorm:"type:varchar(255);not null;default:''"`
	LinkedAt         int64  `gorm:"not null;default:0"`
	CreatedAt        int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt        int64  `gorm:"not null;autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (RiskUserAppModel) TableName() string {
	return "t_risk_user_app"
}
