package model

import "github.com/shopspring/decimal"

// RefundOrderModel mirrors the 't_refund_order' table. The unique index on
// (app, order_no) backs report idempotency.
type RefundOrderModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	RiskUserID     int64           `gorm:"not null;index"`
	App            string          `gorm:"type:varchar(64);not null;uniqueIndex:uk_app_order_no,priority:1"`
	OrderNo        string          `gorm:"type:varchar(128);not null;uniqueIndex:uk_app_order_no,priority:2"`
	RefundAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentChannel string          `gorm:"type:varchar(64);not null;default:''"`
	Status         int             `gorm:"not null;default:1"`
	RefundedAt     int64           `gorm:"not null;default:0"`
	CanceledAt     int64           `gorm:"not null;default:0"`
	CreatedAt      int64           `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      int64           `gorm:"not null;autoUpdateTime:false"`
}

// TableName explicitly sets the table name for GORM.
func (RefundOrderModel) TableName() string {
	return "t_refund_order"
}
