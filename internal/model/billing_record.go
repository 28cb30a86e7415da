package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额字段以 JSON 数字下发，前端按数字解析
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	BillingStatusPaid   = "paid"
	BillingStatusFailed = "failed"
)

// BillingRecord 计费流水，只增不删
type BillingRecord struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	CompanyID   int64           `gorm:"not null;index" json:"companyId"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;default:paid" json:"status"`
	// 幂等键：同一键的重复提交不会产生第二条流水
	IdempotencyKey *string `gorm:"size:100;uniqueIndex" json:"-"`
	// 发薪明细，幂等重放时用来还原当次结果
	GrossAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"-"`
	FeeAmount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"-"`
	FeePercent    int             `json:"-"`
	EmployeeCount int             `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (BillingRecord) TableName() string {
	return "billing_history"
}
