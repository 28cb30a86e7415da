package model

import (
	"time"
)

// PaymentMethod 已绑定的扣款卡，每家公司至多一张
type PaymentMethod struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CompanyID int64     `gorm:"not null;uniqueIndex" json:"companyId"`
	Brand     string    `gorm:"size:20" json:"brand"`
	Last4     string    `gorm:"size:4" json:"last4"`
	ExpMonth  int       `json:"expMonth"`
	ExpYear   int       `json:"expYear"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
