package model

import (
	"time"
)

// 服务档位标识
const (
	TierPayroll  = "payroll"
	TierTax      = "tax"
	TierAdvisory = "advisory"
)

// Subscription 每家公司至多一条，首次访问时懒创建（所有档位关闭）
type Subscription struct {
	ID                int64      `gorm:"primaryKey" json:"id"`
	CompanyID         int64      `gorm:"not null;uniqueIndex" json:"companyId"`
	PayrollEnabled    bool       `gorm:"default:false" json:"payrollEnabled"`
	TaxEnabled        bool       `gorm:"default:false" json:"taxEnabled"`
	AdvisoryEnabled   bool       `gorm:"default:false" json:"advisoryEnabled"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	CommitmentEndDate *time.Time `json:"commitmentEndDate,omitempty"`
	// 乐观锁版本号，防止同一公司的并发改写互相覆盖
	LockVersion int       `gorm:"default:0" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
