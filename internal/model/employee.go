package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)

type Employee struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	CompanyID int64           `gorm:"not null;index" json:"companyId"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Email     string          `gorm:"size:100" json:"email,omitempty"`
	Title     string          `gorm:"size:50" json:"title,omitempty"`
	Status    string          `gorm:"size:20;default:active;index" json:"status"` // active, inactive
	Salary    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"salary"`  // 年薪
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}
