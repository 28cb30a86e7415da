package model

import (
	"time"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

type PayrollSchedule struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	CompanyID       int64     `gorm:"not null;uniqueIndex" json:"companyId"`
	Frequency       string    `gorm:"size:20;default:monthly" json:"frequency"` // weekly, biweekly, monthly
	NextPayrollDate time.Time `gorm:"not null" json:"nextPayrollDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (PayrollSchedule) TableName() string {
	return "payroll_schedules"
}
