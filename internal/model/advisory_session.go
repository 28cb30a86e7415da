package model

import (
	"time"
)

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCancelled = "cancelled"
)

type AdvisorySession struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	CompanyID   int64     `gorm:"not null;index" json:"companyId"`
	Type        string    `gorm:"size:30;not null" json:"type"` // tax_planning, payroll_review, general
	Date        string    `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	Time        string    `gorm:"size:5;not null" json:"time"`  // HH:MM
	Duration    int       `gorm:"default:30" json:"duration"`   // 分钟
	Advisor     string    `gorm:"size:50" json:"advisor,omitempty"`
	MeetingLink string    `gorm:"size:500" json:"meetingLink,omitempty"`
	Status      string    `gorm:"size:20;default:scheduled" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (AdvisorySession) TableName() string {
	return "advisory_sessions"
}
