package model

import (
	"time"
)

// Account 公司登录账号，与 Company 一一对应
type Account struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	CompanyID     int64      `gorm:"not null;uniqueIndex" json:"companyId"`
	Email         string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  *string    `gorm:"size:255" json:"-"`
	GoogleID      *string    `gorm:"column:google_id;size:100;uniqueIndex" json:"-"`
	EmailVerified bool       `gorm:"default:false" json:"emailVerified"`
	OTPCode       *string    `gorm:"column:otp_code;size:10" json:"-"`
	OTPExpiresAt  *time.Time `gorm:"column:otp_expires_at" json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}
