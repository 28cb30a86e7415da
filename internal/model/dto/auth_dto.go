package dto

import (
	"github.com/tb0023/biz_go_server/internal/model"
)

// RegisterRequest 公司注册
type RegisterRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
	Industry    string `json:"industry"`
}

type RegisterResponse struct {
	CompanyID int64 `json:"companyId"`
	AccountID int64 `json:"accountId"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	Company *model.Company `json:"company"`
}

// VerifyOTPRequest 邮箱验证码校验
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}
