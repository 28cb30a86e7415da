package dto

import (
	"github.com/tb0023/biz_go_server/internal/model"
)

// CompanyInfo 公司详情，附带规则引擎关心的在职人数
type CompanyInfo struct {
	*model.Company
	ActiveEmployees int `json:"activeEmployees"`
}

// UpdateCompanyRequest 更新公司资料，邮箱不可修改
type UpdateCompanyRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Industry string `json:"industry"`
}

// CreateEmployeeRequest 新增员工
type CreateEmployeeRequest struct {
	Name   string  `json:"name" binding:"required"`
	Email  string  `json:"email" binding:"omitempty,email"`
	Title  string  `json:"title"`
	Salary float64 `json:"salary" binding:"required,gt=0"`
	Status string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateEmployeeRequest 更新员工，指针字段缺省表示不修改
type UpdateEmployeeRequest struct {
	Name   *string  `json:"name"`
	Email  *string  `json:"email"`
	Title  *string  `json:"title"`
	Salary *float64 `json:"salary"`
	Status *string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ConnectCardRequest 绑定扣款卡
type ConnectCardRequest struct {
	Brand    string `json:"brand" binding:"required"`
	Last4    string `json:"last4" binding:"required,len=4"`
	ExpMonth int    `json:"expMonth" binding:"required,min=1,max=12"`
	ExpYear  int    `json:"expYear" binding:"required"`
}
