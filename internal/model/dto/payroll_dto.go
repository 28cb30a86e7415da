package dto

import "github.com/shopspring/decimal"

// RunPayrollRequest POST /api/payroll/run 请求体
type RunPayrollRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PayrollRunResult 一次发薪的计费结果
type PayrollRunResult struct {
	GrossTotal    decimal.Decimal `json:"payrollAmount"`
	Fee           decimal.Decimal `json:"fee"`
	TotalCharged  decimal.Decimal `json:"totalCharged"`
	FeePercent    int             `json:"feePercent"`
	EmployeeCount int             `json:"employeeCount"`
}

// UpdateScheduleRequest PUT /api/payroll/schedule 请求体
type UpdateScheduleRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=weekly biweekly monthly"`
}
