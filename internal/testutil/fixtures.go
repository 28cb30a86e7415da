package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

// TestCompany 创建测试公司
func TestCompany(t *testing.T, db *gorm.DB, opts ...func(*model.Company)) *model.Company {
	t.Helper()

	company := &model.Company{
		Name:  fmt.Sprintf("Test Co %d", time.Now().UnixNano()%100000),
		Email: fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
	}

	for _, opt := range opts {
		opt(company)
	}

	if err := db.Create(company).Error; err != nil {
		t.Fatalf("Failed to create test company: %v", err)
	}

	return company
}

// WithCompanyEmail 设置公司邮箱
func WithCompanyEmail(email string) func(*model.Company) {
	return func(c *model.Company) {
		c.Email = email
	}
}

// WithCompanyName 设置公司名称
func WithCompanyName(name string) func(*model.Company) {
	return func(c *model.Company) {
		c.Name = name
	}
}

// TestEmployees 为公司批量创建在职员工，薪资相同
func TestEmployees(t *testing.T, db *gorm.DB, companyID int64, count int, salary float64) []model.Employee {
	t.Helper()

	employees := make([]model.Employee, 0, count)
	for i := 0; i < count; i++ {
		e := model.Employee{
			CompanyID: companyID,
			Name:      fmt.Sprintf("Employee %d", i+1),
			Salary:    decimal.NewFromFloat(salary),
			Status:    model.EmployeeStatusActive,
		}
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("Failed to create test employee: %v", err)
		}
		employees = append(employees, e)
	}
	return employees
}

// TestInactiveEmployee 创建离职员工
func TestInactiveEmployee(t *testing.T, db *gorm.DB, companyID int64, salary float64) *model.Employee {
	t.Helper()

	e := &model.Employee{
		CompanyID: companyID,
		Name:      fmt.Sprintf("Former Employee %d", time.Now().UnixNano()%10000),
		Salary:    decimal.NewFromFloat(salary),
		Status:    model.EmployeeStatusInactive,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("Failed to create inactive employee: %v", err)
	}
	return e
}

// TestSubscription 创建订阅记录
func TestSubscription(t *testing.T, db *gorm.DB, companyID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{CompanyID: companyID}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithTiers 设置三个服务开关
func WithTiers(payroll, tax, advisory bool) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.PayrollEnabled = payroll
		s.TaxEnabled = tax
		s.AdvisoryEnabled = advisory
	}
}

// WithCommitment 设置薪资代发开通日期和承诺期
func WithCommitment(start, end time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.StartDate = &start
		s.CommitmentEndDate = &end
	}
}

// TestPaymentMethod 为公司绑一张测试卡
func TestPaymentMethod(t *testing.T, db *gorm.DB, companyID int64) *model.PaymentMethod {
	t.Helper()

	pm := &model.PaymentMethod{
		CompanyID: companyID,
		Brand:     "visa",
		Last4:     "4242",
		ExpMonth:  12,
		ExpYear:   2030,
	}
	if err := db.Create(pm).Error; err != nil {
		t.Fatalf("Failed to create test payment method: %v", err)
	}
	return pm
}

// TestSchedule 创建发薪计划
func TestSchedule(t *testing.T, db *gorm.DB, companyID int64, frequency string, next time.Time) *model.PayrollSchedule {
	t.Helper()

	schedule := &model.PayrollSchedule{
		CompanyID:       companyID,
		Frequency:       frequency,
		NextPayrollDate: next,
	}
	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("Failed to create test schedule: %v", err)
	}
	return schedule
}

// TestSession 创建顾问预约
func TestSession(t *testing.T, db *gorm.DB, companyID int64, status string) *model.AdvisorySession {
	t.Helper()

	session := &model.AdvisorySession{
		CompanyID: companyID,
		Type:      "tax_planning",
		Date:      "2026-10-01",
		Time:      "14:00",
		Duration:  30,
		Status:    status,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}
