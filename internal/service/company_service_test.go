package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/repository"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

func newTestCompanyService(db *gorm.DB) *CompanyService {
	return NewCompanyService(
		repository.NewCompanyRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewPaymentMethodRepository(db),
	)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestGetInfoCountsActiveEmployees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestCompanyService(db)
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 3, 50000)
	testutil.TestInactiveEmployee(t, db, company.ID, 50000)

	info, err := svc.GetInfo(company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.ID, info.ID)
	assert.Equal(t, 3, info.ActiveEmployees)
}

func TestAddEmployeeDefaultsToActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestCompanyService(db)
	company := testutil.TestCompany(t, db)

	employee, err := svc.AddEmployee(company.ID, &dto.CreateEmployeeRequest{
		Name:   "张三",
		Salary: 80000,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EmployeeStatusActive, employee.Status)
	assert.Equal(t, company.ID, employee.CompanyID)
}

func TestUpdateEmployeeCrossCompanyForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestCompanyService(db)
	company := testutil.TestCompany(t, db)
	other := testutil.TestCompany(t, db)
	employees := testutil.TestEmployees(t, db, company.ID, 1, 50000)

	_, err := svc.UpdateEmployee(other.ID, employees[0].ID, &dto.UpdateEmployeeRequest{
		Salary: floatPtr(90000),
	})
	assert.ErrorIs(t, err, ErrEmployeeForbidden)

	updated, err := svc.UpdateEmployee(company.ID, employees[0].ID, &dto.UpdateEmployeeRequest{
		Name:   strPtr("李四"),
		Salary: floatPtr(90000),
	})
	require.NoError(t, err)
	assert.Equal(t, "李四", updated.Name)
	assert.True(t, updated.Salary.Equal(decimal.NewFromInt(90000)), "salary = %s", updated.Salary)
}

func TestDeactivateEmployeeKeepsRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestCompanyService(db)
	company := testutil.TestCompany(t, db)
	employees := testutil.TestEmployees(t, db, company.ID, 1, 50000)

	require.NoError(t, svc.DeactivateEmployee(company.ID, employees[0].ID))

	var got model.Employee
	require.NoError(t, db.First(&got, employees[0].ID).Error)
	assert.Equal(t, model.EmployeeStatusInactive, got.Status)

	assert.ErrorIs(t, svc.DeactivateEmployee(company.ID, 99999), ErrEmployeeNotFound)
}

func TestConnectCardReplacesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newTestCompanyService(db)
	company := testutil.TestCompany(t, db)

	pm, err := svc.GetPaymentMethod(company.ID)
	require.NoError(t, err)
	assert.Nil(t, pm)

	first, err := svc.ConnectCard(company.ID, &dto.ConnectCardRequest{
		Brand: "visa", Last4: "4242", ExpMonth: 12, ExpYear: 2030,
	})
	require.NoError(t, err)

	// 换卡覆盖，不新增记录
	second, err := svc.ConnectCard(company.ID, &dto.ConnectCardRequest{
		Brand: "mastercard", Last4: "5555", ExpMonth: 6, ExpYear: 2031,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&model.PaymentMethod{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	pm, err = svc.GetPaymentMethod(company.ID)
	require.NoError(t, err)
	require.NotNil(t, pm)
	assert.Equal(t, "mastercard", pm.Brand)
	assert.Equal(t, "5555", pm.Last4)
}
