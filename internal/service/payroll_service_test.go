package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/repository"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

func newTestPayrollService(db *gorm.DB) (*PayrollService, *SubscriptionService) {
	cfg := &config.ServicesConfig{MinTeamSize: 5, CommitmentMonths: 6}
	subSvc := NewSubscriptionService(
		db,
		repository.NewCompanyRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewEmployeeRepository(db),
		cfg,
		nil,
	)
	payrollSvc := NewPayrollService(
		db,
		repository.NewCompanyRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewBillingRepository(db),
		repository.NewScheduleRepository(db),
		repository.NewPaymentMethodRepository(db),
		subSvc,
		cfg,
		nil,
		nil,
	)
	return payrollSvc, subSvc
}

// 搭一家可以直接发薪的公司：5 名员工、薪资代发+税务申报、已绑卡
func setupPayrollCompany(t *testing.T, db *gorm.DB, salary float64) *model.Company {
	t.Helper()
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 5, salary)
	testutil.TestSubscription(t, db, company.ID, testutil.WithTiers(true, true, false))
	testutil.TestPaymentMethod(t, db, company.ID)
	return company
}

func TestRunPayrollComputesFee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 60000)

	result, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)

	assert.True(t, result.GrossTotal.Equal(decimal.NewFromInt(300000)), "gross = %s", result.GrossTotal)
	assert.Equal(t, 4, result.FeePercent)
	assert.True(t, result.Fee.Equal(decimal.NewFromInt(12000)), "fee = %s", result.Fee)
	assert.True(t, result.TotalCharged.Equal(decimal.NewFromInt(312000)), "total = %s", result.TotalCharged)
	assert.Equal(t, 5, result.EmployeeCount)

	var records []model.BillingRecord
	require.NoError(t, db.Where("company_id = ?", company.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "Payroll - 5 employees (4% fee)", records[0].Description)
	assert.Equal(t, model.BillingStatusPaid, records[0].Status)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(312000)), "amount = %s", records[0].Amount)
}

func TestRunPayrollRoundsFeeToCents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 33333.33)

	result, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)

	// 166666.65 * 4% = 6666.666 → 6666.67
	assert.True(t, result.GrossTotal.Equal(decimal.RequireFromString("166666.65")), "gross = %s", result.GrossTotal)
	assert.True(t, result.Fee.Equal(decimal.RequireFromString("6666.67")), "fee = %s", result.Fee)
	assert.True(t, result.TotalCharged.Equal(decimal.RequireFromString("173333.32")), "total = %s", result.TotalCharged)
}

func TestRunPayrollFeeIsExactAtCentBoundary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	// 5 × 20000.10 = 100000.50，三项全开费率 5%：
	// 100000.50 * 5% = 5000.025，恰好落在半分上，必须进位到 5000.03
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 5, 20000.10)
	testutil.TestSubscription(t, db, company.ID, testutil.WithTiers(true, true, true))
	testutil.TestPaymentMethod(t, db, company.ID)

	result, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)

	assert.Equal(t, 5, result.FeePercent)
	assert.True(t, result.GrossTotal.Equal(decimal.RequireFromString("100000.50")), "gross = %s", result.GrossTotal)
	assert.True(t, result.Fee.Equal(decimal.RequireFromString("5000.03")), "fee = %s", result.Fee)
	assert.True(t, result.TotalCharged.Equal(decimal.RequireFromString("105000.53")), "total = %s", result.TotalCharged)
}

func TestRunPayrollExcludesInactiveEmployees(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 50000)
	testutil.TestInactiveEmployee(t, db, company.ID, 99999)

	result, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)
	assert.True(t, result.GrossTotal.Equal(decimal.NewFromInt(250000)), "gross = %s", result.GrossTotal)
	assert.Equal(t, 5, result.EmployeeCount)
}

func TestRunPayrollCompanyNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)

	_, err := svc.RunPayrollByEmail("ghost@example.com", "")
	assert.ErrorIs(t, err, ErrCompanyNotFound)

	_, err = svc.RunPayroll(99999, "")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestRunPayrollNotEnabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	// 有人有卡，但没开薪资代发
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 5, 50000)
	testutil.TestPaymentMethod(t, db, company.ID)

	_, err := svc.RunPayroll(company.ID, "")
	assert.ErrorIs(t, err, ErrPayrollNotEnabled)
}

func TestRunPayrollPaymentMethodMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 5, 50000)
	testutil.TestSubscription(t, db, company.ID, testutil.WithTiers(true, false, false))

	_, err := svc.RunPayroll(company.ID, "")
	assert.ErrorIs(t, err, ErrPaymentMethodMissing)
}

func TestRunPayrollInsufficientTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	// 订阅是直接造的数据，人数检查要在发薪时兜底
	company := testutil.TestCompany(t, db)
	testutil.TestEmployees(t, db, company.ID, 3, 50000)
	testutil.TestSubscription(t, db, company.ID, testutil.WithTiers(true, false, false))
	testutil.TestPaymentMethod(t, db, company.ID)

	_, err := svc.RunPayroll(company.ID, "")

	var teamErr *InsufficientTeamSizeError
	require.True(t, errors.As(err, &teamErr))
	assert.Equal(t, 3, teamErr.Current)
	assert.Equal(t, 5, teamErr.Required)

	// 失败不留流水
	var count int64
	db.Model(&model.BillingRecord{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRunPayrollAdvancesSchedule(t *testing.T) {
	tests := []struct {
		frequency string
		advance   func(time.Time) time.Time
	}{
		{model.FrequencyWeekly, func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }},
		{model.FrequencyBiweekly, func(d time.Time) time.Time { return d.AddDate(0, 0, 14) }},
		{model.FrequencyMonthly, func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.CleanupTestDB(t, db)

			svc, _ := newTestPayrollService(db)
			company := setupPayrollCompany(t, db, 50000)
			next := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
			testutil.TestSchedule(t, db, company.ID, tt.frequency, next)

			_, err := svc.RunPayroll(company.ID, "")
			require.NoError(t, err)

			var schedule model.PayrollSchedule
			require.NoError(t, db.Where("company_id = ?", company.ID).First(&schedule).Error)
			assert.True(t, schedule.NextPayrollDate.Equal(tt.advance(next)),
				"expected %v, got %v", tt.advance(next), schedule.NextPayrollDate)
		})
	}
}

func TestRunPayrollWithoutScheduleSucceeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 50000)

	_, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)
}

func TestRunPayrollIdempotency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 60000)

	first, err := svc.RunPayroll(company.ID, "run-2026-09-01")
	require.NoError(t, err)

	// 重复提交同一幂等键：返回同样的结果，不再扣费
	second, err := svc.RunPayroll(company.ID, "run-2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	db.Model(&model.BillingRecord{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// 换一个键则是新的一次发薪
	_, err = svc.RunPayroll(company.ID, "run-2026-10-01")
	require.NoError(t, err)
	db.Model(&model.BillingRecord{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGetScheduleCreatesDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	company := testutil.TestCompany(t, db)

	schedule, err := svc.GetSchedule(company.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyMonthly, schedule.Frequency)
	assert.True(t, schedule.NextPayrollDate.Equal(now.AddDate(0, 1, 0)))

	again, err := svc.GetSchedule(company.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.ID, again.ID)
}

func TestUpdateScheduleResetsNextDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	company := testutil.TestCompany(t, db)
	testutil.TestSchedule(t, db, company.ID, model.FrequencyMonthly, now.AddDate(0, 1, 0))

	schedule, err := svc.UpdateSchedule(company.ID, model.FrequencyWeekly)
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyWeekly, schedule.Frequency)
	assert.True(t, schedule.NextPayrollDate.Equal(now.AddDate(0, 0, 7)))
}

func TestListBillingPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := testutil.TestCompany(t, db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		record := &model.BillingRecord{
			CompanyID:   company.ID,
			Date:        base.AddDate(0, 0, i),
			Description: fmt.Sprintf("Payroll - 5 employees (4%% fee) #%d", i),
			Amount:      decimal.NewFromInt(1000),
			Status:      model.BillingStatusPaid,
		}
		require.NoError(t, db.Create(record).Error)
	}

	records, total, err := svc.ListBilling(company.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, records, 10)
	// 按时间倒序
	assert.True(t, records[0].Date.After(records[9].Date))

	records, _, err = svc.ListBilling(company.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, records, 5)

	// 非法分页参数回落到默认值
	records, _, err = svc.ListBilling(company.ID, 0, -1)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestRunPayrollBumpsSubscriptionVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 50000)

	var before model.Subscription
	require.NoError(t, db.Where("company_id = ?", company.ID).First(&before).Error)

	_, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)

	// 每次发薪都抢占订阅行的版本号，并发的另一次会在这里冲突
	var after model.Subscription
	require.NoError(t, db.Where("company_id = ?", company.ID).First(&after).Error)
	assert.Equal(t, before.LockVersion+1, after.LockVersion)
}

func TestRunPayrollVersionConflictLeavesNoCharge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _ := newTestPayrollService(db)
	company := setupPayrollCompany(t, db, 50000)

	// 模拟两次并发发薪：双方读到同一个版本，后提交的一方版本号已过期
	var stale model.Subscription
	require.NoError(t, db.Where("company_id = ?", company.ID).First(&stale).Error)

	_, err := svc.RunPayroll(company.ID, "")
	require.NoError(t, err)

	subRepo := repository.NewSubscriptionRepository(db)
	err = db.Transaction(func(tx *gorm.DB) error {
		record := &model.BillingRecord{
			CompanyID:   company.ID,
			Date:        time.Now(),
			Description: "Payroll - 5 employees (4% fee)",
			Amount:      decimal.NewFromInt(260000),
			Status:      model.BillingStatusPaid,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		ok, err := subRepo.WithTx(tx).UpdateVersioned(&stale)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVersionConflict
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// 冲突的一方整体回滚，只留下第一次的流水
	var count int64
	db.Model(&model.BillingRecord{}).Where("company_id = ?", company.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
