package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

func TestUpdateVersionedDetectsConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	company := testutil.TestCompany(t, db)
	require.NoError(t, repo.Create(&model.Subscription{CompanyID: company.ID}))

	// 两个请求各自读到同一版本
	first, err := repo.GetByCompany(company.ID)
	require.NoError(t, err)
	second, err := repo.GetByCompany(company.ID)
	require.NoError(t, err)

	first.TaxEnabled = true
	ok, err := repo.UpdateVersioned(first)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, first.LockVersion)

	// 第二个请求带着过期版本写入，应该失败
	second.PayrollEnabled = true
	ok, err = repo.UpdateVersioned(second)
	require.NoError(t, err)
	assert.False(t, ok)

	// 数据库里保留的是第一次写入的结果
	got, err := repo.GetByCompany(company.ID)
	require.NoError(t, err)
	assert.True(t, got.TaxEnabled)
	assert.False(t, got.PayrollEnabled)
	assert.Equal(t, 1, got.LockVersion)
}

func TestBillingIdempotencyKeyUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewBillingRepository(db)
	company := testutil.TestCompany(t, db)

	key := "run-1"
	first := &model.BillingRecord{CompanyID: company.ID, Description: "Payroll - 5 employees (4% fee)", Amount: decimal.NewFromInt(100), IdempotencyKey: &key}
	require.NoError(t, repo.Create(first))

	// 相同幂等键的第二条插入被唯一索引拒绝
	dup := &model.BillingRecord{CompanyID: company.ID, Description: "Payroll - 5 employees (4% fee)", Amount: decimal.NewFromInt(100), IdempotencyKey: &key}
	assert.Error(t, repo.Create(dup))

	got, err := repo.GetByIdempotencyKey(key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	// 无幂等键的记录可以随意插入
	require.NoError(t, repo.Create(&model.BillingRecord{CompanyID: company.ID, Amount: decimal.NewFromInt(50)}))
	require.NoError(t, repo.Create(&model.BillingRecord{CompanyID: company.ID, Amount: decimal.NewFromInt(60)}))
}
