package repository

import (
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByCompany(companyID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("company_id = ?", companyID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateVersioned 带乐观锁的整行更新：仅当 lock_version 未被他人改动时生效。
// 返回 false 表示版本冲突，调用方应放弃或重试。
func (r *SubscriptionRepository) UpdateVersioned(sub *model.Subscription) (bool, error) {
	currentVersion := sub.LockVersion
	result := r.db.Model(&model.Subscription{}).
		Where("id = ? AND lock_version = ?", sub.ID, currentVersion).
		Updates(map[string]interface{}{
			"payroll_enabled":     sub.PayrollEnabled,
			"tax_enabled":         sub.TaxEnabled,
			"advisory_enabled":    sub.AdvisoryEnabled,
			"start_date":          sub.StartDate,
			"commitment_end_date": sub.CommitmentEndDate,
			"lock_version":        currentVersion + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	sub.LockVersion = currentVersion + 1
	return true, nil
}
