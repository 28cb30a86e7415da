package repository

import (
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *BillingRepository) WithTx(tx *gorm.DB) *BillingRepository {
	return &BillingRepository{db: tx}
}

func (r *BillingRepository) Create(record *model.BillingRecord) error {
	return r.db.Create(record).Error
}

func (r *BillingRepository) GetByIdempotencyKey(key string) (*model.BillingRecord, error) {
	var record model.BillingRecord
	err := r.db.Where("idempotency_key = ?", key).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByCompany 按时间倒序分页
func (r *BillingRepository) ListByCompany(companyID int64, page, pageSize int) ([]model.BillingRecord, int64, error) {
	var total int64
	if err := r.db.Model(&model.BillingRecord{}).
		Where("company_id = ?", companyID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.BillingRecord
	err := r.db.Where("company_id = ?", companyID).
		Order("date DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}

func (r *BillingRepository) CountByCompany(companyID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.BillingRecord{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}
