package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *PaymentMethodRepository) WithTx(tx *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: tx}
}

func (r *PaymentMethodRepository) GetByCompany(companyID int64) (*model.PaymentMethod, error) {
	var pm model.PaymentMethod
	err := r.db.Where("company_id = ?", companyID).First(&pm).Error
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

// ExistsByCompany 公司是否已绑卡
func (r *PaymentMethodRepository) ExistsByCompany(companyID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.PaymentMethod{}).Where("company_id = ?", companyID).Count(&count).Error
	return count > 0, err
}

// Upsert 每家公司至多一张卡，重复绑定视为换卡
func (r *PaymentMethodRepository) Upsert(pm *model.PaymentMethod) error {
	existing, err := r.GetByCompany(pm.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(pm).Error
		}
		return err
	}

	pm.ID = existing.ID
	pm.CreatedAt = existing.CreatedAt
	return r.db.Save(pm).Error
}
