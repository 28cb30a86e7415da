package repository

import (
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type TaxDocumentRepository struct {
	db *gorm.DB
}

func NewTaxDocumentRepository(db *gorm.DB) *TaxDocumentRepository {
	return &TaxDocumentRepository{db: db}
}

func (r *TaxDocumentRepository) Create(doc *model.TaxDocument) error {
	return r.db.Create(doc).Error
}

func (r *TaxDocumentRepository) ListByCompany(companyID int64) ([]model.TaxDocument, error) {
	var docs []model.TaxDocument
	err := r.db.Where("company_id = ?", companyID).Order("id DESC").Find(&docs).Error
	return docs, err
}
