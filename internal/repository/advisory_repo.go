package repository

import (
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type AdvisoryRepository struct {
	db *gorm.DB
}

func NewAdvisoryRepository(db *gorm.DB) *AdvisoryRepository {
	return &AdvisoryRepository{db: db}
}

func (r *AdvisoryRepository) Create(session *model.AdvisorySession) error {
	return r.db.Create(session).Error
}

func (r *AdvisoryRepository) GetByID(id int64) (*model.AdvisorySession, error) {
	var session model.AdvisorySession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AdvisoryRepository) ListByCompany(companyID int64) ([]model.AdvisorySession, error) {
	var sessions []model.AdvisorySession
	err := r.db.Where("company_id = ?", companyID).
		Order("date DESC, time DESC").Find(&sessions).Error
	return sessions, err
}

func (r *AdvisoryRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.AdvisorySession{}).Where("id = ?", id).
		Update("status", status).Error
}
