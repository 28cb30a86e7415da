package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *ScheduleRepository) WithTx(tx *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: tx}
}

func (r *ScheduleRepository) Create(schedule *model.PayrollSchedule) error {
	return r.db.Create(schedule).Error
}

func (r *ScheduleRepository) GetByCompany(companyID int64) (*model.PayrollSchedule, error) {
	var schedule model.PayrollSchedule
	err := r.db.Where("company_id = ?", companyID).First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepository) Update(schedule *model.PayrollSchedule) error {
	return r.db.Save(schedule).Error
}

// DueSchedule 即将到期的发薪计划及公司联系邮箱
type DueSchedule struct {
	model.PayrollSchedule
	Email string
}

// ListDueWithin 列出 before 之前到期的发薪计划（用于提醒任务）
func (r *ScheduleRepository) ListDueWithin(before time.Time) ([]DueSchedule, error) {
	var rows []DueSchedule
	err := r.db.Table("payroll_schedules").
		Select("payroll_schedules.*, companies.email").
		Joins("JOIN companies ON companies.id = payroll_schedules.company_id").
		Where("payroll_schedules.next_payroll_date <= ?", before).
		Scan(&rows).Error
	return rows, err
}
