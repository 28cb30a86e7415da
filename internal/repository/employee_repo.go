package repository

import (
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *EmployeeRepository) WithTx(tx *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: tx}
}

func (r *EmployeeRepository) Create(employee *model.Employee) error {
	return r.db.Create(employee).Error
}

func (r *EmployeeRepository) GetByID(id int64) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) ListByCompany(companyID int64) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("company_id = ?", companyID).Order("id").Find(&employees).Error
	return employees, err
}

// ListActive 列出在职员工（参与团队人数与发薪总额计算）
func (r *EmployeeRepository) ListActive(companyID int64) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Where("company_id = ? AND status = ?", companyID, model.EmployeeStatusActive).
		Order("id").Find(&employees).Error
	return employees, err
}

// CountActive 在职员工数
func (r *EmployeeRepository) CountActive(companyID int64) (int, error) {
	var count int64
	err := r.db.Model(&model.Employee{}).
		Where("company_id = ? AND status = ?", companyID, model.EmployeeStatusActive).
		Count(&count).Error
	return int(count), err
}

func (r *EmployeeRepository) Update(employee *model.Employee) error {
	return r.db.Save(employee).Error
}

func (r *EmployeeRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Employee{}).Where("id = ?", id).Updates(fields).Error
}
