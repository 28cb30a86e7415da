package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrEmployeeNotFound  = errors.New("员工不存在")
	ErrEmployeeForbidden = errors.New("无权操作该员工")
)

// CompanyService 公司资料、员工名册与支付方式
type CompanyService struct {
	companyRepo  *repository.CompanyRepository
	employeeRepo *repository.EmployeeRepository
	pmRepo       *repository.PaymentMethodRepository
}

func NewCompanyService(
	companyRepo *repository.CompanyRepository,
	employeeRepo *repository.EmployeeRepository,
	pmRepo *repository.PaymentMethodRepository,
) *CompanyService {
	return &CompanyService{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		pmRepo:       pmRepo,
	}
}

// GetInfo 公司资料及在职人数
func (s *CompanyService) GetInfo(companyID int64) (*dto.CompanyInfo, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	count, err := s.employeeRepo.CountActive(companyID)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyInfo{Company: company, ActiveEmployees: count}, nil
}

// UpdateProfile 更新公司资料，邮箱不允许改
func (s *CompanyService) UpdateProfile(companyID int64, name, phone, industry string) (*model.Company, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	if name != "" {
		company.Name = name
	}
	if phone != "" {
		company.Phone = phone
	}
	if industry != "" {
		company.Industry = industry
	}
	if err := s.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

// ListEmployees 员工名册
func (s *CompanyService) ListEmployees(companyID int64) ([]model.Employee, error) {
	return s.employeeRepo.ListByCompany(companyID)
}

// AddEmployee 新增员工，默认在职
func (s *CompanyService) AddEmployee(companyID int64, req *dto.CreateEmployeeRequest) (*model.Employee, error) {
	employee := &model.Employee{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Title:     req.Title,
		Salary:    decimal.NewFromFloat(req.Salary),
		Status:    req.Status,
	}
	if employee.Status == "" {
		employee.Status = model.EmployeeStatusActive
	}
	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployee 更新员工信息，只允许改本公司的员工
func (s *CompanyService) UpdateEmployee(companyID, employeeID int64, req *dto.UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if employee.CompanyID != companyID {
		return nil, ErrEmployeeForbidden
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Title != nil {
		employee.Title = *req.Title
	}
	if req.Salary != nil {
		employee.Salary = decimal.NewFromFloat(*req.Salary)
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}
	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// DeactivateEmployee 员工离职。保留记录不物理删除，历史流水还要对账。
func (s *CompanyService) DeactivateEmployee(companyID, employeeID int64) error {
	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	if employee.CompanyID != companyID {
		return ErrEmployeeForbidden
	}
	return s.employeeRepo.UpdateFields(employeeID, map[string]interface{}{
		"status": model.EmployeeStatusInactive,
	})
}

// GetPaymentMethod 查询绑定的支付方式
func (s *CompanyService) GetPaymentMethod(companyID int64) (*model.PaymentMethod, error) {
	pm, err := s.pmRepo.GetByCompany(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return pm, nil
}

// ConnectCard 绑卡，重复绑定覆盖旧卡
func (s *CompanyService) ConnectCard(companyID int64, req *dto.ConnectCardRequest) (*model.PaymentMethod, error) {
	pm := &model.PaymentMethod{
		CompanyID: companyID,
		Brand:     req.Brand,
		Last4:     req.Last4,
		ExpMonth:  req.ExpMonth,
		ExpYear:   req.ExpYear,
	}
	if err := s.pmRepo.Upsert(pm); err != nil {
		return nil, err
	}
	return pm, nil
}
