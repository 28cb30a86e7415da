package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/pubsub"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrCompanyNotFound = errors.New("公司不存在")
	ErrVersionConflict = errors.New("订阅已被其他请求修改，请重试")
)

// InsufficientTeamSizeError 团队人数不满足开通条件
type InsufficientTeamSizeError struct {
	Current  int
	Required int
}

func (e *InsufficientTeamSizeError) Error() string {
	return fmt.Sprintf("团队人数不足：当前 %d 人，至少需要 %d 人", e.Current, e.Required)
}

// CommitmentActiveError 薪资代发仍在承诺期内，不能关闭
type CommitmentActiveError struct {
	EndDate       time.Time
	DaysRemaining int
}

func (e *CommitmentActiveError) Error() string {
	return fmt.Sprintf("薪资代发服务在承诺期内，还剩 %d 天", e.DaysRemaining)
}

// SubscriptionService 订阅规则引擎：管理三类服务的开通与关闭
type SubscriptionService struct {
	db           *gorm.DB
	companyRepo  *repository.CompanyRepository
	subRepo      *repository.SubscriptionRepository
	employeeRepo *repository.EmployeeRepository
	services     *config.ServicesConfig
	publisher    *pubsub.Publisher
	now          func() time.Time
}

func NewSubscriptionService(
	db *gorm.DB,
	companyRepo *repository.CompanyRepository,
	subRepo *repository.SubscriptionRepository,
	employeeRepo *repository.EmployeeRepository,
	services *config.ServicesConfig,
	publisher *pubsub.Publisher,
) *SubscriptionService {
	return &SubscriptionService{
		db:           db,
		companyRepo:  companyRepo,
		subRepo:      subRepo,
		employeeRepo: employeeRepo,
		services:     services,
		publisher:    publisher,
		now:          time.Now,
	}
}

// GetByEmail 查询公司订阅，没有记录时自动建一条全关的
func (s *SubscriptionService) GetByEmail(email string) (*model.Subscription, error) {
	company, err := s.companyRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return s.getOrCreate(company.ID)
}

// GetByCompany 查询订阅，没有记录时自动建一条全关的
func (s *SubscriptionService) GetByCompany(companyID int64) (*model.Subscription, error) {
	return s.getOrCreate(companyID)
}

func (s *SubscriptionService) getOrCreate(companyID int64) (*model.Subscription, error) {
	sub, err := s.subRepo.GetByCompany(companyID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub = &model.Subscription{CompanyID: companyID}
	if err := s.subRepo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// SetTiersByEmail 按邮箱定位公司后更新订阅
func (s *SubscriptionService) SetTiersByEmail(email string, toggles dto.TierToggles) (*model.Subscription, error) {
	company, err := s.companyRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return s.SetTiers(company.ID, toggles)
}

// SetTiers 更新订阅开关。规则：
//   - 开通薪资代发或企业顾问要求在职员工数达到下限
//   - 薪资代发由关到开时记录开通日期并进入承诺期
//   - 承诺期内不允许关闭薪资代发
//   - 税务申报不受人数和承诺期限制
func (s *SubscriptionService) SetTiers(companyID int64, toggles dto.TierToggles) (*model.Subscription, error) {
	sub, err := s.getOrCreate(companyID)
	if err != nil {
		return nil, err
	}

	next := *sub
	if toggles.Payroll != nil {
		next.PayrollEnabled = *toggles.Payroll
	}
	if toggles.Tax != nil {
		next.TaxEnabled = *toggles.Tax
	}
	if toggles.Advisory != nil {
		next.AdvisoryEnabled = *toggles.Advisory
	}

	enablingPayroll := !sub.PayrollEnabled && next.PayrollEnabled
	enablingAdvisory := !sub.AdvisoryEnabled && next.AdvisoryEnabled
	disablingPayroll := sub.PayrollEnabled && !next.PayrollEnabled

	if enablingPayroll || enablingAdvisory {
		count, err := s.employeeRepo.CountActive(companyID)
		if err != nil {
			return nil, err
		}
		if count < s.services.MinTeamSize {
			return nil, &InsufficientTeamSizeError{Current: count, Required: s.services.MinTeamSize}
		}
	}

	now := s.now()
	if disablingPayroll && sub.CommitmentEndDate != nil && now.Before(*sub.CommitmentEndDate) {
		return nil, &CommitmentActiveError{
			EndDate:       *sub.CommitmentEndDate,
			DaysRemaining: daysUntil(now, *sub.CommitmentEndDate),
		}
	}

	if enablingPayroll {
		start := now
		end := start.AddDate(0, s.services.CommitmentMonths, 0)
		next.StartDate = &start
		next.CommitmentEndDate = &end
	}
	if disablingPayroll {
		next.StartDate = nil
		next.CommitmentEndDate = nil
	}

	ok, err := s.subRepo.UpdateVersioned(&next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVersionConflict
	}

	if s.publisher != nil {
		event := &pubsub.BillingEventMessage{
			Event:     pubsub.EventSubscriptionUpdated,
			CompanyID: companyID,
		}
		if err := s.publisher.PublishBillingEvent(context.Background(), event); err != nil {
			log.Printf("广播订阅变更事件失败 company=%d: %v", companyID, err)
		}
	}
	return &next, nil
}

// FeePercent 按开通的服务算出总费率
func (s *SubscriptionService) FeePercent(sub *model.Subscription) int {
	percent := 0
	if sub.PayrollEnabled {
		percent += s.services.FeePercentFor(model.TierPayroll)
	}
	if sub.TaxEnabled {
		percent += s.services.FeePercentFor(model.TierTax)
	}
	if sub.AdvisoryEnabled {
		percent += s.services.FeePercentFor(model.TierAdvisory)
	}
	return percent
}

// daysUntil 不足一天按一天算，用户看到的剩余天数只多不少
func daysUntil(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
