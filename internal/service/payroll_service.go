package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/pubsub"
	"github.com/tb0023/biz_go_server/internal/pkg/queue"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrPayrollNotEnabled    = errors.New("未开通薪资代发服务")
	ErrPaymentMethodMissing = errors.New("未绑定支付方式")
	ErrScheduleNotFound     = errors.New("发薪计划不存在")
)

// PayrollService 发薪执行与发薪计划
type PayrollService struct {
	db           *gorm.DB
	companyRepo  *repository.CompanyRepository
	subRepo      *repository.SubscriptionRepository
	employeeRepo *repository.EmployeeRepository
	billingRepo  *repository.BillingRepository
	scheduleRepo *repository.ScheduleRepository
	pmRepo       *repository.PaymentMethodRepository
	subService   *SubscriptionService
	services     *config.ServicesConfig
	queue        *queue.Queue
	publisher    *pubsub.Publisher
	now          func() time.Time
}

func NewPayrollService(
	db *gorm.DB,
	companyRepo *repository.CompanyRepository,
	subRepo *repository.SubscriptionRepository,
	employeeRepo *repository.EmployeeRepository,
	billingRepo *repository.BillingRepository,
	scheduleRepo *repository.ScheduleRepository,
	pmRepo *repository.PaymentMethodRepository,
	subService *SubscriptionService,
	services *config.ServicesConfig,
	q *queue.Queue,
	publisher *pubsub.Publisher,
) *PayrollService {
	return &PayrollService{
		db:           db,
		companyRepo:  companyRepo,
		subRepo:      subRepo,
		employeeRepo: employeeRepo,
		billingRepo:  billingRepo,
		scheduleRepo: scheduleRepo,
		pmRepo:       pmRepo,
		subService:   subService,
		services:     services,
		queue:        q,
		publisher:    publisher,
		now:          time.Now,
	}
}

// RunPayrollByEmail 按邮箱定位公司后执行发薪
func (s *PayrollService) RunPayrollByEmail(email, idempotencyKey string) (*dto.PayrollRunResult, error) {
	company, err := s.companyRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return s.RunPayroll(company.ID, idempotencyKey)
}

// RunPayroll 执行一次发薪：校验前置条件，算出总额和服务费，
// 记一条计费流水并顺延发薪计划。校验和写入在同一个事务里完成，
// 并通过订阅行的版本号抢占串行化，并发的两次发薪只会扣费一次。
func (s *PayrollService) RunPayroll(companyID int64, idempotencyKey string) (*dto.PayrollRunResult, error) {
	// 同一幂等键直接返回上次的结果，不再扣费
	if idempotencyKey != "" {
		existing, err := s.billingRepo.GetByIdempotencyKey(idempotencyKey)
		if err == nil {
			return resultFromRecord(existing), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var company *model.Company
	var record *model.BillingRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		company, err = s.companyRepo.WithTx(tx).GetByID(companyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompanyNotFound
			}
			return err
		}

		sub, err := s.subRepo.WithTx(tx).GetByCompany(companyID)
		if err != nil {
			// 没有订阅记录等同于所有服务未开通
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPayrollNotEnabled
			}
			return err
		}
		if !sub.PayrollEnabled {
			return ErrPayrollNotEnabled
		}

		hasCard, err := s.pmRepo.WithTx(tx).ExistsByCompany(companyID)
		if err != nil {
			return err
		}
		if !hasCard {
			return ErrPaymentMethodMissing
		}

		employees, err := s.employeeRepo.WithTx(tx).ListActive(companyID)
		if err != nil {
			return err
		}
		if len(employees) < s.services.MinTeamSize {
			return &InsufficientTeamSizeError{Current: len(employees), Required: s.services.MinTeamSize}
		}

		gross := decimal.Zero
		for _, e := range employees {
			gross = gross.Add(e.Salary)
		}
		feePercent := s.subService.FeePercent(sub)
		// 四舍五入到分（远离零方向）
		fee := gross.Mul(decimal.NewFromInt(int64(feePercent))).Div(decimal.NewFromInt(100)).Round(2)
		total := gross.Add(fee).Round(2)

		record = &model.BillingRecord{
			CompanyID:     companyID,
			Date:          s.now(),
			Description:   fmt.Sprintf("Payroll - %d employees (%d%% fee)", len(employees), feePercent),
			Amount:        total,
			Status:        model.BillingStatusPaid,
			GrossAmount:   gross,
			FeeAmount:     fee,
			FeePercent:    feePercent,
			EmployeeCount: len(employees),
		}
		if idempotencyKey != "" {
			record.IdempotencyKey = &idempotencyKey
		}

		if err := s.billingRepo.WithTx(tx).Create(record); err != nil {
			return err
		}
		if err := s.advanceSchedule(tx, companyID); err != nil {
			return err
		}

		// 版本号抢占：并发的另一次发薪在这里失败并整体回滚，不会重复扣费
		ok, err := s.subRepo.WithTx(tx).UpdateVersioned(sub)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyPayrollDone(company, record)

	return resultFromRecord(record), nil
}

// advanceSchedule 发薪成功后把下次发薪日按频率顺延
func (s *PayrollService) advanceSchedule(tx *gorm.DB, companyID int64) error {
	repo := s.scheduleRepo.WithTx(tx)
	schedule, err := repo.GetByCompany(companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	switch schedule.Frequency {
	case model.FrequencyWeekly:
		schedule.NextPayrollDate = schedule.NextPayrollDate.AddDate(0, 0, 7)
	case model.FrequencyBiweekly:
		schedule.NextPayrollDate = schedule.NextPayrollDate.AddDate(0, 0, 14)
	default:
		schedule.NextPayrollDate = schedule.NextPayrollDate.AddDate(0, 1, 0)
	}
	return repo.Update(schedule)
}

// notifyPayrollDone 投递回执邮件任务并广播计费事件，失败只记日志不影响发薪结果
func (s *PayrollService) notifyPayrollDone(company *model.Company, record *model.BillingRecord) {
	ctx := context.Background()
	if s.queue != nil {
		job := &queue.JobMessage{
			Type:            queue.JobTypePayrollReceipt,
			CompanyID:       company.ID,
			Email:           company.Email,
			BillingRecordID: record.ID,
			TotalCharged:    record.Amount,
			FeePercent:      record.FeePercent,
			EmployeeCount:   record.EmployeeCount,
		}
		if err := s.queue.Push(ctx, job); err != nil {
			log.Printf("推送发薪回执任务失败 company=%d: %v", company.ID, err)
		}
	}
	if s.publisher != nil {
		event := &pubsub.BillingEventMessage{
			Event:       pubsub.EventPayrollCompleted,
			CompanyID:   company.ID,
			Amount:      record.Amount,
			Description: record.Description,
		}
		if err := s.publisher.PublishBillingEvent(ctx, event); err != nil {
			log.Printf("广播计费事件失败 company=%d: %v", company.ID, err)
		}
	}
}

// GetSchedule 查询发薪计划，没有则按默认频率建一条
func (s *PayrollService) GetSchedule(companyID int64) (*model.PayrollSchedule, error) {
	schedule, err := s.scheduleRepo.GetByCompany(companyID)
	if err == nil {
		return schedule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	schedule = &model.PayrollSchedule{
		CompanyID:       companyID,
		Frequency:       model.FrequencyMonthly,
		NextPayrollDate: s.now().AddDate(0, 1, 0),
	}
	if err := s.scheduleRepo.Create(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// UpdateSchedule 修改发薪频率，下次发薪日按新频率从今天起算
func (s *PayrollService) UpdateSchedule(companyID int64, frequency string) (*model.PayrollSchedule, error) {
	schedule, err := s.GetSchedule(companyID)
	if err != nil {
		return nil, err
	}

	schedule.Frequency = frequency
	switch frequency {
	case model.FrequencyWeekly:
		schedule.NextPayrollDate = s.now().AddDate(0, 0, 7)
	case model.FrequencyBiweekly:
		schedule.NextPayrollDate = s.now().AddDate(0, 0, 14)
	default:
		schedule.NextPayrollDate = s.now().AddDate(0, 1, 0)
	}

	if err := s.scheduleRepo.Update(schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ListBilling 计费流水分页
func (s *PayrollService) ListBilling(companyID int64, page, pageSize int) ([]model.BillingRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.billingRepo.ListByCompany(companyID, page, pageSize)
}

func resultFromRecord(record *model.BillingRecord) *dto.PayrollRunResult {
	return &dto.PayrollRunResult{
		GrossTotal:    record.GrossAmount,
		Fee:           record.FeeAmount,
		TotalCharged:  record.Amount,
		FeePercent:    record.FeePercent,
		EmployeeCount: record.EmployeeCount,
	}
}
