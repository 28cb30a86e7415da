package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/pubsub"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrAdvisoryNotAvailable = errors.New("当前订阅不包含顾问服务")
	ErrSessionNotFound      = errors.New("预约不存在")
	ErrSessionForbidden     = errors.New("无权操作该预约")
	ErrSessionCancelled     = errors.New("预约已取消")
)

// AdvisoryService 顾问预约
type AdvisoryService struct {
	companyRepo  *repository.CompanyRepository
	advisoryRepo *repository.AdvisoryRepository
	employeeRepo *repository.EmployeeRepository
	subService   *SubscriptionService
	services     *config.ServicesConfig
	publisher    *pubsub.Publisher
}

func NewAdvisoryService(
	companyRepo *repository.CompanyRepository,
	advisoryRepo *repository.AdvisoryRepository,
	employeeRepo *repository.EmployeeRepository,
	subService *SubscriptionService,
	services *config.ServicesConfig,
	publisher *pubsub.Publisher,
) *AdvisoryService {
	return &AdvisoryService{
		companyRepo:  companyRepo,
		advisoryRepo: advisoryRepo,
		employeeRepo: employeeRepo,
		subService:   subService,
		services:     services,
		publisher:    publisher,
	}
}

// BookByEmail 按邮箱定位公司后创建预约
func (s *AdvisoryService) BookByEmail(req *dto.CreateSessionRequest) (*model.AdvisorySession, error) {
	company, err := s.companyRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return s.Book(company.ID, req)
}

// Book 创建顾问预约。要求团队人数达标，且已开通税务申报或企业顾问服务。
func (s *AdvisoryService) Book(companyID int64, req *dto.CreateSessionRequest) (*model.AdvisorySession, error) {
	sub, err := s.subService.GetByCompany(companyID)
	if err != nil {
		return nil, err
	}
	if !sub.TaxEnabled && !sub.AdvisoryEnabled {
		return nil, ErrAdvisoryNotAvailable
	}

	count, err := s.employeeRepo.CountActive(companyID)
	if err != nil {
		return nil, err
	}
	if count < s.services.MinTeamSize {
		return nil, &InsufficientTeamSizeError{Current: count, Required: s.services.MinTeamSize}
	}

	session := &model.AdvisorySession{
		CompanyID:   companyID,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		Advisor:     req.Advisor,
		MeetingLink: req.MeetingLink,
		Status:      model.SessionStatusScheduled,
	}
	if session.Duration <= 0 {
		session.Duration = 30
	}
	if err := s.advisoryRepo.Create(session); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := &pubsub.BillingEventMessage{
			Event:       pubsub.EventSessionScheduled,
			CompanyID:   companyID,
			Description: session.Type,
		}
		if err := s.publisher.PublishBillingEvent(context.Background(), event); err != nil {
			log.Printf("广播预约事件失败 company=%d: %v", companyID, err)
		}
	}
	return session, nil
}

// List 公司名下全部预约
func (s *AdvisoryService) List(companyID int64) ([]model.AdvisorySession, error) {
	return s.advisoryRepo.ListByCompany(companyID)
}

// Cancel 取消预约，只能取消本公司且未取消的预约
func (s *AdvisoryService) Cancel(companyID, sessionID int64) error {
	session, err := s.advisoryRepo.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if session.CompanyID != companyID {
		return ErrSessionForbidden
	}
	if session.Status == model.SessionStatusCancelled {
		return ErrSessionCancelled
	}
	return s.advisoryRepo.UpdateStatus(sessionID, model.SessionStatusCancelled)
}
