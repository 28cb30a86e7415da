package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/tb0023/biz_go_server/internal/pkg/email"
	"github.com/tb0023/biz_go_server/internal/pkg/queue"
)

// Processor 计费任务处理器：消费队列里的发薪回执和发薪提醒任务
type Processor struct {
	emailSvc *email.Service
}

func NewProcessor(emailSvc *email.Service) *Processor {
	return &Processor{emailSvc: emailSvc}
}

// Process 处理单个任务
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	switch msg.Type {
	case queue.JobTypePayrollReceipt:
		return p.sendReceipt(msg)
	case queue.JobTypePayrollReminder:
		return p.sendReminder(msg)
	default:
		return fmt.Errorf("unknown job type: %s", msg.Type)
	}
}

func (p *Processor) sendReceipt(msg *queue.JobMessage) error {
	if msg.Email == "" {
		return fmt.Errorf("receipt job missing email, company=%d", msg.CompanyID)
	}
	if err := p.emailSvc.SendPayrollReceipt(msg.Email, msg.EmployeeCount, msg.FeePercent, msg.TotalCharged); err != nil {
		return fmt.Errorf("send receipt failed: %w", err)
	}
	log.Printf("发薪回执已发送 company=%d email=%s", msg.CompanyID, msg.Email)
	return nil
}

func (p *Processor) sendReminder(msg *queue.JobMessage) error {
	if msg.Email == "" {
		return fmt.Errorf("reminder job missing email, company=%d", msg.CompanyID)
	}
	if err := p.emailSvc.SendPayrollReminder(msg.Email, msg.NextPayrollDate); err != nil {
		return fmt.Errorf("send reminder failed: %w", err)
	}
	log.Printf("发薪提醒已发送 company=%d email=%s", msg.CompanyID, msg.Email)
	return nil
}
