package cron

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tb0023/biz_go_server/internal/pkg/queue"
	"github.com/tb0023/biz_go_server/internal/repository"
)

// 发薪日提前几天提醒
const reminderLeadDays = 3

type Service struct {
	scheduleRepo  *repository.ScheduleRepository
	jobQueue      *queue.Queue
	uploadTempDir string
	expireHours   int
	stopChan      chan struct{}
}

func NewService(
	scheduleRepo *repository.ScheduleRepository,
	jobQueue *queue.Queue,
	uploadTempDir string,
	expireHours int,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		jobQueue:      jobQueue,
		uploadTempDir: uploadTempDir,
		expireHours:   expireHours,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyReminderScan()
	go s.runCleanup()
	log.Println("Cron service started (payroll reminders + temp cleanup)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyReminderScan 每天零点扫描一次即将到期的发薪计划
func (s *Service) runDailyReminderScan() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.scanDueSchedules()
			timer.Reset(24 * time.Hour)
		}
	}
}

// scanDueSchedules 把临近发薪日的公司逐个投递提醒任务
func (s *Service) scanDueSchedules() {
	before := time.Now().AddDate(0, 0, reminderLeadDays)
	due, err := s.scheduleRepo.ListDueWithin(before)
	if err != nil {
		log.Printf("Reminder scan failed: %v", err)
		return
	}

	ctx := context.Background()
	pushed := 0
	for _, row := range due {
		job := &queue.JobMessage{
			Type:            queue.JobTypePayrollReminder,
			CompanyID:       row.CompanyID,
			Email:           row.Email,
			NextPayrollDate: row.NextPayrollDate.Format("2006-01-02"),
		}
		if err := s.jobQueue.Push(ctx, job); err != nil {
			log.Printf("Push reminder failed company=%d: %v", row.CompanyID, err)
			continue
		}
		pushed++
	}
	if pushed > 0 {
		log.Printf("Reminder scan: %d reminders queued", pushed)
	}
}

// runCleanup 每小时清理一次过期的上传临时目录
func (s *Service) runCleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.CleanupTempDirs()
		}
	}
}

// CleanupTempDirs 清理过期的上传临时目录，返回清理数量
func (s *Service) CleanupTempDirs() int {
	if s.uploadTempDir == "" {
		return 0
	}

	expireHours := s.expireHours
	if expireHours <= 0 {
		expireHours = 1
	}
	expireDuration := time.Duration(expireHours) * time.Hour

	entries, err := os.ReadDir(s.uploadTempDir)
	if err != nil {
		log.Printf("Cleanup: failed to read dir %s: %v", s.uploadTempDir, err)
		return 0
	}

	cleaned := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > expireDuration {
			dirPath := filepath.Join(s.uploadTempDir, entry.Name())
			if err := os.RemoveAll(dirPath); err != nil {
				log.Printf("Cleanup: failed to remove %s: %v", dirPath, err)
			} else {
				cleaned++
			}
		}
	}
	if cleaned > 0 {
		log.Printf("Cleanup: %d temp dirs removed", cleaned)
	}
	return cleaned
}
