package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// 任务类型
const (
	JobTypePayrollReceipt  = "payroll_receipt"
	JobTypePayrollReminder = "payroll_reminder"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// JobMessage 计费相关的异步任务
type JobMessage struct {
	Type            string          `json:"type"`
	CompanyID       int64           `json:"company_id"`
	Email           string          `json:"email"`
	BillingRecordID int64           `json:"billing_record_id,omitempty"`
	TotalCharged    decimal.Decimal `json:"total_charged"`
	FeePercent      int             `json:"fee_percent,omitempty"`
	EmployeeCount   int             `json:"employee_count,omitempty"`
	NextPayrollDate string          `json:"next_payroll_date,omitempty"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push 将任务加入队列
func (q *Queue) Push(ctx context.Context, msg *JobMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取任务（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*JobMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg JobMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
