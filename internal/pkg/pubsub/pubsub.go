package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const (
	ChannelBillingEvents = "billing_events"
)

// 事件类型
const (
	EventPayrollCompleted    = "payroll_completed"
	EventSubscriptionUpdated = "subscription_updated"
	EventSessionScheduled    = "session_scheduled"
)

// BillingEventMessage 推送给前端的计费事件
type BillingEventMessage struct {
	Type        string          `json:"type"`
	CompanyID   int64           `json:"company_id"`
	Event       string          `json:"event"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishBillingEvent 发布计费事件
func (p *Publisher) PublishBillingEvent(ctx context.Context, msg *BillingEventMessage) error {
	msg.Type = "billing_event"
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal billing event: %w", err)
	}

	return p.client.Publish(ctx, ChannelBillingEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅计费事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*BillingEventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelBillingEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event BillingEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
