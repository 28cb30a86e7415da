package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueue_PushPop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "billing_jobs_test")
	ctx := context.Background()

	t.Run("push and pop receipt job", func(t *testing.T) {
		msg := &JobMessage{
			Type:            JobTypePayrollReceipt,
			CompanyID:       7,
			Email:           "finance@example.com",
			BillingRecordID: 42,
			TotalCharged:    decimal.NewFromInt(312000),
			FeePercent:      4,
			EmployeeCount:   5,
		}

		err := q.Push(ctx, msg)
		require.NoError(t, err)

		length, err := q.Length(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), length)

		result, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, JobTypePayrollReceipt, result.Type)
		assert.Equal(t, int64(7), result.CompanyID)
		assert.Equal(t, "finance@example.com", result.Email)
		assert.Equal(t, int64(42), result.BillingRecordID)
		assert.True(t, result.TotalCharged.Equal(decimal.NewFromInt(312000)), "total = %s", result.TotalCharged)
		assert.Equal(t, 4, result.FeePercent)
		assert.Equal(t, 5, result.EmployeeCount)
	})

	t.Run("fifo order", func(t *testing.T) {
		q2 := NewQueue(client, "billing_jobs_order")
		for i := int64(1); i <= 3; i++ {
			require.NoError(t, q2.Push(ctx, &JobMessage{Type: JobTypePayrollReminder, CompanyID: i}))
		}

		for i := int64(1); i <= 3; i++ {
			msg, err := q2.Pop(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, msg)
			assert.Equal(t, i, msg.CompanyID)
		}
	})
}

func TestQueue_PopTimeout(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "empty_queue")
	ctx := context.Background()

	// 空队列超时返回 nil 而不是错误
	msg, err := q.Pop(ctx, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
