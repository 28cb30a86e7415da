package cron

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb0023/biz_go_server/internal/pkg/queue"
	"github.com/tb0023/biz_go_server/internal/repository"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

func TestCleanupTempDirs(t *testing.T) {
	tempDir := t.TempDir()

	oldDir := filepath.Join(tempDir, "upload-old")
	freshDir := filepath.Join(tempDir, "upload-fresh")
	require.NoError(t, os.Mkdir(oldDir, 0755))
	require.NoError(t, os.Mkdir(freshDir, 0755))

	// 把一个目录的修改时间拨回两小时前
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldDir, past, past))

	svc := NewService(nil, nil, tempDir, 1)
	cleaned := svc.CleanupTempDirs()

	assert.Equal(t, 1, cleaned)
	_, err := os.Stat(oldDir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshDir)
	assert.NoError(t, err)
}

func TestCleanupTempDirsEmptyConfig(t *testing.T) {
	svc := NewService(nil, nil, "", 1)
	assert.Equal(t, 0, svc.CleanupTempDirs())
}

func TestScanDueSchedules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	jobQueue := queue.NewQueue(client, "billing_jobs_test")
	scheduleRepo := repository.NewScheduleRepository(db)

	// 两天后发薪：应当提醒；十天后发薪：不提醒
	soon := testutil.TestCompany(t, db, testutil.WithCompanyEmail("soon@example.com"))
	testutil.TestSchedule(t, db, soon.ID, "monthly", time.Now().AddDate(0, 0, 2))

	far := testutil.TestCompany(t, db, testutil.WithCompanyEmail("far@example.com"))
	testutil.TestSchedule(t, db, far.ID, "monthly", time.Now().AddDate(0, 0, 10))

	svc := NewService(scheduleRepo, jobQueue, "", 1)
	svc.scanDueSchedules()

	ctx := context.Background()
	length, err := jobQueue.Length(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), length)

	job, err := jobQueue.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, queue.JobTypePayrollReminder, job.Type)
	assert.Equal(t, soon.ID, job.CompanyID)
	assert.Equal(t, "soon@example.com", job.Email)
	assert.NotEmpty(t, job.NextPayrollDate)
}
