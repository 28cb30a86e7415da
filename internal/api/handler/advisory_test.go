package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

func TestBookAdvisoryCreated(t *testing.T) {
	env := setupTestEnv(t)
	company := testutil.TestCompany(t, env.db, testutil.WithCompanyEmail("advice@example.com"))
	testutil.TestEmployees(t, env.db, company.ID, 5, 50000)
	testutil.TestSubscription(t, env.db, company.ID, testutil.WithTiers(false, true, false))

	w := env.doJSON(t, "POST", "/api/advisory", map[string]interface{}{
		"email": "advice@example.com",
		"type":  "tax_planning",
		"date":  "2026-10-01",
		"time":  "14:00",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := parseResponse(t, w)
	assert.Equal(t, "scheduled", body["status"])
	assert.Equal(t, "tax_planning", body["type"])
	assert.Equal(t, float64(30), body["duration"])
}

func TestBookAdvisoryWithoutEligibleTier(t *testing.T) {
	env := setupTestEnv(t)
	company := testutil.TestCompany(t, env.db, testutil.WithCompanyEmail("noadvice@example.com"))
	testutil.TestEmployees(t, env.db, company.ID, 5, 50000)

	w := env.doJSON(t, "POST", "/api/advisory", map[string]interface{}{
		"email": "noadvice@example.com",
		"type":  "general",
		"date":  "2026-10-01",
		"time":  "09:00",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAdvisoryOwnership(t *testing.T) {
	env := setupTestEnv(t)
	company := testutil.TestCompany(t, env.db)
	other := testutil.TestCompany(t, env.db)
	session := testutil.TestSession(t, env.db, company.ID, model.SessionStatusScheduled)

	// 别家公司的 Token 不能取消
	w := env.doJSON(t, "DELETE", fmt.Sprintf("/api/advisory/%d", session.ID), nil, authHeader(t, other.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, "DELETE", fmt.Sprintf("/api/advisory/%d", session.ID), nil, authHeader(t, company.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var got model.AdvisorySession
	require.NoError(t, env.db.First(&got, session.ID).Error)
	assert.Equal(t, model.SessionStatusCancelled, got.Status)
}

func TestAddEmployeeValidation(t *testing.T) {
	env := setupTestEnv(t)
	company := testutil.TestCompany(t, env.db)

	// 缺薪资
	w := env.doJSON(t, "POST", "/api/employees", map[string]interface{}{
		"name": "张三",
	}, authHeader(t, company.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, "POST", "/api/employees", map[string]interface{}{
		"name":   "张三",
		"salary": 80000,
	}, authHeader(t, company.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	body := parseResponse(t, w)
	assert.Equal(t, "active", body["status"])
}
