package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/api/middleware"
	"github.com/tb0023/biz_go_server/internal/pkg/jwt"
	"github.com/tb0023/biz_go_server/internal/repository"
	"github.com/tb0023/biz_go_server/internal/service"
	"github.com/tb0023/biz_go_server/internal/testutil"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// setupTestEnv 在 SQLite 内存库上搭起完整的路由栈
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.ServicesConfig{MinTeamSize: 5, CommitmentMonths: 6}

	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	pmRepo := repository.NewPaymentMethodRepository(db)
	advisoryRepo := repository.NewAdvisoryRepository(db)

	subSvc := service.NewSubscriptionService(db, companyRepo, subRepo, employeeRepo, cfg, nil)
	payrollSvc := service.NewPayrollService(db, companyRepo, subRepo, employeeRepo, billingRepo, scheduleRepo, pmRepo, subSvc, cfg, nil, nil)
	advisorySvc := service.NewAdvisoryService(companyRepo, advisoryRepo, employeeRepo, subSvc, cfg, nil)
	companySvc := service.NewCompanyService(companyRepo, employeeRepo, pmRepo)

	subHandler := NewSubscriptionHandler(subSvc)
	payrollHandler := NewPayrollHandler(payrollSvc)
	advisoryHandler := NewAdvisoryHandler(advisorySvc)
	companyHandler := NewCompanyHandler(companySvc)

	r := gin.New()
	apiGroup := r.Group("/api")
	apiGroup.GET("/subscriptions", subHandler.Get)
	apiGroup.PUT("/subscriptions", subHandler.Update)
	apiGroup.POST("/payroll/run", payrollHandler.Run)
	apiGroup.POST("/advisory", advisoryHandler.Book)

	authed := apiGroup.Group("")
	authed.Use(middleware.Auth(testJWTSecret))
	authed.GET("/billing", payrollHandler.ListBilling)
	authed.GET("/employees", companyHandler.ListEmployees)
	authed.POST("/employees", companyHandler.AddEmployee)
	authed.DELETE("/advisory/:id", advisoryHandler.Cancel)

	return &testEnv{db: db, router: r}
}

// doJSON 发送 JSON 请求
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// authHeader 为指定公司签一个测试 Token
func authHeader(t *testing.T, companyID int64) map[string]string {
	t.Helper()
	token, err := jwt.GenerateToken(companyID, testJWTSecret, 1)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// parseResponse 解析 JSON 响应体
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return body
}
