package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/api/middleware"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
	"github.com/tb0023/biz_go_server/internal/service"
)

type PayrollHandler struct {
	payrollService *service.PayrollService
}

func NewPayrollHandler(payrollService *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Run 执行一次发薪
// POST /api/payroll/run
func (h *PayrollHandler) Run(c *gin.Context) {
	var req dto.RunPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")
	result, err := h.payrollService.RunPayrollByEmail(req.Email, idempotencyKey)
	if err != nil {
		var teamErr *service.InsufficientTeamSizeError
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrPayrollNotEnabled):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrPaymentMethodMissing):
			response.BadRequest(c, err.Error())
		case errors.As(err, &teamErr):
			response.BadRequest(c, teamErr.Error(), response.ErrorBody{
				"currentTeamSize": teamErr.Current,
				"required":        teamErr.Required,
			})
		case errors.Is(err, service.ErrVersionConflict):
			response.Conflict(c, "发薪正在处理中，请稍后重试")
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OK(c, result)
}

// GetSchedule 查询发薪计划
// GET /api/payroll/schedule
func (h *PayrollHandler) GetSchedule(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	schedule, err := h.payrollService.GetSchedule(companyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, schedule)
}

// UpdateSchedule 修改发薪频率
// PUT /api/payroll/schedule
func (h *PayrollHandler) UpdateSchedule(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	schedule, err := h.payrollService.UpdateSchedule(companyID, req.Frequency)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, schedule)
}

// ListBilling 计费流水
// GET /api/billing?page=&pageSize=
func (h *PayrollHandler) ListBilling(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	records, total, err := h.payrollService.ListBilling(companyID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Page(c, total, page, pageSize, records)
}
