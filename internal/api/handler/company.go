package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/api/middleware"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
	"github.com/tb0023/biz_go_server/internal/service"
)

type CompanyHandler struct {
	companyService *service.CompanyService
}

func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// GetInfo 公司资料
// GET /api/company
func (h *CompanyHandler) GetInfo(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	info, err := h.companyService.GetInfo(companyID)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.OK(c, info)
}

// UpdateProfile 更新公司资料
// PUT /api/company
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	company, err := h.companyService.UpdateProfile(companyID, req.Name, req.Phone, req.Industry)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.OK(c, company)
}

// ListEmployees 员工名册
// GET /api/employees
func (h *CompanyHandler) ListEmployees(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	employees, err := h.companyService.ListEmployees(companyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, employees)
}

// AddEmployee 新增员工
// POST /api/employees
func (h *CompanyHandler) AddEmployee(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	employee, err := h.companyService.AddEmployee(companyID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Created(c, employee)
}

// UpdateEmployee 更新员工信息
// PUT /api/employees/:id
func (h *CompanyHandler) UpdateEmployee(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	employeeID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的员工 ID")
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	employee, err := h.companyService.UpdateEmployee(companyID, employeeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrEmployeeForbidden):
			response.Fail(c, 403, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OK(c, employee)
}

// RemoveEmployee 员工离职
// DELETE /api/employees/:id
func (h *CompanyHandler) RemoveEmployee(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	employeeID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的员工 ID")
		return
	}

	if err := h.companyService.DeactivateEmployee(companyID, employeeID); err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrEmployeeForbidden):
			response.Fail(c, 403, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OKMessage(c, "员工已离职")
}

// GetPaymentMethod 查询绑定的支付方式
// GET /api/payment-method
func (h *CompanyHandler) GetPaymentMethod(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	pm, err := h.companyService.GetPaymentMethod(companyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	if pm == nil {
		response.NotFound(c, "未绑定支付方式")
		return
	}
	response.OK(c, pm)
}

// ConnectCard 绑定扣款卡
// POST /api/payment-method
func (h *CompanyHandler) ConnectCard(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	var req dto.ConnectCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	pm, err := h.companyService.ConnectCard(companyID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, pm)
}
