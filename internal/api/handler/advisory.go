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

type AdvisoryHandler struct {
	advisoryService *service.AdvisoryService
}

func NewAdvisoryHandler(advisoryService *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{advisoryService: advisoryService}
}

// Book 预约顾问
// POST /api/advisory
func (h *AdvisoryHandler) Book(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	session, err := h.advisoryService.BookByEmail(&req)
	if err != nil {
		var teamErr *service.InsufficientTeamSizeError
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrAdvisoryNotAvailable):
			response.BadRequest(c, err.Error())
		case errors.As(err, &teamErr):
			response.BadRequest(c, teamErr.Error(), response.ErrorBody{
				"currentTeamSize": teamErr.Current,
				"required":        teamErr.Required,
			})
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Created(c, session)
}

// List 公司的全部预约
// GET /api/advisory
func (h *AdvisoryHandler) List(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	sessions, err := h.advisoryService.List(companyID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.OK(c, sessions)
}

// Cancel 取消预约
// DELETE /api/advisory/:id
func (h *AdvisoryHandler) Cancel(c *gin.Context) {
	companyID, _ := middleware.GetCompanyID(c)

	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的预约 ID")
		return
	}

	if err := h.advisoryService.Cancel(companyID, sessionID); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrSessionForbidden):
			response.Fail(c, 403, err.Error())
		case errors.Is(err, service.ErrSessionCancelled):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OKMessage(c, "预约已取消")
}
