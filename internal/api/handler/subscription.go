package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
	"github.com/tb0023/biz_go_server/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Get 查询订阅状态
// GET /api/subscriptions?email=
func (h *SubscriptionHandler) Get(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "请提供公司邮箱")
		return
	}

	sub, err := h.subService.GetByEmail(email)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			response.NotFound(c, service.ErrCompanyNotFound.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.OK(c, sub)
}

// Update 更新服务开关
// PUT /api/subscriptions
func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sub, err := h.subService.SetTiersByEmail(req.Email, req.Toggles())
	if err != nil {
		var teamErr *service.InsufficientTeamSizeError
		var commitErr *service.CommitmentActiveError
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			response.NotFound(c, err.Error())
		case errors.As(err, &teamErr):
			response.BadRequest(c, teamErr.Error(), response.ErrorBody{
				"currentTeamSize": teamErr.Current,
				"required":        teamErr.Required,
			})
		case errors.As(err, &commitErr):
			response.BadRequest(c, commitErr.Error(), response.ErrorBody{
				"commitmentEndDate": commitErr.EndDate,
				"daysRemaining":     commitErr.DaysRemaining,
			})
		case errors.Is(err, service.ErrVersionConflict):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.OK(c, sub)
}
