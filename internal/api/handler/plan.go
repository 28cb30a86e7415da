package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
)

type PlanHandler struct {
	services *config.ServicesConfig
}

func NewPlanHandler(services *config.ServicesConfig) *PlanHandler {
	return &PlanHandler{services: services}
}

// PlanInfo 服务档位介绍
type PlanInfo struct {
	Tier        string  `json:"tier"`
	DisplayName string  `json:"displayName"`
	FeePercent  int     `json:"feePercent"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// List 全部服务档位及费率
// GET /api/plans
func (h *PlanHandler) List(c *gin.Context) {
	tiers := []string{model.TierPayroll, model.TierTax, model.TierAdvisory}

	plans := make([]PlanInfo, 0, len(tiers))
	for _, tier := range tiers {
		info := PlanInfo{
			Tier:       tier,
			FeePercent: h.services.FeePercentFor(tier),
		}
		if t, ok := h.services.Tiers[tier]; ok {
			info.DisplayName = t.DisplayName
			info.Price = t.Price
			info.Description = t.Description
		}
		plans = append(plans, info)
	}
	response.OK(c, plans)
}
