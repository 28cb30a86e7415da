package dto

// UpdateSubscriptionRequest PUT /api/subscriptions 请求体
// 三个档位均为可选，缺省表示保持现状
type UpdateSubscriptionRequest struct {
	Email           string `json:"email" binding:"required,email"`
	PayrollEnabled  *bool  `json:"payrollEnabled"`
	TaxEnabled      *bool  `json:"taxEnabled"`
	AdvisoryEnabled *bool  `json:"advisoryEnabled"`
}

// TierToggles 服务层使用的档位变更意图
type TierToggles struct {
	Payroll  *bool
	Tax      *bool
	Advisory *bool
}

func (r *UpdateSubscriptionRequest) Toggles() TierToggles {
	return TierToggles{
		Payroll:  r.PayrollEnabled,
		Tax:      r.TaxEnabled,
		Advisory: r.AdvisoryEnabled,
	}
}
