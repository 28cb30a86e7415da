package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/api/handler"
	"github.com/tb0023/biz_go_server/internal/api/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth         *handler.AuthHandler
	Subscription *handler.SubscriptionHandler
	Payroll      *handler.PayrollHandler
	Advisory     *handler.AdvisoryHandler
	Company      *handler.CompanyHandler
	Document     *handler.DocumentHandler
	Plan         *handler.PlanHandler
	WebSocket    *handler.WebSocketHandler
}

// NewRouter 组装路由
func NewRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		// 认证
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/verify-otp", h.Auth.VerifyOTP)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/google", h.Auth.GoogleAuth)
			auth.GET("/google/callback", h.Auth.GoogleCallback)
		}

		// 服务档位介绍
		apiGroup.GET("/plans", h.Plan.List)

		// 兼容旧前端的邮箱定位接口，不走登录态
		apiGroup.GET("/subscriptions", h.Subscription.Get)
		apiGroup.PUT("/subscriptions", h.Subscription.Update)
		apiGroup.POST("/payroll/run", h.Payroll.Run)
		apiGroup.POST("/advisory", h.Advisory.Book)

		// WebSocket 实时推送，token 走查询参数
		apiGroup.GET("/ws", h.WebSocket.Connect)

		// 登录态接口
		authed := apiGroup.Group("")
		authed.Use(middleware.Auth(cfg.JWT.Secret))
		{
			authed.GET("/company", h.Company.GetInfo)
			authed.PUT("/company", h.Company.UpdateProfile)

			authed.GET("/employees", h.Company.ListEmployees)
			authed.POST("/employees", h.Company.AddEmployee)
			authed.PUT("/employees/:id", h.Company.UpdateEmployee)
			authed.DELETE("/employees/:id", h.Company.RemoveEmployee)

			authed.GET("/payment-method", h.Company.GetPaymentMethod)
			authed.POST("/payment-method", h.Company.ConnectCard)

			authed.GET("/payroll/schedule", h.Payroll.GetSchedule)
			authed.PUT("/payroll/schedule", h.Payroll.UpdateSchedule)
			authed.GET("/billing", h.Payroll.ListBilling)

			authed.GET("/advisory", h.Advisory.List)
			authed.DELETE("/advisory/:id", h.Advisory.Cancel)

			authed.GET("/documents", h.Document.List)
			authed.POST("/documents", h.Document.Upload)
		}
	}

	return r
}
