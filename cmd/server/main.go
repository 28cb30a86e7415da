package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/api"
	"github.com/tb0023/biz_go_server/internal/api/handler"
	"github.com/tb0023/biz_go_server/internal/database"
	"github.com/tb0023/biz_go_server/internal/pkg/cron"
	"github.com/tb0023/biz_go_server/internal/pkg/email"
	"github.com/tb0023/biz_go_server/internal/pkg/oauth"
	"github.com/tb0023/biz_go_server/internal/pkg/oss"
	"github.com/tb0023/biz_go_server/internal/pkg/pubsub"
	"github.com/tb0023/biz_go_server/internal/pkg/queue"
	"github.com/tb0023/biz_go_server/internal/pkg/ws"
	"github.com/tb0023/biz_go_server/internal/repository"
	"github.com/tb0023/biz_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.BillingQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub，并把计费事件推给在线公司
	wsHub := ws.NewHub()
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.BillingEventMessage) {
			wsHub.SendToCompany(event.CompanyID, &ws.Message{
				Type: event.Type,
				Data: event,
			})
		})
		if err != nil && err != context.Canceled {
			log.Printf("Billing event subscription stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Email 和 OAuth
	emailSvc := email.NewService(&cfg.Email)
	googleOAuth := oauth.NewGoogleOAuth(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURI)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化 Repository
	companyRepo := repository.NewCompanyRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	pmRepo := repository.NewPaymentMethodRepository(db)
	advisoryRepo := repository.NewAdvisoryRepository(db)
	docRepo := repository.NewTaxDocumentRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(db, companyRepo, accountRepo, emailSvc, googleOAuth, stateStore, &cfg.JWT)
	subService := service.NewSubscriptionService(db, companyRepo, subRepo, employeeRepo, &cfg.Services, publisher)
	payrollService := service.NewPayrollService(db, companyRepo, subRepo, employeeRepo, billingRepo, scheduleRepo, pmRepo, subService, &cfg.Services, jobQueue, publisher)
	advisoryService := service.NewAdvisoryService(companyRepo, advisoryRepo, employeeRepo, subService, &cfg.Services, publisher)
	companyService := service.NewCompanyService(companyRepo, employeeRepo, pmRepo)
	docService := service.NewDocumentService(docRepo, ossClient, subService, &cfg.Upload)

	// 初始化 Handler
	handlers := &api.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Subscription: handler.NewSubscriptionHandler(subService),
		Payroll:      handler.NewPayrollHandler(payrollService),
		Advisory:     handler.NewAdvisoryHandler(advisoryService),
		Company:      handler.NewCompanyHandler(companyService),
		Document:     handler.NewDocumentHandler(docService),
		Plan:         handler.NewPlanHandler(&cfg.Services),
		WebSocket:    handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret),
	}

	// 启动定时任务（发薪提醒 + 临时目录清理）
	cronService := cron.NewService(scheduleRepo, jobQueue, cfg.Upload.TempDir, cfg.Upload.ExpireHours)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	engine := api.NewRouter(cfg, handlers)

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
