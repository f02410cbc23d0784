package router

import (
	"net/http"
	"time"

	"fieldpay/config"
	"fieldpay/internal/handler"
	"fieldpay/internal/middleware"
	"fieldpay/internal/repository"
	"fieldpay/internal/service"
	"fieldpay/internal/ws"
	"fieldpay/pkg/processor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers into the HTTP engine.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(300, time.Minute)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	processorTxRepo := repository.NewProcessorTxRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)
	processorConfigRepo := repository.NewProcessorConfigRepository(db)

	// Live view invalidation
	hub := ws.NewHub()
	notifier := ws.NewViewNotifier(hub)

	// Services
	locks := service.NewInvoiceLocks()
	trust := service.NewHistoryTrustEvaluator(cfg.Trust, paymentRepo)
	procRouter := service.NewRuleRouter(processorConfigRepo)
	procRouter.Register(&processor.StubAdapter{})
	if cfg.Stripe.SecretKey != "" {
		procRouter.Register(processor.NewStripeAdapter(cfg.Stripe.BaseURL, cfg.Stripe.SecretKey))
	}
	sequencer := service.NewPaymentSequencer(paymentRepo)
	recorder := service.NewTransactionRecorder(processorTxRepo)
	reconciler := service.NewReconciler(invoiceRepo, allocationRepo, notifier, locks)
	orchestrator := service.NewOrchestrator(
		invoiceRepo, paymentRepo, bankAccountRepo,
		trust, procRouter, sequencer, recorder, reconciler,
		notifier, locks,
	)
	paymentService := service.NewPaymentService(paymentRepo, notifier)
	authService := service.NewAuthService(cfg, userRepo, companyRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, allocationRepo)
	paymentHandler := handler.NewPaymentHandler(orchestrator, reconciler, paymentService, invoiceRepo, allocationRepo)
	financeHandler := handler.NewFinanceHandler(bankAccountRepo, processorConfigRepo, processorTxRepo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws/views", ws.UpgradeViewsWS(&cfg.JWT, hub))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		authMw := middleware.AuthRequired(&cfg.JWT)

		payLimiter := middleware.RateLimitByCompany(middleware.NewInMemoryRateLimiter(60, time.Minute))

		invoices := api.Group("/invoices", authMw)
		{
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.GET("/:id/payments", invoiceHandler.ListPayments)
			invoices.POST("/:id/pay", payLimiter, paymentHandler.Pay)
		}

		api.DELETE("/invoice-payments/:id", authMw, payLimiter, paymentHandler.Remove)

		payments := api.Group("/payments", authMw, payLimiter)
		{
			payments.POST("/:id/refund", paymentHandler.Refund)
			payments.POST("/:id/reconcile", paymentHandler.Reconcile)
		}

		finance := api.Group("/finance", authMw)
		{
			finance.POST("/bank-accounts", financeHandler.CreateBankAccount)
			finance.GET("/bank-accounts", financeHandler.ListBankAccounts)
			finance.POST("/processors", financeHandler.CreateProcessorConfig)
			finance.GET("/processors", financeHandler.ListProcessorConfigs)
			finance.GET("/transactions", financeHandler.ListTransactions)
		}
	}

	return r
}
