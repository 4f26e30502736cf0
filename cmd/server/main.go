package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/crm/backend/internal/application/billing"
	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	salesapp "github.com/crm/backend/internal/application/sales"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Connect to database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Initialize repositories
	seqGen := persistence.NewGormSequenceGenerator(db.DB, cfg.Numbering.QuotePrefix)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB, seqGen)
	estimationRepo := persistence.NewGormEstimationRepository(db.DB, seqGen)
	challanRepo := persistence.NewGormDeliveryChallanRepository(db.DB, seqGen)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, seqGen)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Initialize application services
	clientService := partnerapp.NewClientService(clientRepo)
	leadService := salesapp.NewLeadService(leadRepo, estimationRepo, clientRepo)
	estimationService := salesapp.NewEstimationService(
		estimationRepo,
		leadRepo,
		clientRepo,
		invoiceRepo,
		decimal.NewFromFloat(cfg.Tax.DefaultGSTRate),
	)
	challanService := salesapp.NewChallanService(challanRepo, estimationRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo)
	reportService := reportapp.NewReportService(reportRepo, estimationRepo, invoiceRepo, reportapp.Profile{
		CompanyName:   cfg.Company.Name,
		Address:       cfg.Company.Address,
		GSTIN:         cfg.Company.GSTIN,
		Email:         cfg.Company.Email,
		Phone:         cfg.Company.Phone,
		HomeStateCode: cfg.Tax.HomeStateCode,
		DefaultTerms:  cfg.Documents.DefaultTerms,
		BankDetails:   cfg.Documents.BankDetails,
	})

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService)
	leadHandler := handler.NewLeadHandler(leadService)
	estimationHandler := handler.NewEstimationHandler(estimationService)
	challanHandler := handler.NewChallanHandler(challanService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner domain
	clientRoutes := router.NewDomainGroup("partner", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.POST("/:id/branches", clientHandler.AddBranch)

	// Sales domain
	leadRoutes := router.NewDomainGroup("leads", "/leads")
	leadRoutes.POST("", leadHandler.Create)
	leadRoutes.GET("", leadHandler.List)
	leadRoutes.GET("/:id", leadHandler.Get)
	leadRoutes.PUT("/:id", leadHandler.Update)

	estimationRoutes := router.NewDomainGroup("estimations", "/estimations")
	estimationRoutes.POST("", estimationHandler.Create)
	estimationRoutes.GET("", estimationHandler.List)
	estimationRoutes.GET("/:id", estimationHandler.Get)
	estimationRoutes.PUT("/:id", estimationHandler.Update)
	estimationRoutes.POST("/:id/approve", estimationHandler.Approve)
	estimationRoutes.POST("/:id/reject", estimationHandler.Reject)
	estimationRoutes.POST("/:id/lost", estimationHandler.MarkLost)
	estimationRoutes.POST("/:id/under-review", estimationHandler.MarkUnderReview)
	estimationRoutes.POST("/:id/follow-up", estimationHandler.ScheduleFollowUp)
	estimationRoutes.GET("/:id/challans", challanHandler.ListByEstimation)
	estimationRoutes.GET("/:id/remaining-quantities", challanHandler.RemainingQuantities)
	estimationRoutes.GET("/:id/document", reportHandler.QuotationDocument)

	challanRoutes := router.NewDomainGroup("challans", "/challans")
	challanRoutes.POST("", challanHandler.Create)
	challanRoutes.GET("/:id", challanHandler.Get)

	// Billing domain. Invoices are created through quotation approval.
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PUT("/:id", invoiceHandler.UpdateTerms)
	invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoiceRoutes.GET("/:id/payments", invoiceHandler.ListPayments)
	invoiceRoutes.GET("/:id/document", reportHandler.InvoiceDocument)

	// Reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)
	reportRoutes.GET("/pipeline", reportHandler.Pipeline)
	reportRoutes.GET("/overdue-invoices", reportHandler.OverdueInvoices)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(clientRoutes).
		Register(leadRoutes).
		Register(estimationRoutes).
		Register(challanRoutes).
		Register(invoiceRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports whether the database connection is alive
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
