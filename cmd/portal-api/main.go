package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/audit"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/auth"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/bom"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/catalog"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/companies"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/config"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/emissions"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/notifications"
	ws "carbon-ledger/supplier-portal/supplier-portal-backend/internal/notifications/websocket"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports/export"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/reports/scheduler"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/settings"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/sharing"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// The audit trail rides on gorm; everything else uses sqlx.
	gormDB, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}

	// Repositories and services
	authService := auth.NewService(auth.NewRepository(db), cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	companiesService := companies.NewService(companies.NewRepository(db))
	catalogService := catalog.NewService(catalog.NewRepository(db))
	auditService := audit.NewService(audit.NewRepository(gormDB), logger)

	wsManager := ws.NewManager(logger)
	defer wsManager.Close()
	notificationService := notifications.NewService(notifications.NewRepository(db), wsManager, logger)

	sharingService := sharing.NewService(sharing.NewRepository(db), companiesService, notificationService, logger)
	bomService := bom.NewService(bom.NewRepository(db), companiesService, sharingService, auditService)
	emissionService := emissions.NewService(emissions.NewRepository(db), companiesService, catalogService, auditService)

	settingsService := settings.NewService(settings.NewRepository(db))

	reportsRepo := reports.NewRepository(db)
	reportsService := reports.NewService(companiesService, bomService, emissionService)

	var scheduleRunner reports.ScheduleRunner
	if cfg.Reports.SchedulerEnabled {
		scheduleManager := scheduler.NewManager(reportsService, reportsRepo, cfg.Reports.OutputDir, logger)

		schedules, err := reportsRepo.ListAllSchedules(context.Background())
		if err != nil {
			logger.Fatal("Failed to load report schedules", zap.Error(err))
		}
		if err := scheduleManager.Start(schedules); err != nil {
			logger.Fatal("Failed to start report scheduler", zap.Error(err))
		}
		defer scheduleManager.Stop()
		scheduleRunner = scheduleManager
	}

	exporters := map[string]reports.Exporter{
		reports.FormatCSV:  export.NewCSVExporter(export.DefaultCSVOptions()),
		reports.FormatXLSX: export.NewExcelExporter(export.DefaultExcelOptions()),
		reports.FormatPDF:  export.NewPDFGenerator(export.DefaultPDFOptions()),
	}

	// Handlers
	authHandler := auth.NewHandler(authService)
	companiesHandler := companies.NewHandler(companiesService)
	catalogHandler := catalog.NewHandler(catalogService)
	sharingHandler := sharing.NewHandler(sharingService)
	bomHandler := bom.NewHandler(bomService)
	emissionsHandler := emissions.NewHandler(emissionService)
	auditHandler := audit.NewHandler(auditService)
	notificationsHandler := notifications.NewHandler(notificationService, wsManager)
	settingsHandler := settings.NewHandler(settingsService)
	reportsHandler := reports.NewHandler(reportsService, reportsRepo, scheduleRunner, exporters)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	authHandler.RegisterRoutes(router)

	api := router.Group("/api/v1")
	api.Use(auth.Middleware(authService))
	{
		authHandler.RegisterProtectedRoutes(api)
		companiesHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
		sharingHandler.RegisterRoutes(api)
		bomHandler.RegisterRoutes(api)
		emissionsHandler.RegisterRoutes(api)
		auditHandler.RegisterRoutes(api)
		notificationsHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		reportsHandler.RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":                "healthy",
			"timestamp":             time.Now(),
			"websocket_connections": wsManager.ConnectionCount(),
		})
	})

	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
