package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finvue/internal/advisory"
	"finvue/internal/config"
	"finvue/internal/database"
	"finvue/internal/handlers"
	"finvue/internal/logger"
	"finvue/internal/middleware"
	"finvue/internal/services"
	syncport "finvue/internal/sync"
	"finvue/internal/sync/sheets"
	"finvue/internal/sync/webhook"
	"finvue/internal/validator"

	_ "finvue/internal/docs" // Import swagger docs
)

// @title           FinVue API
// @version         1.0
// @description     FinVue is a multi-role expense and revenue ledger with a verification workflow: employees and billing executives submit entries, managers verify them, and admins approve or reject them.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	summaryService := services.NewSummaryService(db)
	settingsService := services.NewSettingsService(db)
	auditService := services.NewAuditService(db)

	pusher, err := buildPusher(appConfig)
	if err != nil {
		return fmt.Errorf("failed to configure sheet pusher: %w", err)
	}
	syncService := services.NewSyncService(db, settingsService, pusher)

	// Seed the bootstrap admin on an empty user table
	if err := userService.EnsureBootstrapAdmin(appConfig.BootstrapUsername, appConfig.BootstrapPassword); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	syncHandler := handlers.NewSyncHandler(syncService, auditService)
	exportHandler := handlers.NewExportHandler(transactionService, auditService)
	insightsHandler := handlers.NewInsightsHandler(summaryService, advisory.NewRuleAdvisor())

	// Register custom binding validators
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	// Profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/avatar", authHandler.UploadAvatar)

	// User administration
	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/rejected", transactionHandler.ListRejected)
	transactions.GET("/export", exportHandler.ExportCSV)
	transactions.GET("/:id", transactionHandler.GetByID)
	transactions.PUT("/:id/status", transactionHandler.UpdateStatus)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Summary and insights
	protected.GET("/summary", summaryHandler.GetSummary)
	protected.GET("/insights/tips", insightsHandler.GetTips)

	// Category catalog
	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.Catalog)
	categories.GET("/:name/sub-categories", categoryHandler.SubCategories)

	// Settings and sync
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)
	protected.POST("/sync", syncHandler.Run)

	log.Infof("Starting FinVue backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// buildPusher selects the snapshot transport: the Google Sheets API when a
// spreadsheet ID is configured, a JSON webhook otherwise.
func buildPusher(appConfig *config.Config) (syncport.Pusher, error) {
	if appConfig.SpreadsheetID != "" {
		client, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			return nil, err
		}
		return fixedTargetPusher{client: client, spreadsheetID: appConfig.SpreadsheetID}, nil
	}
	return webhook.New(nil), nil
}

// fixedTargetPusher routes every push to the configured spreadsheet,
// regardless of the workspace sheet URL (which stays a display link).
type fixedTargetPusher struct {
	client        *sheets.Client
	spreadsheetID string
}

func (p fixedTargetPusher) Push(ctx context.Context, _ string, snap syncport.Snapshot) error {
	return p.client.Push(ctx, p.spreadsheetID, snap)
}
