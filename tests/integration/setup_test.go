package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finvue/internal/advisory"
	"finvue/internal/handlers"
	"finvue/internal/logger"
	"finvue/internal/middleware"
	"finvue/internal/models"
	"finvue/internal/services"
	"finvue/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Transaction{},
		&models.Category{},
		&models.Setting{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedCatalog inserts the category rows the creation flow depends on.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	rows := []models.Category{
		{Name: models.CategoryRequisition, Kind: models.CategoryKindDefault},
		{Name: "Conveyance", Kind: models.CategoryKindDefault},
		{Name: "Food", Kind: models.CategoryKindDefault},
		{Name: "Rent", Kind: models.CategoryKindDefault},
		{Name: "Family", Kind: models.CategoryKindAdmin},
		{Name: "Agent Bill", Kind: models.CategoryKindIncome},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed category %q: %v", rows[i].Name, err)
		}
	}
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	seedCatalog(t, db)

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, categoryService)
	summaryService := services.NewSummaryService(db)
	settingsService := services.NewSettingsService(db)
	auditService := services.NewAuditService(db)
	syncService := services.NewSyncService(db, settingsService, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, auditService)
	syncHandler := handlers.NewSyncHandler(syncService, auditService)
	exportHandler := handlers.NewExportHandler(transactionService, auditService)
	insightsHandler := handlers.NewInsightsHandler(summaryService, advisory.NewRuleAdvisor())

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/avatar", authHandler.UploadAvatar)

	users := protected.Group("/users")
	users.GET("", userHandler.ListUsers)
	users.POST("", userHandler.CreateUser)
	users.PUT("/:id", userHandler.UpdateUser)
	users.DELETE("/:id", userHandler.DeleteUser)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/rejected", transactionHandler.ListRejected)
	transactions.GET("/export", exportHandler.ExportCSV)
	transactions.GET("/:id", transactionHandler.GetByID)
	transactions.PUT("/:id/status", transactionHandler.UpdateStatus)
	transactions.DELETE("/:id", transactionHandler.Delete)

	protected.GET("/summary", summaryHandler.GetSummary)
	protected.GET("/insights/tips", insightsHandler.GetTips)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.Catalog)
	categories.GET("/:name/sub-categories", categoryHandler.SubCategories)

	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)
	protected.POST("/sync", syncHandler.Run)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createUser inserts a member directly and returns it. All test users share
// the same password.
func (app *testApp) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Username: username, Password: string(hash), Role: role}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// loginAs creates a user with the given role and returns a valid token.
func (app *testApp) loginAs(t *testing.T, username string, role models.UserRole) string {
	t.Helper()
	app.createUser(t, username, role)
	return app.loginUser(t, username, "password123")
}
