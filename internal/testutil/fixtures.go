package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finvue/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user of the given role with a hashed password and
// a unique username.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	username := fmt.Sprintf("user%d", nextID())
	return CreateTestUserWithUsername(t, db, username, role)
}

// CreateTestUserWithUsername creates a user with the given username and role.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given kind.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, kind models.CategoryKind) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: name,
		Kind: kind,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// SeedDefaultCategories creates the stock catalog used by most tests:
// a couple of regular expense categories, the special Requisition audit
// category, the admin-only Family category, and an income category.
func SeedDefaultCategories(t *testing.T, db *gorm.DB) {
	t.Helper()

	CreateTestCategory(t, db, models.CategoryRequisition, models.CategoryKindDefault)
	CreateTestCategory(t, db, "Conveyance", models.CategoryKindDefault)
	CreateTestCategory(t, db, "Rent", models.CategoryKindDefault)
	CreateTestCategory(t, db, "Food", models.CategoryKindDefault)
	CreateTestCategory(t, db, "Family", models.CategoryKindAdmin)
	CreateTestCategory(t, db, "Agent Bill", models.CategoryKindIncome)
	CreateTestCategory(t, db, "Other Income", models.CategoryKindIncome)
}

// TransactionFixture describes an entry to insert directly, bypassing the
// lifecycle rules.
type TransactionFixture struct {
	User     *models.User
	Type     models.TransactionType
	Status   models.TransactionStatus
	Amount   string
	Category string
	Channel  models.PaymentChannel
	Date     time.Time
	Note     string
}

// CreateTestTransaction inserts a ledger entry with the given fields,
// defaulting anything left zero.
func CreateTestTransaction(t *testing.T, db *gorm.DB, fx TransactionFixture) *models.Transaction {
	t.Helper()

	if fx.User == nil {
		t.Fatal("transaction fixture requires a user")
	}
	if fx.Amount == "" {
		fx.Amount = "100.00"
	}
	if fx.Category == "" {
		fx.Category = "Food"
	}
	if fx.Channel == "" {
		fx.Channel = models.ChannelCash
	}
	if fx.Status == "" {
		fx.Status = models.StatusApproved
	}
	if fx.Type == "" {
		fx.Type = models.TransactionTypeExpense
	}
	if fx.Date.IsZero() {
		fx.Date = time.Now()
	}

	amount, err := decimal.NewFromString(fx.Amount)
	if err != nil {
		t.Fatalf("invalid fixture amount %q: %v", fx.Amount, err)
	}

	tx := &models.Transaction{
		UserID:    fx.User.ID,
		CreatedBy: fx.User.Username,
		Type:      fx.Type,
		Status:    fx.Status,
		Amount:    amount,
		Category:  fx.Category,
		Channel:   fx.Channel,
		Date:      fx.Date,
		Note:      fx.Note,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
