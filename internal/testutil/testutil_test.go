package testutil_test

import (
	"testing"

	"finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "transactions", "categories", "settings", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db, models.RoleManager)
	if user.ID == "" {
		t.Fatal("user should have a generated ID")
	}
	if user.Role != models.RoleManager {
		t.Errorf("expected manager role, got %s", user.Role)
	}

	category := testutil.CreateTestCategory(t, db, "Agent Bill", models.CategoryKindIncome)
	if category.Kind != models.CategoryKindIncome {
		t.Errorf("expected income category, got %s", category.Kind)
	}

	tx := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
		User:   user,
		Type:   models.TransactionTypeIncome,
		Amount: "1000.00",
	})
	if tx.Amount.String() != "1000" {
		t.Errorf("expected amount 1000, got %s", tx.Amount)
	}
	if tx.Status != models.StatusApproved {
		t.Errorf("expected default status APPROVED, got %s", tx.Status)
	}
	if tx.CreatedBy != user.Username {
		t.Errorf("expected submitter snapshot %q, got %q", user.Username, tx.CreatedBy)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrTransactionNotFound, "custom message")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
