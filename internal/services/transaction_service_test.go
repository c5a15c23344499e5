package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finvue/internal/models"
	"finvue/internal/testutil"
)

func newTransactionService(t *testing.T, db *gorm.DB) TransactionServicer {
	t.Helper()
	testutil.SeedDefaultCategories(t, db)
	return NewTransactionService(db, NewCategoryService(db))
}

func TestCreateTransaction(t *testing.T) {
	t.Run("income_is_approved_immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)

		tx, err := svc.Create(billing, CreateTransactionInput{
			Type:     models.TransactionTypeIncome,
			Amount:   decimal.RequireFromString("1500.00"),
			Category: "Agent Bill",
			Channel:  models.ChannelBank,
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		if tx.Status != models.StatusApproved {
			t.Errorf("expected APPROVED, got %s", tx.Status)
		}
		if tx.CreatedBy != billing.Username {
			t.Errorf("expected submitter snapshot %q, got %q", billing.Username, tx.CreatedBy)
		}
	})

	t.Run("admin_expense_is_approved_immediately", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		tx, err := svc.Create(admin, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("200.00"),
			Category: "Rent",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		if tx.Status != models.StatusApproved {
			t.Errorf("expected APPROVED, got %s", tx.Status)
		}
	})

	t.Run("non_admin_expense_starts_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)

		for _, role := range []models.UserRole{models.RoleManager, models.RoleBillingExecutive} {
			user := testutil.CreateTestUser(t, db, role)
			tx, err := svc.Create(user, CreateTransactionInput{
				Type:     models.TransactionTypeExpense,
				Amount:   decimal.RequireFromString("50.00"),
				Category: "Food",
				Channel:  models.ChannelCash,
				Date:     time.Now(),
			})
			testutil.AssertNoError(t, err)
			if tx.Status != models.StatusPending {
				t.Errorf("role %s: expected PENDING, got %s", role, tx.Status)
			}
		}
	})

	t.Run("employee_limited_to_conveyance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		employee := testutil.CreateTestUser(t, db, models.RoleEmployee)

		_, err := svc.Create(employee, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("50.00"),
			Category: "Food",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_ALLOWED")

		tx, err := svc.Create(employee, CreateTransactionInput{
			Type:        models.TransactionTypeExpense,
			Amount:      decimal.RequireFromString("30.00"),
			Category:    "Conveyance",
			SubCategory: "Bus",
			Channel:     models.ChannelCash,
			Date:        time.Now(),
		})
		testutil.AssertNoError(t, err)
		if tx.Status != models.StatusPending {
			t.Errorf("expected PENDING, got %s", tx.Status)
		}
	})

	t.Run("admin_only_category_rejected_for_billing_executive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)

		_, err := svc.Create(billing, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("10.00"),
			Category: "Family",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_ALLOWED")
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		_, err := svc.Create(admin, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("-5.00"),
			Category: "Food",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		_, err := svc.Create(admin, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("5.00"),
			Category: "NoSuchCategory",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("unknown_channel_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		_, err := svc.Create(admin, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("5.00"),
			Category: "Food",
			Channel:  models.PaymentChannel("Paypal"),
			Date:     time.Now(),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestTransitionTransaction(t *testing.T) {
	t.Run("manager_verifies_then_admin_approves", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		tx, err := svc.Create(billing, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("500.00"),
			Category: "Food",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)
		if tx.Status != models.StatusPending {
			t.Fatalf("expected PENDING, got %s", tx.Status)
		}

		verified, err := svc.Transition(manager, tx.ID, models.StatusVerified)
		testutil.AssertNoError(t, err)
		if verified.Status != models.StatusVerified {
			t.Fatalf("expected VERIFIED, got %s", verified.Status)
		}

		approved, err := svc.Transition(admin, tx.ID, models.StatusApproved)
		testutil.AssertNoError(t, err)
		if approved.Status != models.StatusApproved {
			t.Fatalf("expected APPROVED, got %s", approved.Status)
		}

		// Only the status changed across the whole lifecycle.
		final, err := svc.GetByID(admin, tx.ID)
		testutil.AssertNoError(t, err)
		if !final.Amount.Equal(tx.Amount) || final.Category != tx.Category || final.CreatedBy != tx.CreatedBy {
			t.Error("transition must not modify fields other than status")
		}
	})

	t.Run("manager_cannot_approve", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)

		tx, err := svc.Create(billing, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("10.00"),
			Category: "Food",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		_, err = svc.Transition(manager, tx.ID, models.StatusApproved)
		testutil.AssertAppError(t, err, "TRANSITION_NOT_ALLOWED")

		_, err = svc.Transition(manager, tx.ID, models.StatusVerified)
		testutil.AssertNoError(t, err)
		_, err = svc.Transition(manager, tx.ID, models.StatusApproved)
		testutil.AssertAppError(t, err, "TRANSITION_NOT_ALLOWED")
	})

	t.Run("admin_fast_tracks_pending_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		tx, err := svc.Create(billing, CreateTransactionInput{
			Type:     models.TransactionTypeExpense,
			Amount:   decimal.RequireFromString("10.00"),
			Category: "Food",
			Channel:  models.ChannelCash,
			Date:     time.Now(),
		})
		testutil.AssertNoError(t, err)

		approved, err := svc.Transition(admin, tx.ID, models.StatusApproved)
		testutil.AssertNoError(t, err)
		if approved.Status != models.StatusApproved {
			t.Errorf("expected APPROVED, got %s", approved.Status)
		}
	})

	t.Run("terminal_states_are_absorbing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)
		user := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)

		approved := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: user, Status: models.StatusApproved,
		})
		rejected := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: user, Status: models.StatusRejected,
		})

		for _, target := range []models.TransactionStatus{
			models.StatusPending, models.StatusVerified, models.StatusApproved, models.StatusRejected,
		} {
			if _, err := svc.Transition(admin, approved.ID, target); err == nil {
				t.Errorf("APPROVED -> %s should not be allowed", target)
			}
			if _, err := svc.Transition(manager, rejected.ID, target); err == nil {
				t.Errorf("REJECTED -> %s should not be allowed", target)
			}
		}
	})

	t.Run("unprivileged_roles_cannot_transition", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)
		employee := testutil.CreateTestUser(t, db, models.RoleEmployee)

		tx := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: billing, Status: models.StatusPending,
		})

		_, err := svc.Transition(billing, tx.ID, models.StatusVerified)
		testutil.AssertAppError(t, err, "TRANSITION_NOT_ALLOWED")
		_, err = svc.Transition(employee, tx.ID, models.StatusVerified)
		testutil.AssertAppError(t, err, "TRANSITION_NOT_ALLOWED")
	})

	t.Run("missing_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		_, err := svc.Transition(admin, "no-such-id", models.StatusApproved)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("visibility_scoping", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)
		employee := testutil.CreateTestUser(t, db, models.RoleEmployee)

		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: billing})
		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: employee, Category: "Conveyance"})

		for _, viewer := range []*models.User{admin, manager} {
			got, err := svc.List(viewer, TransactionFilter{})
			testutil.AssertNoError(t, err)
			if len(got) != 2 {
				t.Errorf("%s: expected 2 visible entries, got %d", viewer.Role, len(got))
			}
		}

		got, err := svc.List(billing, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(got) != 1 || got[0].UserID != billing.ID {
			t.Errorf("billing executive should see only own entries, got %d", len(got))
		}
	})

	t.Run("rejected_entries_excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		user := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)

		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: user, Status: models.StatusApproved})
		rejected := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: user, Status: models.StatusRejected})

		got, err := svc.List(admin, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}

		rejectedList, err := svc.ListRejected(admin)
		testutil.AssertNoError(t, err)
		if len(rejectedList) != 1 || rejectedList[0].ID != rejected.ID {
			t.Error("rejected view should hold exactly the rejected entry")
		}
	})

	t.Run("requisition_stays_visible_in_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Category: models.CategoryRequisition,
		})

		got, err := svc.List(admin, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(got) != 1 {
			t.Errorf("requisition entries belong in the ledger view, got %d entries", len(got))
		}
	})

	t.Run("search_is_case_insensitive_substring", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Category: "Rent", Note: "office rent for August",
		})
		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Category: "Food", Note: "Brenton catering",
		})
		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Category: "Food", Note: "groceries",
		})

		// "rent" matches the Rent category, the rent note, and "Brenton".
		got, err := svc.List(admin, TransactionFilter{Search: "rent"})
		testutil.AssertNoError(t, err)
		if len(got) != 2 {
			t.Errorf("expected 2 matches for %q, got %d", "rent", len(got))
		}
	})

	t.Run("conjunctive_filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		billing := testutil.CreateTestUser(t, db, models.RoleBillingExecutive)

		jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: billing, Category: "Food", Date: jan})
		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: billing, Category: "Rent", Date: mar})
		testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: admin, Category: "Food", Date: mar})

		category := "Food"
		from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		got, err := svc.List(admin, TransactionFilter{Category: &category, FromDate: &from, UserID: &admin.ID})
		testutil.AssertNoError(t, err)
		if len(got) != 1 {
			t.Errorf("expected exactly 1 entry matching all predicates, got %d", len(got))
		}
	})

	t.Run("ordered_by_date_descending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		old := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		recent := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{
			User: admin, Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		})

		got, err := svc.List(admin, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(got) != 2 || got[0].ID != recent.ID || got[1].ID != old.ID {
			t.Error("expected most recent date first")
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("admin_with_confirmation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		tx := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: admin})

		testutil.AssertNoError(t, svc.Delete(admin, tx.ID, true))

		_, err := svc.GetByID(admin, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("requires_confirmation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)
		tx := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: admin})

		testutil.AssertAppError(t, svc.Delete(admin, tx.ID, false), "DELETE_NOT_CONFIRMED")

		_, err := svc.GetByID(admin, tx.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTransactionService(t, db)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)
		tx := testutil.CreateTestTransaction(t, db, testutil.TransactionFixture{User: manager})

		testutil.AssertAppError(t, svc.Delete(manager, tx.ID, true), "FORBIDDEN")
	})
}
