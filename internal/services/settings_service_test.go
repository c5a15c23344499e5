package services

import (
	"testing"

	"finvue/internal/models"
	"finvue/internal/testutil"
)

func TestSettings(t *testing.T) {
	t.Run("empty_settings_on_fresh_install", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		s, err := svc.Get()
		testutil.AssertNoError(t, err)
		if s.CompanyName != "" || s.SheetURL != "" || s.LastSynced != "" {
			t.Errorf("expected empty settings, got %+v", s)
		}
	})

	t.Run("admin_updates_and_upserts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin)

		name := "FinVue Ltd"
		url := "https://example.com/sheet"
		s, err := svc.Update(admin, SettingsUpdateFields{CompanyName: &name, SheetURL: &url})
		testutil.AssertNoError(t, err)
		if s.CompanyName != name || s.SheetURL != url {
			t.Errorf("expected updated settings, got %+v", s)
		}

		renamed := "FinVue Corp"
		s, err = svc.Update(admin, SettingsUpdateFields{CompanyName: &renamed})
		testutil.AssertNoError(t, err)
		if s.CompanyName != renamed {
			t.Errorf("expected renamed company, got %q", s.CompanyName)
		}
		if s.SheetURL != url {
			t.Errorf("untouched fields must survive, got %q", s.SheetURL)
		}

		var count int64
		db.Model(&models.Setting{}).Where("key = ?", models.SettingCompanyName).Count(&count)
		if count != 1 {
			t.Errorf("updates must upsert, found %d company_name rows", count)
		}
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)
		manager := testutil.CreateTestUser(t, db, models.RoleManager)

		name := "FinVue Ltd"
		_, err := svc.Update(manager, SettingsUpdateFields{CompanyName: &name})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("set_last_synced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		testutil.AssertNoError(t, svc.SetLastSynced("2026-08-31T10:00:00Z"))

		s, err := svc.Get()
		testutil.AssertNoError(t, err)
		if s.LastSynced != "2026-08-31T10:00:00Z" {
			t.Errorf("expected last synced timestamp, got %q", s.LastSynced)
		}
	})
}
