package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/policy"
)

// settingsService persists organization settings as key/value rows.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// Get returns the current organization settings.
func (s *settingsService) Get() (*Settings, error) {
	var rows []models.Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := &Settings{}
	for _, row := range rows {
		switch row.Key {
		case models.SettingCompanyName:
			out.CompanyName = row.Value
		case models.SettingCompanyLogo:
			out.CompanyLogo = row.Value
		case models.SettingSheetURL:
			out.SheetURL = row.Value
		case models.SettingLastSynced:
			out.LastSynced = row.Value
		}
	}
	return out, nil
}

// Update changes organization settings. Admin only.
func (s *settingsService) Update(actor *models.User, fields SettingsUpdateFields) (*Settings, error) {
	if !policy.CanManageSettings(actor.Role) {
		return nil, apperrors.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if fields.CompanyName != nil {
			if err := upsertSetting(tx, models.SettingCompanyName, *fields.CompanyName); err != nil {
				return err
			}
		}
		if fields.CompanyLogo != nil {
			if err := upsertSetting(tx, models.SettingCompanyLogo, *fields.CompanyLogo); err != nil {
				return err
			}
		}
		if fields.SheetURL != nil {
			if err := upsertSetting(tx, models.SettingSheetURL, *fields.SheetURL); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.Get()
}

// SetLastSynced records the human-readable timestamp of the last successful
// remote push. Called only after the push succeeded.
func (s *settingsService) SetLastSynced(value string) error {
	if err := upsertSetting(s.db, models.SettingLastSynced, value); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	var row models.Setting
	err := tx.Where("key = ?", key).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&models.Setting{Key: key, Value: value}).Error
	case err != nil:
		return err
	}
	return tx.Model(&row).Update("value", value).Error
}
