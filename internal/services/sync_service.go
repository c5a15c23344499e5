package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/logger"
	"finvue/internal/models"
	"finvue/internal/policy"
	syncport "finvue/internal/sync"
)

// syncService assembles a ledger snapshot and hands it to the configured
// pusher. The push reads state, delivers, and on success applies exactly one
// patch (the last-synced timestamp); a failed push leaves everything as it
// was.
type syncService struct {
	db       *gorm.DB
	settings SettingsServicer
	pusher   syncport.Pusher
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(db *gorm.DB, settings SettingsServicer, pusher syncport.Pusher) SyncServicer {
	return &syncService{db: db, settings: settings, pusher: pusher}
}

// Run pushes the full transaction list and the role-stripped user list to
// the configured endpoint. Global viewers only.
func (s *syncService) Run(ctx context.Context, actor *models.User) (*Settings, error) {
	if !policy.CanSync(actor.Role) {
		return nil, apperrors.ErrForbidden
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if settings.SheetURL == "" || s.pusher == nil {
		return nil, apperrors.ErrSyncNotConfigured
	}

	snap, err := s.buildSnapshot()
	if err != nil {
		return nil, err
	}

	if err := s.pusher.Push(ctx, settings.SheetURL, *snap); err != nil {
		logger.Get().Errorw("ledger push failed", "error", err, "endpoint", settings.SheetURL)
		return nil, apperrors.Wrap(apperrors.ErrSyncFailed, err)
	}

	if err := s.settings.SetLastSynced(time.Now().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return s.settings.Get()
}

func (s *syncService) buildSnapshot() (*syncport.Snapshot, error) {
	var transactions []models.Transaction
	if err := s.db.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]syncport.UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, syncport.UserRecord{ID: u.ID, Username: u.Username})
	}

	return &syncport.Snapshot{
		Transactions: transactions,
		Users:        records,
		Timestamp:    time.Now().Format(time.RFC3339),
	}, nil
}
