package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/policy"
)

// transactionService implements the transaction lifecycle and ledger queries.
type transactionService struct {
	db         *gorm.DB
	categories CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categories CategoryServicer) TransactionServicer {
	return &transactionService{db: db, categories: categories}
}

// Create validates the submission, stamps the immutable submitter fields,
// computes the initial lifecycle status, and persists the entry.
func (s *transactionService) Create(actor *models.User, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if input.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if !validChannel(input.Channel) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown payment channel")
	}

	category, err := s.categories.GetByName(input.Category)
	if err != nil {
		return nil, err
	}
	if !policy.CategoryAllowed(actor.Role, input.Type, *category) {
		return nil, apperrors.ErrCategoryNotAllowed
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      actor.ID,
		CreatedBy:   actor.Username,
		Type:        input.Type,
		Status:      policy.InitialStatus(input.Type, actor.Role),
		Amount:      input.Amount,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		Channel:     input.Channel,
		Date:        date,
		Note:        input.Note,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetByID retrieves one transaction within the actor's visibility scope.
func (s *transactionService) GetByID(actor *models.User, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	q := s.db.Where("id = ?", id)
	q = scopeToActor(q, actor)
	if err := q.First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// List returns the full matching ledger view: visibility-scoped, rejected
// entries excluded, conjunctive filters applied, most recent date first.
func (s *transactionService) List(actor *models.User, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).Where("status <> ?", models.StatusRejected)
	q = scopeToActor(q, actor)
	q = applyFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// ListRejected returns only rejected entries under the same visibility scope.
func (s *transactionService) ListRejected(actor *models.User) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).Where("status = ?", models.StatusRejected)
	q = scopeToActor(q, actor)

	var transactions []models.Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Transition moves one transaction to the target status. The permission is
// re-checked against the live row inside the database transaction, not a
// caller-held snapshot, so a stale view can never authorize a change. On
// success only the status column changes.
func (s *transactionService) Transition(actor *models.User, id string, target models.TransactionStatus) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !policy.CanTransition(actor.Role, t.Type, t.Status, target) {
			return apperrors.ErrTransitionNotAllowed
		}

		if err := tx.Model(&t).Update("status", target).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete permanently removes a transaction regardless of status. Admin only,
// and the caller must have passed an explicit confirmation step.
func (s *transactionService) Delete(actor *models.User, id string, confirmed bool) error {
	if !policy.CanDeleteTransaction(actor.Role) {
		return apperrors.ErrForbidden
	}
	if !confirmed {
		return apperrors.ErrDeleteNotConfirmed
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&t).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// scopeToActor narrows a query to the actor's visibility: global viewers see
// everything, everyone else only their own submissions.
func scopeToActor(q *gorm.DB, actor *models.User) *gorm.DB {
	if policy.IsGlobalViewer(actor.Role) {
		return q
	}
	return q.Where("user_id = ?", actor.ID)
}

func applyFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(note) LIKE ? OR LOWER(category) LIKE ? OR LOWER(created_by) LIKE ?",
			pattern, pattern, pattern)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

func validChannel(c models.PaymentChannel) bool {
	for _, known := range models.PaymentChannels {
		if c == known {
			return true
		}
	}
	return false
}
