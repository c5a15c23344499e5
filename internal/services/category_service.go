package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/policy"
)

// categoryService serves the seeded category catalog.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// Catalog returns the categories the actor may pick for the given type.
func (s *categoryService) Catalog(actor *models.User, txType models.TransactionType) ([]models.Category, error) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	var catalog []models.Category
	if err := s.db.Order("created_at ASC").Find(&catalog).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return policy.AllowedCategories(actor.Role, txType, catalog), nil
}

// GetByName retrieves a catalog row by exact name.
func (s *categoryService) GetByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
