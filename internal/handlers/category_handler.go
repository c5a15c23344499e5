package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/services"
)

// CategoryHandler serves the category catalog
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Catalog returns the categories available to the caller
// @Summary     Get category catalog
// @Description List categories the caller may use for a given entry type, scoped by role
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string true "Entry type (INCOME or EXPENSE)"
// @Success     200 {object} map[string]interface{} "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [get]
func (h *CategoryHandler) Catalog(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txType := models.TransactionType(c.Query("type"))
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE"))
		return
	}

	categories, err := h.categoryService.Catalog(actor, txType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// SubCategories returns the fixed sub-category list for a category
// @Summary     Get sub-categories
// @Description List the sub-categories of a category, if it has any
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Category name"
// @Success     200 {object} map[string]interface{} "Sub-categories"
// @Router      /categories/{name}/sub-categories [get]
func (h *CategoryHandler) SubCategories(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sub_categories": models.SubCategoriesFor(c.Param("name")),
	})
}
