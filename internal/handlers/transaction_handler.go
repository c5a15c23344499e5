package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
	"finvue/internal/pagination"
	"finvue/internal/services"
)

// TransactionHandler handles ledger entry requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the payload for submitting an entry
type CreateTransactionRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    string                 `json:"category" binding:"required,max=100"`
	SubCategory string                 `json:"sub_category" binding:"omitempty,max=100"`
	Channel     models.PaymentChannel  `json:"channel" binding:"required,payment_channel"`
	Date        string                 `json:"date" binding:"required"`
	Note        string                 `json:"note" binding:"omitempty,max=500"`
}

// UpdateStatusRequest represents the payload for a lifecycle transition
type UpdateStatusRequest struct {
	Status models.TransactionStatus `json:"status" binding:"required,transaction_status"`
}

// Create submits a new ledger entry
// @Summary     Create transaction
// @Description Submit an income or expense entry. The initial status depends on the entry type and the caller's role.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Entry details"
// @Success     201 {object} map[string]interface{} "Created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Category not allowed for role"
// @Router      /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be RFC3339 or YYYY-MM-DD"))
		return
	}

	tx, err := h.transactionService.Create(actor, services.CreateTransactionInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Channel:     req.Channel,
		Date:        date,
		Note:        req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "transaction.create", "transaction", tx.ID, c.ClientIP(), map[string]any{
		"type":     tx.Type,
		"category": tx.Category,
		"amount":   tx.Amount.String(),
	})
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// List returns the caller's visible ledger
// @Summary     List transactions
// @Description List visible entries, newest first. Admins and managers see everything; other roles see their own entries. Rejected entries are excluded.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Case-insensitive substring over note, category, and submitter"
// @Param       user_id   query string false "Filter by submitting user (global viewers only)"
// @Param       category  query string false "Filter by exact category"
// @Param       from      query string false "Start date (inclusive, RFC3339 or YYYY-MM-DD)"
// @Param       to        query string false "End date (inclusive, RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (omit for the full set)"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := buildFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var pageReq pagination.PageRequest
	if err := c.ShouldBindQuery(&pageReq); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactions, err := h.transactionService.List(actor, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if pageReq.IsZero() {
		c.JSON(http.StatusOK, gin.H{"transactions": transactions})
		return
	}
	c.JSON(http.StatusOK, pagination.Window(transactions, pageReq))
}

// ListRejected returns rejected entries visible to the caller
// @Summary     List rejected transactions
// @Description List rejected entries, which are excluded from the main ledger view
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Rejected transactions"
// @Router      /transactions/rejected [get]
func (h *TransactionHandler) ListRejected(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListRejected(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetByID returns a single entry
// @Summary     Get transaction
// @Description Get a single entry by ID, subject to visibility scoping
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetByID(actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateStatus moves an entry through its lifecycle
// @Summary     Update transaction status
// @Description Apply a lifecycle transition. Managers verify or reject pending entries; admins approve or reject verified entries, and may fast-track pending expenses.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Transaction ID"
// @Param       request body UpdateStatusRequest true "Target status"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Transition not allowed"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/status [put]
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tx, err := h.transactionService.Transition(actor, c.Param("id"), req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "transaction.status", "transaction", tx.ID, c.ClientIP(), map[string]any{
		"status": req.Status,
	})
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// Delete removes an entry after explicit confirmation
// @Summary     Delete transaction
// @Description Delete an entry (admin only). Requires confirm=true.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id      path  string true  "Transaction ID"
// @Param       confirm query bool   false "Must be true to confirm deletion"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Deletion not confirmed"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	confirmed := c.Query("confirm") == "true"
	if err := h.transactionService.Delete(actor, id, confirmed); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "transaction.delete", "transaction", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func buildFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	filter.Search = c.Query("search")
	if v := c.Query("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}
	return filter, nil
}
