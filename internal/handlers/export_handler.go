package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finvue/internal/errors"
	"finvue/internal/export"
	"finvue/internal/services"
)

// ExportHandler serves CSV downloads of the visible ledger
type ExportHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *ExportHandler {
	return &ExportHandler{transactionService: transactionService, auditService: auditService}
}

// ExportCSV streams the caller's visible ledger as a CSV download
// @Summary     Export transactions as CSV
// @Description Download the visible ledger as CSV with Date, Type, Category, Amount, and Note columns. Accepts the same filters as the list endpoint.
// @Tags        export
// @Produce     text/csv
// @Security    BearerAuth
// @Param       search   query string false "Case-insensitive substring over note, category, and submitter"
// @Param       user_id  query string false "Filter by submitting user (global viewers only)"
// @Param       category query string false "Filter by exact category"
// @Param       from     query string false "Start date (inclusive)"
// @Param       to       query string false "End date (inclusive)"
// @Success     200 {string} string "CSV content"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/export [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
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

	transactions, err := h.transactionService.List(actor, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := "transactions-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, transactions); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	h.auditService.Log(actor.ID, "transaction.export", "transaction", "", c.ClientIP(), map[string]any{
		"filename": filename,
	})
}
