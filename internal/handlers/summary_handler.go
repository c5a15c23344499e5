package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finvue/internal/services"
)

// SummaryHandler serves derived ledger aggregates
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary returns income, expense, balance, and per-channel balances
// @Summary     Get summary
// @Description Aggregate approved entries into income, expense, balance, and per-channel balances. Requisition entries are excluded.
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Summary"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.Summarize(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
