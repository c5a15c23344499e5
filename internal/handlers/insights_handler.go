package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finvue/internal/advisory"
	"finvue/internal/services"
)

// InsightsHandler serves advisory tips derived from the ledger
type InsightsHandler struct {
	summaryService services.SummaryServicer
	advisor        advisory.Advisor
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(summaryService services.SummaryServicer, advisor advisory.Advisor) *InsightsHandler {
	return &InsightsHandler{summaryService: summaryService, advisor: advisor}
}

// GetTips returns advisory tips for the caller's visible ledger
// @Summary     Get advisory tips
// @Description Derive up to three tips from the caller's approved entries. Falls back to generic guidance when the ledger is empty.
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Tips"
// @Router      /insights/tips [get]
func (h *InsightsHandler) GetTips(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.summaryService.RelevantTransactions(actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": h.advisor.Analyze(transactions)})
}
