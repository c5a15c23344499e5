package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finvue/internal/services"
)

// SyncHandler triggers pushes of the ledger to the configured sheet endpoint
type SyncHandler struct {
	syncService  services.SyncServicer
	auditService services.AuditServicer
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService services.SyncServicer, auditService services.AuditServicer) *SyncHandler {
	return &SyncHandler{syncService: syncService, auditService: auditService}
}

// Run pushes a full snapshot to the configured endpoint
// @Summary     Sync to sheet
// @Description Push all transactions and a role-stripped user list to the configured sheet endpoint (admin only)
// @Tags        sync
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Sync result"
// @Failure     409 {object} ErrorResponse "Sync not configured"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     502 {object} ErrorResponse "Push failed"
// @Router      /sync [post]
func (h *SyncHandler) Run(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.syncService.Run(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "sync.run", "sync", "", c.ClientIP(), map[string]any{
		"synced_at": settings.LastSynced,
	})
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sync completed",
		"synced_at": settings.LastSynced,
	})
}
