package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finvue/internal/errors"
	"finvue/internal/services"
)

// SettingsHandler handles workspace configuration requests
type SettingsHandler struct {
	settingsService services.SettingsServicer
	auditService    services.AuditServicer
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsServicer, auditService services.AuditServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateSettingsRequest represents the payload for updating settings
type UpdateSettingsRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,max=200"`
	CompanyLogo *string `json:"company_logo"`
	SheetURL    *string `json:"sheet_url" binding:"omitempty,url"`
}

// GetSettings returns the workspace settings
// @Summary     Get settings
// @Description Get company name, logo, sheet URL, and last sync time
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Settings"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings updates workspace settings
// @Summary     Update settings
// @Description Update company name, logo, or sheet URL (admin only)
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.Update(actor, services.SettingsUpdateFields{
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
		SheetURL:    req.SheetURL,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "settings.update", "settings", "", c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
