package controller

import (
	"net/http"

	"github.com/evermart/catalog-backend/internal/app/service"
	"github.com/evermart/catalog-backend/internal/errors"
	"github.com/evermart/catalog-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

// GetDiscounts returns the current discount and pricing configuration
// GET /api/v1/settings/discounts
func (ctrl *SettingsController) GetDiscounts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingsService.GetSettings()
	if err != nil {
		log.Error("Failed to fetch settings", err, nil)
		errors.InternalError(c, "Failed to fetch settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateDiscounts replaces the discount and pricing configuration
// PUT /api/v1/settings/discounts
func (ctrl *SettingsController) UpdateDiscounts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid settings payload", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	settings, err := ctrl.settingsService.UpdateSettings(input)
	if err != nil {
		log.Error("Failed to update settings", err, nil)
		info := errors.ParseError(err, "settings update")
		errors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	log.Info("Settings updated", map[string]interface{}{
		"global_discount": settings.GlobalDiscountPercent,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}
