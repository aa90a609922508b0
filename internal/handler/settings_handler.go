package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/domain"
)

type SettingsHandler struct {
	policies domain.PolicyRepository
}

func NewSettingsHandler(policies domain.PolicyRepository) *SettingsHandler {
	return &SettingsHandler{
		policies: policies,
	}
}

// HandleGetWeatherPolicy handles GET /api/v1/users/:userID/settings/weather.
func (h *SettingsHandler) HandleGetWeatherPolicy(c *gin.Context) {
	policy, err := h.policies.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, policy)
}

// HandlePutWeatherPolicy handles PUT /api/v1/users/:userID/settings/weather.
func (h *SettingsHandler) HandlePutWeatherPolicy(c *gin.Context) {
	var policy domain.WeatherAdjustmentPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.policies.Save(c.Request.Context(), c.Param("userID"), &policy); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, policy)
}
