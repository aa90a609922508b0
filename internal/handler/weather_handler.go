package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/weather"
)

type WeatherHandler struct {
	provider weather.Provider
}

func NewWeatherHandler(provider weather.Provider) *WeatherHandler {
	return &WeatherHandler{
		provider: provider,
	}
}

// HandleCurrent handles GET /api/v1/weather?lat=..&lon=.. and returns
// the current conditions plus a transport mode recommendation.
func (h *WeatherHandler) HandleCurrent(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid lon parameter")
		return
	}

	conditions, err := h.provider.CurrentConditions(c.Request.Context(), domain.Coordinate{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recommendation := weather.RecommendedMode(conditions)

	c.JSON(http.StatusOK, gin.H{
		"conditions":     conditions,
		"recommendation": recommendation,
	})
}
