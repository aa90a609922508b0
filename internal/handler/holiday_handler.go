package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/infra/holiday"
)

type HolidayHandler struct {
	client *holiday.Client
}

func NewHolidayHandler(client *holiday.Client) *HolidayHandler {
	return &HolidayHandler{
		client: client,
	}
}

// HandleList handles GET /api/v1/holidays. With a date parameter it
// answers for that single day instead.
func (h *HolidayHandler) HandleList(c *gin.Context) {
	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}

		isHoliday, name, err := h.client.IsHoliday(c.Request.Context(), day)
		if err != nil {
			respondError(c, http.StatusBadGateway, "holiday data unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"date":       dateStr,
			"is_holiday": isHoliday,
			"name":       name,
		})
		return
	}

	holidays, err := h.client.Holidays(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, "holiday data unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}
