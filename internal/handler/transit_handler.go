package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/infra/transitinfo"
)

type TransitHandler struct {
	client *transitinfo.Client
}

func NewTransitHandler(client *transitinfo.Client) *TransitHandler {
	return &TransitHandler{
		client: client,
	}
}

// HandleDelays handles GET /api/v1/transit/delays?line=...
func (h *TransitHandler) HandleDelays(c *gin.Context) {
	delays, err := h.client.Delays(c.Request.Context(), c.Query("line"))
	if err != nil {
		respondError(c, http.StatusBadGateway, "transit information unavailable")
		return
	}

	if delays == nil {
		delays = []transitinfo.DelayInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"delays": delays})
}
