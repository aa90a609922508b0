package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/route"
)

type RouteHandler struct {
	searcher *route.Searcher
}

func NewRouteHandler(searcher *route.Searcher) *RouteHandler {
	return &RouteHandler{
		searcher: searcher,
	}
}

type routeSearchRequest struct {
	Origin             domain.Coordinate  `json:"origin" binding:"required"`
	Destination        *domain.Coordinate `json:"destination"`
	DestinationAddress string             `json:"destination_address"`
	ArrivalTime        time.Time          `json:"arrival_time"`
}

// HandleSearch handles POST /api/v1/routes/search.
func (h *RouteHandler) HandleSearch(c *gin.Context) {
	var req routeSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Destination == nil && req.DestinationAddress == "" {
		respondError(c, http.StatusBadRequest, "destination or destination_address is required")
		return
	}

	candidates, err := h.searcher.Search(c.Request.Context(), route.SearchRequest{
		Origin:             req.Origin,
		Destination:        req.Destination,
		DestinationAddress: req.DestinationAddress,
		ArrivalTime:        req.ArrivalTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if candidates == nil {
		candidates = []domain.RouteCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}
