package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRouteLookup),
		errors.Is(err, domain.ErrWeatherLookup):
		respondError(c, http.StatusBadGateway, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
