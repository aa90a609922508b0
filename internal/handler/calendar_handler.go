package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/soratobu/departure-planner/internal/infra/gcal"
)

type CalendarHandler struct {
	client *gcal.Client
}

func NewCalendarHandler(client *gcal.Client) *CalendarHandler {
	return &CalendarHandler{
		client: client,
	}
}

// HandleAuthURL handles GET /api/v1/users/:userID/calendar/auth-url.
func (h *CalendarHandler) HandleAuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"auth_url": h.client.AuthURL(c.Param("userID")),
	})
}

type tokenRequest struct {
	Code string `json:"code" binding:"required"`
}

// HandleToken handles POST /api/v1/users/:userID/calendar/token,
// exchanging an authorization code for a token. Tokens are returned to
// the caller, not stored server side.
func (h *CalendarHandler) HandleToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.client.Exchange(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to exchange authorization code")
		return
	}

	c.JSON(http.StatusOK, token)
}

type calendarEventsRequest struct {
	Token oauth2.Token `json:"token" binding:"required"`
	From  time.Time    `json:"from"`
	To    time.Time    `json:"to"`
}

// HandleEvents handles POST /api/v1/users/:userID/calendar/events,
// listing importable entries from the user's primary calendar.
func (h *CalendarHandler) HandleEvents(c *gin.Context) {
	var req calendarEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	from := req.From
	if from.IsZero() {
		from = time.Now()
	}
	to := req.To
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}

	events, err := h.client.Events(c.Request.Context(), &req.Token, from, to)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to list calendar events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
