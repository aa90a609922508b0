package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/service/event"
	"github.com/soratobu/departure-planner/internal/service/routesel"
)

type EventHandler struct {
	service            *event.Service
	defaultLeadMinutes int
}

func NewEventHandler(service *event.Service, defaultLeadMinutes int) *EventHandler {
	return &EventHandler{
		service:            service,
		defaultLeadMinutes: defaultLeadMinutes,
	}
}

type eventRequest struct {
	Title    string `json:"title" binding:"required"`
	Location string `json:"location"`

	Destination *domain.Coordinate `json:"destination"`

	StartTime time.Time     `json:"start_time" binding:"required"`
	EndTime   time.Time     `json:"end_time"`
	AllDay    bool          `json:"all_day"`
	Repeat    domain.Repeat `json:"repeat"`

	// Either derived from a chosen route candidate or set directly.
	RouteCandidates   []domain.RouteCandidate `json:"route_candidates"`
	ChosenRouteIndex  *int                    `json:"chosen_route_index"`
	TravelTimeMinutes int                     `json:"travel_time_minutes"`
	TravelMode        domain.TransportMode    `json:"travel_mode"`

	NotificationEnabled     bool `json:"notification_enabled"`
	NotificationLeadMinutes *int `json:"notification_lead_minutes"`
}

// toDomain maps a request to a domain event. When the request carries
// route candidates the travel fields come from the chosen candidate,
// overriding any directly supplied values. A lead left unspecified on a
// notification-enabled event falls back to the configured default.
func (h *EventHandler) toDomain(req *eventRequest, userID string) (*domain.Event, error) {
	ev := &domain.Event{
		UserID:              userID,
		Title:               req.Title,
		Location:            req.Location,
		Destination:         req.Destination,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		AllDay:              req.AllDay,
		Repeat:              req.Repeat,
		TravelTimeMinutes:   req.TravelTimeMinutes,
		TravelMode:          req.TravelMode,
		NotificationEnabled: req.NotificationEnabled,
	}

	if len(req.RouteCandidates) > 0 {
		index := routesel.DefaultIndex
		if req.ChosenRouteIndex != nil {
			index = *req.ChosenRouteIndex
		}
		selection, err := routesel.Select(req.RouteCandidates, index)
		if err != nil {
			return nil, err
		}
		ev.TravelTimeMinutes = selection.TravelTimeMinutes
		ev.TravelMode = selection.TravelMode
		destination := selection.Destination
		ev.Destination = &destination
	}

	switch {
	case req.NotificationLeadMinutes != nil:
		ev.NotificationLeadMinutes = *req.NotificationLeadMinutes
	case req.NotificationEnabled:
		ev.NotificationLeadMinutes = h.defaultLeadMinutes
	}

	return ev, nil
}

// HandleCreate handles POST /api/v1/users/:userID/events.
func (h *EventHandler) HandleCreate(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ev, err := h.toDomain(&req, c.Param("userID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), ev)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// HandleUpdate handles PUT /api/v1/users/:userID/events/:eventID.
func (h *EventHandler) HandleUpdate(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ev, err := h.toDomain(&req, c.Param("userID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	ev.ID = c.Param("eventID")

	result, err := h.service.Update(c.Request.Context(), ev)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleDelete handles DELETE /api/v1/users/:userID/events/:eventID.
func (h *EventHandler) HandleDelete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("userID"), c.Param("eventID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleList handles GET /api/v1/users/:userID/events. With from/to
// query parameters, recurring events are expanded into occurrences.
func (h *EventHandler) HandleList(c *gin.Context) {
	var from, to time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from time format, expected RFC3339")
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to time format, expected RFC3339")
			return
		}
		to = parsed
	}

	events, err := h.service.List(c.Request.Context(), c.Param("userID"), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// HandleExportICS handles GET /api/v1/users/:userID/events/export.ics.
func (h *EventHandler) HandleExportICS(c *gin.Context) {
	userID := c.Param("userID")

	serialized, err := h.service.ExportICS(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+event.ICSFilename(userID)+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(serialized))
}
