package domain

import (
	"time"
)

// Repeat describes the recurrence of an event.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
)

func (r Repeat) IsValid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, "":
		return true
	}
	return false
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event is a scheduled activity owned by a single user.
// The per-user event list is stored and rewritten as a whole collection,
// so two concurrent saves for the same user are last-writer-wins.
type Event struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`

	// Destination is the coordinate of Location when a route was selected.
	// It is required for weather lookups and absent otherwise.
	Destination *Coordinate `json:"destination,omitempty"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	AllDay    bool      `json:"all_day,omitempty"`
	Repeat    Repeat    `json:"repeat,omitempty"`

	TravelTimeMinutes int           `json:"travel_time_minutes,omitempty"`
	TravelMode        TransportMode `json:"travel_mode,omitempty"`

	NotificationEnabled     bool `json:"notification_enabled"`
	NotificationLeadMinutes int  `json:"notification_lead_minutes,omitempty"`

	// NotificationID is the identifier returned by the notification
	// collaborator for the currently scheduled notification, if any.
	// It is kept so the notification can be cancelled on edit or delete.
	NotificationID string `json:"notification_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the event invariants that must hold before any
// collaborator is called. A violation aborts the save entirely.
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if !e.AllDay && !e.EndTime.After(e.StartTime) {
		return ErrEndBeforeStart
	}
	if e.TravelTimeMinutes < 0 {
		return ErrNegativeTravelTime
	}
	if e.NotificationEnabled && e.NotificationLeadMinutes < 0 {
		return ErrNegativeLeadMinutes
	}
	if !e.Repeat.IsValid() {
		return ErrInvalidRepeat
	}
	return nil
}

// WantsNotification reports whether the save flow should plan a
// notification at all. Lead minutes of zero is a distinct "no
// notification" path, not a zero-lead plan.
func (e *Event) WantsNotification() bool {
	return e.NotificationEnabled && e.NotificationLeadMinutes > 0
}
