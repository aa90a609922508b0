package domain

import "errors"

// Validation errors abort a save before any collaborator is called.
var (
	ErrEmptyTitle            = errors.New("event title must not be empty")
	ErrEndBeforeStart        = errors.New("event end time must be after start time")
	ErrNegativeTravelTime    = errors.New("travel time must not be negative")
	ErrNegativeLeadMinutes   = errors.New("notification lead minutes must not be negative")
	ErrInvalidRepeat         = errors.New("invalid repeat value")
	ErrNegativePolicyMinutes = errors.New("policy extra minutes must not be negative")
)

// Collaborator failure taxonomy.
var (
	// ErrRouteLookup is recoverable; the caller falls back to manual
	// travel time entry.
	ErrRouteLookup = errors.New("route lookup failed")

	// ErrWeatherLookup is recoverable and never blocks a save; the
	// adjuster degrades to a zero adjustment.
	ErrWeatherLookup = errors.New("weather lookup failed")

	// ErrNotificationScheduling is surfaced as a distinct outcome so the
	// caller can tell a scheduling failure from a rejected-too-soon plan.
	ErrNotificationScheduling = errors.New("notification scheduling failed")

	ErrEventNotFound = errors.New("event not found")
)

// IsValidation reports whether err is one of the validation errors.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrNegativeTravelTime),
		errors.Is(err, ErrNegativeLeadMinutes),
		errors.Is(err, ErrInvalidRepeat),
		errors.Is(err, ErrNegativePolicyMinutes):
		return true
	}
	return false
}
