package domain

import (
	"time"
)

// TransportMode is the travel mode of a route candidate.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeTransit TransportMode = "transit"
	ModeDriving TransportMode = "driving"
)

func (m TransportMode) String() string {
	return string(m)
}

// RouteCandidate is one externally computed option for travelling to an
// event's location. A successful search never returns an empty list; an
// empty list means no route was found.
type RouteCandidate struct {
	Mode            TransportMode `json:"mode"`
	DurationSeconds int           `json:"duration_seconds"`
	DistanceMeters  int           `json:"distance_meters"`
	EndLocation     Coordinate    `json:"end_location"`
	Summary         string        `json:"summary,omitempty"`

	// DepartureTime is derived from the requested arrival time minus the
	// route duration.
	DepartureTime time.Time `json:"departure_time"`
}

func (r *RouteCandidate) DurationMinutes() int {
	return r.DurationSeconds / 60
}
