package routesel

import (
	"fmt"

	"github.com/soratobu/departure-planner/internal/domain"
)

// DefaultIndex is the candidate chosen when the caller does not pick
// one explicitly.
const DefaultIndex = 0

// Selection carries the travel fields derived from a chosen route
// candidate, ready to be applied to an event.
type Selection struct {
	TravelTimeMinutes int
	TravelMode        domain.TransportMode
	Destination       domain.Coordinate
}

// Select picks the candidate at the given index and derives the
// event-facing travel fields from it. Durations round down to whole
// minutes.
func Select(candidates []domain.RouteCandidate, index int) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no route candidates", domain.ErrRouteLookup)
	}
	if index < 0 || index >= len(candidates) {
		return nil, fmt.Errorf("route candidate index %d out of range [0, %d)", index, len(candidates))
	}

	chosen := candidates[index]

	return &Selection{
		TravelTimeMinutes: chosen.DurationMinutes(),
		TravelMode:        chosen.Mode,
		Destination:       chosen.EndLocation,
	}, nil
}
