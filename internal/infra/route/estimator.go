package route

import (
	"context"
	"fmt"
	"math"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
)

// TransitEstimator produces a transit route candidate between two
// coordinates. The driving leg duration is passed in so heuristic
// implementations can derive an estimate without a timetable API.
type TransitEstimator interface {
	Estimate(ctx context.Context, origin, destination domain.Coordinate, drivingSeconds int) (*domain.RouteCandidate, error)
}

// NewEstimator selects a transit estimator implementation from config.
func NewEstimator(cfg *config.RouteConfig) (TransitEstimator, error) {
	switch cfg.TransitEstimator {
	case config.TransitEstimatorHeuristic, "":
		return NewHeuristicEstimator(), nil
	case config.TransitEstimatorEkispert:
		if cfg.EkispertAPIKey == "" {
			return nil, fmt.Errorf("ekispert estimator requires EKISPERT_API_KEY")
		}
		return NewEkispertEstimator(cfg), nil
	default:
		return nil, fmt.Errorf("unknown transit estimator: %s", cfg.TransitEstimator)
	}
}

// HeuristicEstimator derives a transit duration from the straight-line
// distance between origin and destination. Short hops are dominated by
// walking and waiting, so the multiplier on the driving duration grows
// as the distance shrinks.
type HeuristicEstimator struct{}

func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{}
}

func (e *HeuristicEstimator) Estimate(_ context.Context, origin, destination domain.Coordinate, drivingSeconds int) (*domain.RouteCandidate, error) {
	if drivingSeconds <= 0 {
		return nil, nil
	}

	distanceM := haversineMeters(origin, destination)

	var multiplier float64
	switch {
	case distanceM < 2000:
		multiplier = 2.5
	case distanceM < 10000:
		multiplier = 1.8
	default:
		multiplier = 1.4
	}

	return &domain.RouteCandidate{
		Mode:            domain.ModeTransit,
		DurationSeconds: int(float64(drivingSeconds) * multiplier),
		DistanceMeters:  int(distanceM),
		EndLocation:     destination,
		Summary:         "公共交通機関",
	}, nil
}

// haversineMeters computes the great-circle distance between two
// coordinates.
func haversineMeters(a, b domain.Coordinate) float64 {
	const earthRadiusM = 6371000.0

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
