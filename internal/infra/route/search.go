package route

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soratobu/departure-planner/internal/domain"
)

// SearchRequest describes a multi-mode route search. Destination may be
// given as a coordinate or as a free-text address to be geocoded.
type SearchRequest struct {
	Origin             domain.Coordinate
	Destination        *domain.Coordinate
	DestinationAddress string
	ArrivalTime        time.Time
}

// Searcher fans a route search out across transport modes and collects
// the candidates that succeed.
type Searcher struct {
	google    *GoogleClient
	estimator TransitEstimator
}

func NewSearcher(google *GoogleClient, estimator TransitEstimator) *Searcher {
	return &Searcher{
		google:    google,
		estimator: estimator,
	}
}

// Search returns route candidates for walking, driving and transit.
// Modes that fail are skipped with a log entry. An empty result means
// no mode produced a route.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) ([]domain.RouteCandidate, error) {
	destination, err := s.resolveDestination(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []domain.RouteCandidate
		driving    *domain.RouteCandidate
	)

	directModes := []domain.TransportMode{domain.ModeWalking, domain.ModeDriving}
	for _, mode := range directModes {
		wg.Add(1)
		go func(mode domain.TransportMode) {
			defer wg.Done()

			candidate, err := s.google.Directions(ctx, req.Origin, destination, mode)
			if err != nil {
				slog.WarnContext(ctx, "route lookup failed, skipping mode",
					slog.String("mode", mode.String()),
					slog.String("error", err.Error()),
				)
				return
			}
			if candidate == nil {
				return
			}

			mu.Lock()
			candidates = append(candidates, *candidate)
			if mode == domain.ModeDriving {
				driving = candidate
			}
			mu.Unlock()
		}(mode)
	}
	wg.Wait()

	drivingSeconds := 0
	if driving != nil {
		drivingSeconds = driving.DurationSeconds
	}

	transit, err := s.estimator.Estimate(ctx, req.Origin, destination, drivingSeconds)
	if err != nil {
		slog.WarnContext(ctx, "transit estimate failed, skipping mode",
			slog.String("error", err.Error()),
		)
	} else if transit != nil {
		candidates = append(candidates, *transit)
	}

	if !req.ArrivalTime.IsZero() {
		for i := range candidates {
			candidates[i].DepartureTime = req.ArrivalTime.Add(-time.Duration(candidates[i].DurationSeconds) * time.Second)
		}
	}

	return candidates, nil
}

func (s *Searcher) resolveDestination(ctx context.Context, req SearchRequest) (domain.Coordinate, error) {
	if req.Destination != nil {
		return *req.Destination, nil
	}
	return s.google.Geocode(ctx, req.DestinationAddress)
}
