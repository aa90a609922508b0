package weather

import (
	"context"

	"github.com/soratobu/departure-planner/internal/domain"
)

//go:generate mockgen -source=provider.go -destination=mock.go -package=weather

// Provider is the external weather collaborator. The planning flow only
// ever asks for current conditions; see the service documentation for the
// current-vs-forecast caveat.
type Provider interface {
	CurrentConditions(ctx context.Context, coord domain.Coordinate) (*domain.WeatherConditions, error)
}
