package weatheradj

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/weather"
	"github.com/soratobu/departure-planner/internal/observability/metrics"
)

const defaultLookupTimeout = 5 * time.Second

// Adjustment is the weather contribution to a notification plan. A zero
// value means no adjustment was applied.
type Adjustment struct {
	ExtraMinutes int
	Category     string
	Message      string
}

// Adjuster turns current weather at an event's destination into extra
// lead minutes. A weather lookup failure never blocks the caller; it
// degrades to no adjustment.
type Adjuster struct {
	provider weather.Provider
	metrics  *metrics.PlannerMetrics
	timeout  time.Duration
}

func NewAdjuster(provider weather.Provider, plannerMetrics *metrics.PlannerMetrics) *Adjuster {
	return &Adjuster{
		provider: provider,
		metrics:  plannerMetrics,
		timeout:  defaultLookupTimeout,
	}
}

// Adjust computes the extra lead minutes for the given destination and
// policy. Without a destination, or with the policy disabled, no lookup
// happens at all.
func (a *Adjuster) Adjust(ctx context.Context, destination *domain.Coordinate, policy domain.WeatherAdjustmentPolicy) Adjustment {
	if destination == nil || !policy.Enabled {
		return Adjustment{}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	conditions, err := a.provider.CurrentConditions(lookupCtx, *destination)
	if err != nil {
		slog.WarnContext(ctx, "weather lookup failed, planning without adjustment",
			slog.String("error", err.Error()),
			slog.Float64("lat", destination.Latitude),
			slog.Float64("lon", destination.Longitude),
		)
		return Adjustment{}
	}

	extraMinutes := policy.ExtraMinutesFor(conditions.Category)

	message := fmt.Sprintf("%s %s", conditions.Emoji, conditions.Description)
	if extraMinutes > 0 {
		message += fmt.Sprintf(" (notified %d minutes earlier)", extraMinutes)
	}

	if a.metrics != nil && extraMinutes > 0 {
		a.metrics.RecordWeatherAdjustment(ctx, conditions.Category, extraMinutes)
	}

	slog.InfoContext(ctx, "weather adjustment computed",
		slog.String("category", conditions.Category),
		slog.Int("extra_minutes", extraMinutes),
	)

	return Adjustment{
		ExtraMinutes: extraMinutes,
		Category:     conditions.Category,
		Message:      message,
	}
}
