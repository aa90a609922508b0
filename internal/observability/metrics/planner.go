package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const plannerMeterName = "planner.service"

type PlannerMetrics struct {
	plansTotal          metric.Int64Counter
	weatherAdjustments  metric.Int64Counter
	scheduleDuration    metric.Float64Histogram
	weatherExtraMinutes metric.Int64Histogram
}

func NewPlannerMetrics() (*PlannerMetrics, error) {
	meter := otel.Meter(plannerMeterName)

	plansTotal, err := meter.Int64Counter(
		"planner_plans_total",
		metric.WithDescription("Total number of notification plans by outcome"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		return nil, err
	}

	weatherAdjustments, err := meter.Int64Counter(
		"planner_weather_adjustments_total",
		metric.WithDescription("Total number of weather-based lead time adjustments"),
		metric.WithUnit("{adjustment}"),
	)
	if err != nil {
		return nil, err
	}

	scheduleDuration, err := meter.Float64Histogram(
		"planner_schedule_duration_seconds",
		metric.WithDescription("Time spent scheduling a notification"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	weatherExtraMinutes, err := meter.Int64Histogram(
		"planner_weather_extra_minutes",
		metric.WithDescription("Extra lead minutes applied due to weather"),
		metric.WithUnit("min"),
		metric.WithExplicitBucketBoundaries(0, 5, 10, 15, 20, 30, 45, 60),
	)
	if err != nil {
		return nil, err
	}

	return &PlannerMetrics{
		plansTotal:          plansTotal,
		weatherAdjustments:  weatherAdjustments,
		scheduleDuration:    scheduleDuration,
		weatherExtraMinutes: weatherExtraMinutes,
	}, nil
}

func (m *PlannerMetrics) RecordPlan(ctx context.Context, state string) {
	m.plansTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", state),
	))
}

func (m *PlannerMetrics) RecordWeatherAdjustment(ctx context.Context, category string, extraMinutes int) {
	m.weatherAdjustments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
	m.weatherExtraMinutes.Record(ctx, int64(extraMinutes), metric.WithAttributes(
		attribute.String("category", category),
	))
}

func (m *PlannerMetrics) RecordScheduleDuration(ctx context.Context, duration time.Duration, success bool) {
	m.scheduleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}
