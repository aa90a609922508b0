package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/notifier"
	"github.com/soratobu/departure-planner/internal/observability/metrics"
	"github.com/soratobu/departure-planner/internal/observability/tracing"
)

// Input describes one notification to plan.
type Input struct {
	UserID       string
	EventID      string
	EventTitle   string
	StartTime    time.Time
	LeadMinutes  int
	ExtraMinutes int

	// WeatherMessage, when present, is appended to the notification body.
	WeatherMessage string
}

// Planner decides whether a departure notification can be scheduled and
// schedules it. The fire time is the event start minus the effective
// lead; anything inside the safety margin is rejected instead of firing
// immediately.
type Planner struct {
	notifier            notifier.Notifier
	metrics             *metrics.PlannerMetrics
	safetyMarginSeconds int
	now                 func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock replaces the planner's time source. Tests use it to pin the
// safety margin decision to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

func NewPlanner(n notifier.Notifier, plannerMetrics *metrics.PlannerMetrics, cfg *config.PlannerConfig, opts ...Option) *Planner {
	p := &Planner{
		notifier:            n,
		metrics:             plannerMetrics,
		safetyMarginSeconds: cfg.SafetyMarginSeconds,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Plan(ctx context.Context, input Input) *domain.NotificationPlan {
	ctx, span := tracing.StartPlanSpan(ctx, input.EventID, input.StartTime)
	defer span.End()

	effectiveLead := input.LeadMinutes + input.ExtraMinutes
	fireTime := input.StartTime.Add(-time.Duration(effectiveLead) * time.Minute)

	plan := &domain.NotificationPlan{
		State:                domain.PlanPendingDecision,
		FireTime:             fireTime,
		EffectiveLeadMinutes: effectiveLead,
		WeatherExtraMinutes:  input.ExtraMinutes,
	}

	now := p.now()
	secondsUntilFire := int(fireTime.Sub(now).Seconds())

	if secondsUntilFire <= p.safetyMarginSeconds {
		plan.State = domain.PlanRejectedTooSoon
		plan.Explanation = fmt.Sprintf(
			"departure time %s is too close to now %s (fire in %ds, margin %ds)",
			fireTime.Format(time.RFC3339), now.Format(time.RFC3339),
			secondsUntilFire, p.safetyMarginSeconds,
		)

		slog.InfoContext(ctx, "notification rejected as too soon",
			slog.String("event_id", input.EventID),
			slog.Time("fire_time", fireTime),
			slog.Int("seconds_until_fire", secondsUntilFire),
		)
		p.record(ctx, plan)
		tracing.RecordPlanResult(span, plan.State.String(), fireTime, nil)
		return plan
	}

	notification := &notifier.Notification{
		EventID: input.EventID,
		UserID:  input.UserID,
		FireAt:  fireTime,
		Title:   fmt.Sprintf("Time to leave for %s", input.EventTitle),
		Body:    buildBody(input),
	}

	scheduleStart := time.Now()
	notificationID, err := p.notifier.Schedule(ctx, notification)
	if p.metrics != nil {
		p.metrics.RecordScheduleDuration(ctx, time.Since(scheduleStart), err == nil)
	}

	if err != nil {
		plan.State = domain.PlanRejectedError
		plan.Explanation = fmt.Sprintf("failed to schedule notification: %v", err)

		slog.ErrorContext(ctx, "notification scheduling failed",
			slog.String("event_id", input.EventID),
			slog.String("error", err.Error()),
		)
		p.record(ctx, plan)
		tracing.RecordPlanResult(span, plan.State.String(), fireTime, err)
		return plan
	}

	plan.State = domain.PlanScheduled
	plan.NotificationID = notificationID
	plan.Explanation = fmt.Sprintf(
		"notification fires at %s, %d minutes before the %s start",
		fireTime.Format(time.RFC3339), effectiveLead, input.StartTime.Format(time.RFC3339),
	)

	slog.InfoContext(ctx, "notification scheduled",
		slog.String("event_id", input.EventID),
		slog.String("notification_id", notificationID),
		slog.Time("fire_time", fireTime),
		slog.Int("effective_lead_minutes", effectiveLead),
	)
	p.record(ctx, plan)
	tracing.RecordPlanResult(span, plan.State.String(), fireTime, nil)
	return plan
}

// Cancel removes a previously scheduled notification. An unknown
// identifier is treated as already cancelled.
func (p *Planner) Cancel(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return nil
	}

	if err := p.notifier.Cancel(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to cancel notification %s: %w", notificationID, err)
	}

	if p.metrics != nil {
		p.metrics.RecordPlan(ctx, domain.PlanCancelled.String())
	}
	return nil
}

func (p *Planner) record(ctx context.Context, plan *domain.NotificationPlan) {
	if p.metrics != nil {
		p.metrics.RecordPlan(ctx, plan.State.String())
	}
}

func buildBody(input Input) string {
	body := fmt.Sprintf("%s starts at %s. Leave now to arrive on time.",
		input.EventTitle, input.StartTime.Format("15:04"))
	if input.WeatherMessage != "" {
		body += " " + input.WeatherMessage
	}
	return body
}
