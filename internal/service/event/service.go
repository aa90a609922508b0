package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/planrecorder"
	"github.com/soratobu/departure-planner/internal/observability/tracing"
	"github.com/soratobu/departure-planner/internal/service/planner"
	"github.com/soratobu/departure-planner/internal/service/weatheradj"
)

// Service orchestrates the event save flow: validation, weather
// adjustment, notification planning and persistence.
type Service struct {
	events   domain.EventRepository
	policies domain.PolicyRepository
	adjuster *weatheradj.Adjuster
	planner  *planner.Planner
	recorder planrecorder.Recorder
	now      func() time.Time
}

func NewService(
	events domain.EventRepository,
	policies domain.PolicyRepository,
	adjuster *weatheradj.Adjuster,
	notificationPlanner *planner.Planner,
	recorder planrecorder.Recorder,
) *Service {
	if recorder == nil {
		recorder = planrecorder.NewNoopRecorder()
	}
	return &Service{
		events:   events,
		policies: policies,
		adjuster: adjuster,
		planner:  notificationPlanner,
		recorder: recorder,
		now:      time.Now,
	}
}

// Create validates and stores a new event, planning its departure
// notification when requested. Validation failures abort before any
// collaborator is called.
func (s *Service) Create(ctx context.Context, event *domain.Event) (*SaveResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = s.now()
	event.UpdatedAt = event.CreatedAt

	ctx, span := tracing.StartSaveFlowSpan(ctx, event.UserID, event.ID)
	defer span.End()

	plan := s.planNotification(ctx, event)

	existing, err := s.events.GetAll(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	updated := append(existing, *event)
	if err := s.events.SaveAll(ctx, event.UserID, updated); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}

	s.recordOutcome(ctx, event, plan)

	return &SaveResult{
		Event:   event,
		Plan:    plan,
		Message: confirmationMessage(event, plan),
	}, nil
}

// Update replaces an existing event. Any previously scheduled
// notification is cancelled before a new plan is made, so the old one
// can never fire for the edited event.
func (s *Service) Update(ctx context.Context, event *domain.Event) (*SaveResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSaveFlowSpan(ctx, event.UserID, event.ID)
	defer span.End()

	existing, err := s.events.GetAll(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	index := -1
	for i := range existing {
		if existing[i].ID == event.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, domain.ErrEventNotFound
	}

	previous := existing[index]
	if previous.NotificationID != "" {
		if err := s.planner.Cancel(ctx, previous.NotificationID); err != nil {
			slog.WarnContext(ctx, "failed to cancel previous notification, continuing with update",
				slog.String("event_id", event.ID),
				slog.String("notification_id", previous.NotificationID),
				slog.String("error", err.Error()),
			)
		}
	}

	event.CreatedAt = previous.CreatedAt
	event.UpdatedAt = s.now()
	event.NotificationID = ""

	plan := s.planNotification(ctx, event)

	existing[index] = *event
	if err := s.events.SaveAll(ctx, event.UserID, existing); err != nil {
		return nil, fmt.Errorf("failed to save events: %w", err)
	}

	s.recordOutcome(ctx, event, plan)

	return &SaveResult{
		Event:   event,
		Plan:    plan,
		Message: confirmationMessage(event, plan),
	}, nil
}

// Delete removes an event, cancelling its scheduled notification first
// so an orphaned notification can never fire for a deleted event.
func (s *Service) Delete(ctx context.Context, userID, eventID string) error {
	existing, err := s.events.GetAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	index := -1
	for i := range existing {
		if existing[i].ID == eventID {
			index = i
			break
		}
	}
	if index < 0 {
		return domain.ErrEventNotFound
	}

	if existing[index].NotificationID != "" {
		if err := s.planner.Cancel(ctx, existing[index].NotificationID); err != nil {
			return fmt.Errorf("failed to cancel notification before delete: %w", err)
		}
	}

	updated := append(existing[:index], existing[index+1:]...)
	if err := s.events.SaveAll(ctx, userID, updated); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}

	slog.InfoContext(ctx, "event deleted",
		slog.String("user_id", userID),
		slog.String("event_id", eventID),
	)
	return nil
}

// List returns the user's events. With a non-zero window, recurring
// events are expanded into their occurrences inside it.
func (s *Service) List(ctx context.Context, userID string, from, to time.Time) ([]domain.Event, error) {
	events, err := s.events.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	if from.IsZero() || to.IsZero() {
		return events, nil
	}

	return expandOccurrences(events, from, to)
}

// planNotification runs the weather adjustment and the planner for an
// event that wants a notification. Events that do not want one get no
// plan at all.
func (s *Service) planNotification(ctx context.Context, event *domain.Event) *domain.NotificationPlan {
	if !event.WantsNotification() {
		return nil
	}

	policy := s.loadPolicy(ctx, event.UserID)
	adjustment := s.adjuster.Adjust(ctx, event.Destination, policy)

	plan := s.planner.Plan(ctx, planner.Input{
		UserID:         event.UserID,
		EventID:        event.ID,
		EventTitle:     event.Title,
		StartTime:      event.StartTime,
		LeadMinutes:    event.NotificationLeadMinutes,
		ExtraMinutes:   adjustment.ExtraMinutes,
		WeatherMessage: adjustment.Message,
	})

	plan.WeatherCategory = adjustment.Category

	if plan.Scheduled() {
		event.NotificationID = plan.NotificationID
	}
	return plan
}

// loadPolicy falls back to the default policy when the store fails, so
// a policy read error never blocks an event save.
func (s *Service) loadPolicy(ctx context.Context, userID string) domain.WeatherAdjustmentPolicy {
	policy, err := s.policies.Get(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load weather policy, using defaults",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return domain.DefaultWeatherAdjustmentPolicy()
	}
	return *policy
}

func (s *Service) recordOutcome(ctx context.Context, event *domain.Event, plan *domain.NotificationPlan) {
	if plan == nil {
		return
	}
	_ = s.recorder.RecordPlanOutcome(ctx, planrecorder.PlanOutcomeRecord{
		UserID:               event.UserID,
		EventID:              event.ID,
		State:                plan.State.String(),
		FireTime:             plan.FireTime,
		EffectiveLeadMinutes: plan.EffectiveLeadMinutes,
		WeatherExtraMinutes:  plan.WeatherExtraMinutes,
		WeatherCategory:      plan.WeatherCategory,
	})
}

// confirmationMessage builds the single user-facing message for a save.
func confirmationMessage(event *domain.Event, plan *domain.NotificationPlan) string {
	if plan == nil {
		return fmt.Sprintf("Saved %q.", event.Title)
	}

	switch plan.State {
	case domain.PlanScheduled:
		return fmt.Sprintf("Saved %q. Departure notification set for %s.",
			event.Title, plan.FireTime.Format("2006-01-02 15:04"))
	case domain.PlanRejectedTooSoon:
		return fmt.Sprintf("Saved %q. The departure time is too close, so no notification was scheduled.",
			event.Title)
	default:
		return fmt.Sprintf("Saved %q, but the departure notification could not be scheduled.",
			event.Title)
	}
}
