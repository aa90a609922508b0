package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/notifier"
)

var fixedNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T, n notifier.Notifier) *Planner {
	t.Helper()

	return NewPlanner(n, nil, &config.PlannerConfig{
		SafetyMarginSeconds: 60,
		DefaultLeadMinutes:  15,
	}, WithClock(func() time.Time { return fixedNow }))
}

func TestPlanSchedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := notifier.NewMockNotifier(ctrl)

	// Start 09:00, lead 15 + extra 15 = fire at 08:30.
	wantFire := fixedNow.Add(30 * time.Minute)

	mock.EXPECT().
		Schedule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notifier.Notification) (string, error) {
			if !n.FireAt.Equal(wantFire) {
				t.Errorf("FireAt = %v, want %v", n.FireAt, wantFire)
			}
			if n.EventID != "evt-1" {
				t.Errorf("EventID = %q, want evt-1", n.EventID)
			}
			return "notif-123", nil
		})

	p := newTestPlanner(t, mock)

	plan := p.Plan(context.Background(), Input{
		UserID:       "user-1",
		EventID:      "evt-1",
		EventTitle:   "会議",
		StartTime:    fixedNow.Add(time.Hour),
		LeadMinutes:  15,
		ExtraMinutes: 15,
	})

	if plan.State != domain.PlanScheduled {
		t.Fatalf("State = %v, want %v (%s)", plan.State, domain.PlanScheduled, plan.Explanation)
	}
	if plan.NotificationID != "notif-123" {
		t.Errorf("NotificationID = %q, want notif-123", plan.NotificationID)
	}
	if plan.EffectiveLeadMinutes != 30 {
		t.Errorf("EffectiveLeadMinutes = %d, want 30", plan.EffectiveLeadMinutes)
	}
	if plan.WeatherExtraMinutes != 15 {
		t.Errorf("WeatherExtraMinutes = %d, want 15", plan.WeatherExtraMinutes)
	}
	if !plan.FireTime.Equal(wantFire) {
		t.Errorf("FireTime = %v, want %v", plan.FireTime, wantFire)
	}
}

func TestPlanRejectsTooSoon(t *testing.T) {
	tests := []struct {
		name        string
		startOffset time.Duration
		leadMinutes int
	}{
		{
			// fire time 30s out, inside the 60s margin
			name:        "fire time inside margin",
			startOffset: 15*time.Minute + 30*time.Second,
			leadMinutes: 15,
		},
		{
			name:        "fire time exactly at margin boundary",
			startOffset: 15*time.Minute + 60*time.Second,
			leadMinutes: 15,
		},
		{
			name:        "fire time in the past",
			startOffset: 5 * time.Minute,
			leadMinutes: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mock := notifier.NewMockNotifier(ctrl)
			mock.EXPECT().Schedule(gomock.Any(), gomock.Any()).Times(0)

			p := newTestPlanner(t, mock)

			plan := p.Plan(context.Background(), Input{
				EventID:     "evt-1",
				EventTitle:  "会議",
				StartTime:   fixedNow.Add(tt.startOffset),
				LeadMinutes: tt.leadMinutes,
			})

			if plan.State != domain.PlanRejectedTooSoon {
				t.Errorf("State = %v, want %v", plan.State, domain.PlanRejectedTooSoon)
			}
			if plan.NotificationID != "" {
				t.Errorf("NotificationID = %q, want empty", plan.NotificationID)
			}
			if plan.Explanation == "" {
				t.Error("Explanation is empty, want human-readable reason")
			}
		})
	}
}

func TestPlanJustOutsideMarginSchedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := notifier.NewMockNotifier(ctrl)
	mock.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return("notif-1", nil)

	p := newTestPlanner(t, mock)

	// fire time 61 seconds out, one past the margin
	plan := p.Plan(context.Background(), Input{
		EventID:     "evt-1",
		EventTitle:  "会議",
		StartTime:   fixedNow.Add(15*time.Minute + 61*time.Second),
		LeadMinutes: 15,
	})

	if plan.State != domain.PlanScheduled {
		t.Errorf("State = %v, want %v (%s)", plan.State, domain.PlanScheduled, plan.Explanation)
	}
}

func TestPlanScheduleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := notifier.NewMockNotifier(ctrl)
	mock.EXPECT().
		Schedule(gomock.Any(), gomock.Any()).
		Return("", errors.New("queue unavailable"))

	p := newTestPlanner(t, mock)

	plan := p.Plan(context.Background(), Input{
		EventID:     "evt-1",
		EventTitle:  "会議",
		StartTime:   fixedNow.Add(2 * time.Hour),
		LeadMinutes: 15,
	})

	if plan.State != domain.PlanRejectedError {
		t.Errorf("State = %v, want %v", plan.State, domain.PlanRejectedError)
	}
	if plan.NotificationID != "" {
		t.Errorf("NotificationID = %q, want empty", plan.NotificationID)
	}
}

func TestCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := notifier.NewMockNotifier(ctrl)
	mock.EXPECT().Cancel(gomock.Any(), "notif-123").Return(nil)

	p := newTestPlanner(t, mock)

	if err := p.Cancel(context.Background(), "notif-123"); err != nil {
		t.Errorf("Cancel() error = %v", err)
	}
}

func TestCancelEmptyIDIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := notifier.NewMockNotifier(ctrl)
	mock.EXPECT().Cancel(gomock.Any(), gomock.Any()).Times(0)

	p := newTestPlanner(t, mock)

	if err := p.Cancel(context.Background(), ""); err != nil {
		t.Errorf("Cancel(\"\") error = %v", err)
	}
}
