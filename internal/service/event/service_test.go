package event

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/infra/notifier"
	"github.com/soratobu/departure-planner/internal/infra/planrecorder"
	"github.com/soratobu/departure-planner/internal/infra/weather"
	"github.com/soratobu/departure-planner/internal/service/planner"
	"github.com/soratobu/departure-planner/internal/service/weatheradj"
)

var (
	testNow     = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	testDest    = domain.Coordinate{Latitude: 35.658034, Longitude: 139.701636}
	clearSkies  = &domain.WeatherConditions{Category: domain.ConditionClear, Description: "快晴", Emoji: "☀️"}
	rainySkies  = &domain.WeatherConditions{Category: domain.ConditionRain, Description: "小雨", Emoji: "🌧️"}
)

type fixture struct {
	events   *domain.MockEventRepository
	policies *domain.MockPolicyRepository
	provider *weather.MockProvider
	notifier *notifier.MockNotifier
	recorder *captureRecorder
	service  *Service
}

// captureRecorder keeps recorded plan outcomes for assertions.
type captureRecorder struct {
	records []planrecorder.PlanOutcomeRecord
}

func (r *captureRecorder) RecordPlanOutcome(_ context.Context, record planrecorder.PlanOutcomeRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *captureRecorder) Close() error { return nil }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		events:   domain.NewMockEventRepository(ctrl),
		policies: domain.NewMockPolicyRepository(ctrl),
		provider: weather.NewMockProvider(ctrl),
		notifier: notifier.NewMockNotifier(ctrl),
		recorder: &captureRecorder{},
	}

	p := planner.NewPlanner(f.notifier, nil, &config.PlannerConfig{
		SafetyMarginSeconds: 60,
		DefaultLeadMinutes:  15,
	}, planner.WithClock(func() time.Time { return testNow }))

	f.service = NewService(
		f.events,
		f.policies,
		weatheradj.NewAdjuster(f.provider, nil),
		p,
		f.recorder,
	)
	f.service.now = func() time.Time { return testNow }

	return f
}

func defaultPolicy() *domain.WeatherAdjustmentPolicy {
	p := domain.DefaultWeatherAdjustmentPolicy()
	return &p
}

func validEvent() *domain.Event {
	return &domain.Event{
		UserID:                  "user-1",
		Title:                   "会議",
		Destination:             &testDest,
		StartTime:               testNow.Add(2 * time.Hour),
		EndTime:                 testNow.Add(3 * time.Hour),
		NotificationEnabled:     true,
		NotificationLeadMinutes: 15,
	}
}

func TestCreateSchedulesNotification(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), "user-1").Return(defaultPolicy(), nil)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), testDest).Return(clearSkies, nil)
	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return("notif-1", nil)
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().
		SaveAll(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, events []domain.Event) error {
			if len(events) != 1 {
				t.Fatalf("saved %d events, want 1", len(events))
			}
			if events[0].NotificationID != "notif-1" {
				t.Errorf("NotificationID = %q, want notif-1", events[0].NotificationID)
			}
			return nil
		})

	result, err := f.service.Create(context.Background(), validEvent())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if result.Event.ID == "" {
		t.Error("event ID was not assigned")
	}
	if result.Plan == nil || result.Plan.State != domain.PlanScheduled {
		t.Fatalf("Plan = %+v, want scheduled", result.Plan)
	}
	if !strings.Contains(result.Message, "notification set") {
		t.Errorf("Message = %q, want scheduled confirmation", result.Message)
	}
}

func TestCreateRainExtendsLead(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), "user-1").Return(defaultPolicy(), nil)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), testDest).Return(rainySkies, nil)

	ev := validEvent()
	// lead 15 + rain 15 means fire 30 minutes before start
	wantFire := ev.StartTime.Add(-30 * time.Minute)

	f.notifier.EXPECT().
		Schedule(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notifier.Notification) (string, error) {
			if !n.FireAt.Equal(wantFire) {
				t.Errorf("FireAt = %v, want %v", n.FireAt, wantFire)
			}
			if !strings.Contains(n.Body, "小雨") {
				t.Errorf("Body = %q, want weather message included", n.Body)
			}
			return "notif-1", nil
		})
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().SaveAll(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	result, err := f.service.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Plan.WeatherExtraMinutes != 15 {
		t.Errorf("WeatherExtraMinutes = %d, want 15", result.Plan.WeatherExtraMinutes)
	}
	if result.Plan.EffectiveLeadMinutes != 30 {
		t.Errorf("EffectiveLeadMinutes = %d, want 30", result.Plan.EffectiveLeadMinutes)
	}

	if len(f.recorder.records) != 1 {
		t.Fatalf("recorded %d plan outcomes, want 1", len(f.recorder.records))
	}
	record := f.recorder.records[0]
	if record.WeatherCategory != domain.ConditionRain {
		t.Errorf("recorded WeatherCategory = %q, want %q", record.WeatherCategory, domain.ConditionRain)
	}
	if record.WeatherExtraMinutes != 15 {
		t.Errorf("recorded WeatherExtraMinutes = %d, want 15", record.WeatherExtraMinutes)
	}
	if record.State != domain.PlanScheduled.String() {
		t.Errorf("recorded State = %q, want scheduled", record.State)
	}
}

func TestCreateValidationAbortsBeforeCollaborators(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Times(0)
	f.events.EXPECT().SaveAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	ev := validEvent()
	ev.Title = ""

	_, err := f.service.Create(context.Background(), ev)
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("Create() error = %v, want ErrEmptyTitle", err)
	}
}

func TestCreateWeatherFailureStillSaves(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), "user-1").Return(defaultPolicy(), nil)
	f.provider.EXPECT().
		CurrentConditions(gomock.Any(), testDest).
		Return(nil, errors.New("weather API down"))
	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return("notif-1", nil)
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().SaveAll(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	result, err := f.service.Create(context.Background(), validEvent())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Plan.WeatherExtraMinutes != 0 {
		t.Errorf("WeatherExtraMinutes = %d, want 0 after lookup failure", result.Plan.WeatherExtraMinutes)
	}
	if result.Plan.State != domain.PlanScheduled {
		t.Errorf("State = %v, want scheduled despite weather failure", result.Plan.State)
	}
}

func TestCreateTooSoonStillSaves(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), "user-1").Return(defaultPolicy(), nil)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), testDest).Return(clearSkies, nil)
	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Times(0)
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().SaveAll(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	ev := validEvent()
	ev.StartTime = testNow.Add(15 * time.Minute)
	ev.EndTime = testNow.Add(time.Hour)

	result, err := f.service.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Plan.State != domain.PlanRejectedTooSoon {
		t.Errorf("State = %v, want rejected_too_soon", result.Plan.State)
	}
	if result.Event.NotificationID != "" {
		t.Errorf("NotificationID = %q, want empty", result.Event.NotificationID)
	}
	if !strings.Contains(result.Message, "too close") {
		t.Errorf("Message = %q, want too-close explanation", result.Message)
	}
}

func TestCreateNotificationDisabledSkipsPlanning(t *testing.T) {
	f := newFixture(t)

	f.policies.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Times(0)
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().SaveAll(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	ev := validEvent()
	ev.NotificationEnabled = false

	result, err := f.service.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Plan != nil {
		t.Errorf("Plan = %+v, want nil when notifications disabled", result.Plan)
	}
}

func TestCreateZeroLeadSkipsPlanning(t *testing.T) {
	f := newFixture(t)

	f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Times(0)
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)
	f.events.EXPECT().SaveAll(gomock.Any(), "user-1", gomock.Any()).Return(nil)

	ev := validEvent()
	ev.NotificationLeadMinutes = 0

	result, err := f.service.Create(context.Background(), ev)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Plan != nil {
		t.Errorf("Plan = %+v, want nil for zero lead minutes", result.Plan)
	}
}

func TestUpdateCancelsPreviousNotification(t *testing.T) {
	f := newFixture(t)

	stored := *validEvent()
	stored.ID = "evt-1"
	stored.NotificationID = "notif-old"

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{stored}, nil)

	gomock.InOrder(
		f.notifier.EXPECT().Cancel(gomock.Any(), "notif-old").Return(nil),
		f.notifier.EXPECT().Schedule(gomock.Any(), gomock.Any()).Return("notif-new", nil),
	)

	f.policies.EXPECT().Get(gomock.Any(), "user-1").Return(defaultPolicy(), nil)
	f.provider.EXPECT().CurrentConditions(gomock.Any(), testDest).Return(clearSkies, nil)
	f.events.EXPECT().
		SaveAll(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, events []domain.Event) error {
			if events[0].NotificationID != "notif-new" {
				t.Errorf("NotificationID = %q, want notif-new", events[0].NotificationID)
			}
			return nil
		})

	updated := validEvent()
	updated.ID = "evt-1"
	updated.Title = "更新された会議"

	result, err := f.service.Update(context.Background(), updated)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.Event.Title != "更新された会議" {
		t.Errorf("Title = %q, want updated title", result.Event.Title)
	}
}

func TestUpdateUnknownEvent(t *testing.T) {
	f := newFixture(t)

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)

	ev := validEvent()
	ev.ID = "missing"

	_, err := f.service.Update(context.Background(), ev)
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("Update() error = %v, want ErrEventNotFound", err)
	}
}

func TestDeleteCancelsBeforeRemoving(t *testing.T) {
	f := newFixture(t)

	stored := *validEvent()
	stored.ID = "evt-1"
	stored.NotificationID = "notif-1"

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{stored}, nil)

	gomock.InOrder(
		f.notifier.EXPECT().Cancel(gomock.Any(), "notif-1").Return(nil),
		f.events.EXPECT().
			SaveAll(gomock.Any(), "user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, events []domain.Event) error {
				if len(events) != 0 {
					t.Errorf("saved %d events after delete, want 0", len(events))
				}
				return nil
			}),
	)

	if err := f.service.Delete(context.Background(), "user-1", "evt-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestDeleteCancelFailureAborts(t *testing.T) {
	f := newFixture(t)

	stored := *validEvent()
	stored.ID = "evt-1"
	stored.NotificationID = "notif-1"

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{stored}, nil)
	f.notifier.EXPECT().Cancel(gomock.Any(), "notif-1").Return(errors.New("backend down"))
	f.events.EXPECT().SaveAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if err := f.service.Delete(context.Background(), "user-1", "evt-1"); err == nil {
		t.Error("Delete() succeeded, want error when cancel fails")
	}
}

func TestDeleteUnknownEvent(t *testing.T) {
	f := newFixture(t)

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{}, nil)

	err := f.service.Delete(context.Background(), "user-1", "missing")
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("Delete() error = %v, want ErrEventNotFound", err)
	}
}

func TestListExpandsRecurrence(t *testing.T) {
	f := newFixture(t)

	daily := domain.Event{
		ID:        "evt-daily",
		UserID:    "user-1",
		Title:     "朝の散歩",
		StartTime: time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC),
		Repeat:    domain.RepeatDaily,
	}

	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return([]domain.Event{daily}, nil)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 23, 59, 59, 0, time.UTC)

	got, err := f.service.List(context.Background(), "user-1", from, to)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() returned %d occurrences, want 3", len(got))
	}
	for i, occ := range got {
		wantStart := time.Date(2026, 3, 10+i, 7, 0, 0, 0, time.UTC)
		if !occ.StartTime.Equal(wantStart) {
			t.Errorf("occurrence %d StartTime = %v, want %v", i, occ.StartTime, wantStart)
		}
		if occ.EndTime.Sub(occ.StartTime) != 30*time.Minute {
			t.Errorf("occurrence %d duration = %v, want 30m", i, occ.EndTime.Sub(occ.StartTime))
		}
	}
}

func TestListWithoutWindowReturnsRaw(t *testing.T) {
	f := newFixture(t)

	stored := []domain.Event{{ID: "evt-1", UserID: "user-1", Title: "a", Repeat: domain.RepeatDaily}}
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return(stored, nil)

	got, err := f.service.List(context.Background(), "user-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "evt-1" {
		t.Errorf("List() = %+v, want stored events unexpanded", got)
	}
}

func TestExportICS(t *testing.T) {
	f := newFixture(t)

	stored := []domain.Event{
		{
			ID:        "evt-1",
			UserID:    "user-1",
			Title:     "会議",
			Location:  "渋谷",
			StartTime: testNow.Add(2 * time.Hour),
			EndTime:   testNow.Add(3 * time.Hour),
			Repeat:    domain.RepeatWeekly,
			CreatedAt: testNow,
			UpdatedAt: testNow,
		},
	}
	f.events.EXPECT().GetAll(gomock.Any(), "user-1").Return(stored, nil)

	got, err := f.service.ExportICS(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ExportICS() error = %v", err)
	}

	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "SUMMARY:会議", "RRULE:FREQ=WEEKLY", "LOCATION:渋谷"} {
		if !strings.Contains(got, want) {
			t.Errorf("ExportICS() output missing %q", want)
		}
	}
}

func TestICSFilename(t *testing.T) {
	if got := ICSFilename("user/1?x"); got != "events-user-1-x.ics" {
		t.Errorf("ICSFilename() = %q, want events-user-1-x.ics", got)
	}
}
