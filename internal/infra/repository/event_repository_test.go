package repository

import (
	"context"
	"testing"
	"time"

	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/testutil"
)

func TestEventRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)

	repo := NewEventRepository(client)

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{
			ID:                      "evt-1",
			UserID:                  "user-1",
			Title:                   "朝の打ち合わせ",
			StartTime:               start,
			EndTime:                 start.Add(time.Hour),
			Repeat:                  domain.RepeatNone,
			TravelTimeMinutes:       25,
			NotificationEnabled:     true,
			NotificationLeadMinutes: 15,
		},
		{
			ID:        "evt-2",
			UserID:    "user-1",
			Title:     "歯医者",
			StartTime: start.Add(24 * time.Hour),
			EndTime:   start.Add(25 * time.Hour),
			Repeat:    domain.RepeatWeekly,
		},
	}

	if err := repo.SaveAll(ctx, "user-1", events); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	got, err := repo.GetAll(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetAll() returned %d events, want 2", len(got))
	}
	if got[0].ID != "evt-1" || got[0].Title != "朝の打ち合わせ" {
		t.Errorf("first event = %+v, want evt-1", got[0])
	}
	if !got[0].StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", got[0].StartTime, start)
	}
	if got[1].Repeat != domain.RepeatWeekly {
		t.Errorf("Repeat = %v, want %v", got[1].Repeat, domain.RepeatWeekly)
	}
}

func TestEventRepositoryGetAllEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)

	repo := NewEventRepository(client)

	got, err := repo.GetAll(ctx, "user-without-events")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetAll() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("GetAll() returned %d events, want 0", len(got))
	}
}

func TestEventRepositorySaveAllReplacesList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)

	repo := NewEventRepository(client)

	first := []domain.Event{{ID: "evt-1", UserID: "user-2", Title: "first"}}
	second := []domain.Event{{ID: "evt-2", UserID: "user-2", Title: "second"}}

	if err := repo.SaveAll(ctx, "user-2", first); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if err := repo.SaveAll(ctx, "user-2", second); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	got, err := repo.GetAll(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "evt-2" {
		t.Errorf("GetAll() = %+v, want only evt-2", got)
	}
}

func TestPolicyRepositoryDefaultAndSave(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)

	repo := NewPolicyRepository(client)

	got, err := repo.Get(ctx, "user-3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := domain.DefaultWeatherAdjustmentPolicy()
	if *got != want {
		t.Errorf("Get() with no stored policy = %+v, want default %+v", got, want)
	}

	custom := domain.WeatherAdjustmentPolicy{
		Enabled:             true,
		RainMinutes:         10,
		SnowMinutes:         30,
		ThunderstormMinutes: 20,
		CloudyMinutes:       0,
	}
	if err := repo.Save(ctx, "user-3", &custom); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err = repo.Get(ctx, "user-3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != custom {
		t.Errorf("Get() after save = %+v, want %+v", got, custom)
	}
}

func TestPolicyRepositorySaveInvalid(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)

	repo := NewPolicyRepository(client)

	bad := domain.WeatherAdjustmentPolicy{Enabled: true, RainMinutes: -5}
	if err := repo.Save(ctx, "user-4", &bad); err == nil {
		t.Error("Save() with negative minutes succeeded, want error")
	}

	if err := repo.Save(ctx, "user-4", nil); err == nil {
		t.Error("Save(nil) succeeded, want error")
	}
}
