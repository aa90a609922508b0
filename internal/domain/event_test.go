package domain

import (
	"testing"
	"time"
)

func validEvent() Event {
	start := time.Now().Add(time.Hour)
	return Event{
		ID:        "event-1",
		UserID:    "user-1",
		Title:     "Meeting",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr error
	}{
		{
			name:    "valid event",
			mutate:  func(e *Event) {},
			wantErr: nil,
		},
		{
			name:    "empty title",
			mutate:  func(e *Event) { e.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "end equals start",
			mutate:  func(e *Event) { e.EndTime = e.StartTime },
			wantErr: ErrEndBeforeStart,
		},
		{
			name:    "end before start",
			mutate:  func(e *Event) { e.EndTime = e.StartTime.Add(-time.Minute) },
			wantErr: ErrEndBeforeStart,
		},
		{
			name: "all-day event ignores end before start",
			mutate: func(e *Event) {
				e.AllDay = true
				e.EndTime = e.StartTime
			},
			wantErr: nil,
		},
		{
			name:    "negative travel time",
			mutate:  func(e *Event) { e.TravelTimeMinutes = -5 },
			wantErr: ErrNegativeTravelTime,
		},
		{
			name: "negative lead minutes",
			mutate: func(e *Event) {
				e.NotificationEnabled = true
				e.NotificationLeadMinutes = -1
			},
			wantErr: ErrNegativeLeadMinutes,
		},
		{
			name:    "unknown repeat",
			mutate:  func(e *Event) { e.Repeat = "yearly" },
			wantErr: ErrInvalidRepeat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent()
			tt.mutate(&ev)

			err := ev.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !IsValidation(err) {
				t.Errorf("IsValidation(%v) = false, want true", err)
			}
		})
	}
}

func TestEventWantsNotification(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		lead    int
		want    bool
	}{
		{"enabled with positive lead", true, 15, true},
		{"enabled with zero lead", true, 0, false},
		{"disabled", false, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent()
			ev.NotificationEnabled = tt.enabled
			ev.NotificationLeadMinutes = tt.lead

			if got := ev.WantsNotification(); got != tt.want {
				t.Errorf("WantsNotification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyExtraMinutesFor(t *testing.T) {
	policy := WeatherAdjustmentPolicy{
		Enabled:             true,
		RainMinutes:         15,
		SnowMinutes:         20,
		ThunderstormMinutes: 25,
		CloudyMinutes:       5,
	}

	tests := []struct {
		category string
		want     int
	}{
		{ConditionRain, 15},
		{ConditionSnow, 20},
		{ConditionThunderstorm, 25},
		{ConditionClouds, 5},
		{ConditionClear, 0},
		{ConditionDrizzle, 0},
		// Matching is case-sensitive.
		{"rain", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := policy.ExtraMinutesFor(tt.category); got != tt.want {
				t.Errorf("ExtraMinutesFor(%q) = %d, want %d", tt.category, got, tt.want)
			}
		})
	}
}
