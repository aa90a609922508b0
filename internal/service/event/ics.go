package event

import (
	"context"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"

	"github.com/soratobu/departure-planner/internal/domain"
)

// ExportICS serializes the user's events as an iCalendar document.
// Recurring events carry an RRULE instead of being expanded.
func (s *Service) ExportICS(ctx context.Context, userID string) (string, error) {
	events, err := s.events.GetAll(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load events: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//departure-planner//EN")

	for _, ev := range events {
		entry := cal.AddEvent(ev.ID)
		entry.SetSummary(ev.Title)
		entry.SetCreatedTime(ev.CreatedAt)
		entry.SetModifiedAt(ev.UpdatedAt)

		if ev.AllDay {
			entry.SetAllDayStartAt(ev.StartTime)
			entry.SetAllDayEndAt(ev.EndTime)
		} else {
			entry.SetStartAt(ev.StartTime)
			entry.SetEndAt(ev.EndTime)
		}

		if ev.Location != "" {
			entry.SetLocation(ev.Location)
		}
		if rule := icsRRule(ev.Repeat); rule != "" {
			entry.AddRrule(rule)
		}
	}

	return cal.Serialize(), nil
}

func icsRRule(repeat domain.Repeat) string {
	switch repeat {
	case domain.RepeatDaily:
		return "FREQ=DAILY"
	case domain.RepeatWeekly:
		return "FREQ=WEEKLY"
	case domain.RepeatMonthly:
		return "FREQ=MONTHLY"
	default:
		return ""
	}
}

// ICSFilename builds a stable attachment name for a user's export.
func ICSFilename(userID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, userID)
	return "events-" + safe + ".ics"
}
