package event

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/soratobu/departure-planner/internal/domain"
)

// expandOccurrences replaces recurring events with their concrete
// occurrences inside [from, to]. Non-recurring events pass through when
// they overlap the window.
func expandOccurrences(events []domain.Event, from, to time.Time) ([]domain.Event, error) {
	var expanded []domain.Event

	for _, ev := range events {
		if ev.Repeat == domain.RepeatNone || ev.Repeat == "" {
			if overlaps(ev.StartTime, ev.EndTime, from, to) {
				expanded = append(expanded, ev)
			}
			continue
		}

		freq, err := repeatFrequency(ev.Repeat)
		if err != nil {
			return nil, err
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:    freq,
			Dtstart: ev.StartTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build recurrence rule for event %s: %w", ev.ID, err)
		}

		duration := ev.EndTime.Sub(ev.StartTime)
		for _, occurrence := range rule.Between(from, to, true) {
			instance := ev
			instance.StartTime = occurrence
			instance.EndTime = occurrence.Add(duration)
			expanded = append(expanded, instance)
		}
	}

	if expanded == nil {
		expanded = []domain.Event{}
	}
	return expanded, nil
}

func repeatFrequency(repeat domain.Repeat) (rrule.Frequency, error) {
	switch repeat {
	case domain.RepeatDaily:
		return rrule.DAILY, nil
	case domain.RepeatWeekly:
		return rrule.WEEKLY, nil
	case domain.RepeatMonthly:
		return rrule.MONTHLY, nil
	default:
		return 0, fmt.Errorf("unsupported repeat: %s", repeat)
	}
}

func overlaps(start, end, from, to time.Time) bool {
	if end.IsZero() {
		end = start
	}
	return !start.After(to) && !end.Before(from)
}
