package planrecorder

import (
	"context"
	"time"
)

// PlanOutcomeRecord captures the result of one planning decision for
// offline analysis.
type PlanOutcomeRecord struct {
	UserID               string
	EventID              string
	State                string
	FireTime             time.Time
	EffectiveLeadMinutes int
	WeatherExtraMinutes  int
	WeatherCategory      string
}

// Recorder persists plan outcomes to an analytics backend. Recording is
// best effort and never fails the planning flow.
type Recorder interface {
	RecordPlanOutcome(ctx context.Context, record PlanOutcomeRecord) error
	Close() error
}

type noopRecorder struct{}

func NewNoopRecorder() Recorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPlanOutcome(_ context.Context, _ PlanOutcomeRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
