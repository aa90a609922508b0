//go:build gcloud

package planrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
)

type bigQueryRecord struct {
	RecordedAt           time.Time `bigquery:"recorded_at"`
	UserID               string    `bigquery:"user_id"`
	EventID              string    `bigquery:"event_id"`
	State                string    `bigquery:"state"`
	FireTime             time.Time `bigquery:"fire_time"`
	EffectiveLeadMinutes int64     `bigquery:"effective_lead_minutes"`
	WeatherExtraMinutes  int64     `bigquery:"weather_extra_minutes"`
	WeatherCategory      string    `bigquery:"weather_category"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (Recorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "plan outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, plan outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, plan outcome recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "plan outcome recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordPlanOutcome(ctx context.Context, record PlanOutcomeRecord) error {
	row := &bigQueryRecord{
		RecordedAt:           time.Now(),
		UserID:               record.UserID,
		EventID:              record.EventID,
		State:                record.State,
		FireTime:             record.FireTime,
		EffectiveLeadMinutes: int64(record.EffectiveLeadMinutes),
		WeatherExtraMinutes:  int64(record.WeatherExtraMinutes),
		WeatherCategory:      record.WeatherCategory,
	}

	if err := r.inserter.Put(ctx, []*bigQueryRecord{row}); err != nil {
		slog.WarnContext(ctx, "failed to insert plan outcome to BigQuery",
			slog.String("error", err.Error()),
			slog.String("event_id", record.EventID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
