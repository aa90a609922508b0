//go:build !gcloud

package planrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (Recorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "plan outcome recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, plan outcome recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "plan outcome recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordPlanOutcome(ctx context.Context, record PlanOutcomeRecord) error {
	point := influxdb2.NewPoint(
		"plan_outcome",
		map[string]string{
			"state":            record.State,
			"weather_category": record.WeatherCategory,
		},
		map[string]any{
			"user_id":                record.UserID,
			"event_id":               record.EventID,
			"effective_lead_minutes": record.EffectiveLeadMinutes,
			"weather_extra_minutes":  record.WeatherExtraMinutes,
			"fire_unix":              record.FireTime.Unix(),
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write plan outcome to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("event_id", record.EventID),
			slog.String("state", record.State),
		)
	}

	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
