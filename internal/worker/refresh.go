package worker

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/soratobu/departure-planner/internal/infra/holiday"
)

// holidayRefreshSpec runs daily before the first commuter departures.
const holidayRefreshSpec = "0 4 * * *"

// HolidayRefresher keeps the cached holiday data warm so date checks
// never wait on the upstream API.
type HolidayRefresher struct {
	cron    *cron.Cron
	client  *holiday.Client
	baseCtx context.Context
}

func NewHolidayRefresher(ctx context.Context, client *holiday.Client) *HolidayRefresher {
	return &HolidayRefresher{
		cron:    cron.New(),
		client:  client,
		baseCtx: ctx,
	}
}

// Start warms the cache once and schedules the daily refresh.
func (r *HolidayRefresher) Start() error {
	if _, err := r.client.Refresh(r.baseCtx); err != nil {
		slog.WarnContext(r.baseCtx, "initial holiday refresh failed",
			slog.String("error", err.Error()),
		)
	}

	_, err := r.cron.AddFunc(holidayRefreshSpec, func() {
		if _, err := r.client.Refresh(r.baseCtx); err != nil {
			slog.WarnContext(r.baseCtx, "scheduled holiday refresh failed",
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	slog.InfoContext(r.baseCtx, "holiday refresh worker started",
		slog.String("schedule", holidayRefreshSpec),
	)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *HolidayRefresher) Stop() {
	<-r.cron.Stop().Done()
}
