package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/observability/tracing"
)

const (
	cacheKey = "planner:holidays:jp"
	cacheTTL = 7 * 24 * time.Hour
)

// Client fetches Japanese public holidays from the holidays-jp API and
// caches the result in redis. When a refresh fails, the previously
// cached data is served instead.
type Client struct {
	url        string
	httpClient *http.Client
	redis      *redis.Client
}

func NewClient(cfg config.HolidayConfig, redisClient *redis.Client) *Client {
	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		redis: redisClient,
	}
}

// Holidays returns a map of ISO date (YYYY-MM-DD) to holiday name.
func (c *Client) Holidays(ctx context.Context) (map[string]string, error) {
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var holidays map[string]string
		if err := json.Unmarshal(data, &holidays); err == nil {
			return holidays, nil
		}
		slog.WarnContext(ctx, "cached holiday data is corrupt, refetching")
	}

	return c.Refresh(ctx)
}

// IsHoliday reports whether the given day is a public holiday, and the
// holiday's name when it is.
func (c *Client) IsHoliday(ctx context.Context, day time.Time) (bool, string, error) {
	holidays, err := c.Holidays(ctx)
	if err != nil {
		return false, "", err
	}

	name, ok := holidays[day.Format("2006-01-02")]
	return ok, name, nil
}

// Refresh fetches the holiday list from the upstream API and replaces
// the cache. On fetch failure the stale cache is returned if present.
func (c *Client) Refresh(ctx context.Context) (map[string]string, error) {
	holidays, err := c.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "holiday fetch failed, falling back to cache",
			slog.String("error", err.Error()),
		)
		if data, cacheErr := c.redis.Get(ctx, cacheKey).Bytes(); cacheErr == nil {
			var cached map[string]string
			if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
				return cached, nil
			}
		}
		return nil, err
	}

	data, err := json.Marshal(holidays)
	if err != nil {
		return holidays, nil
	}
	if err := c.redis.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
		slog.WarnContext(ctx, "failed to cache holiday data",
			slog.String("error", err.Error()),
		)
	}

	return holidays, nil
}

func (c *Client) fetch(ctx context.Context) (map[string]string, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "holidays.fetch", c.url)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var holidays map[string]string
	if err := json.Unmarshal(body, &holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	slog.InfoContext(ctx, "holiday data refreshed",
		slog.Int("count", len(holidays)),
	)

	return holidays, nil
}
