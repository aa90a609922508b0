package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
	"github.com/soratobu/departure-planner/internal/observability/tracing"
)

// Client queries the OpenWeatherMap current-conditions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	lang       string
	httpClient *http.Client
}

func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		lang:    cfg.Lang,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *Client) CurrentConditions(ctx context.Context, coord domain.Coordinate) (*domain.WeatherConditions, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path += "/weather"
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", c.lang)
	u.RawQuery = q.Encode()

	ctx, span := tracing.StartExternalAPISpan(ctx, "weather.current", c.baseURL)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "weather request failed",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrWeatherLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "unexpected status code from weather API",
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrWeatherLookup, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", domain.ErrWeatherLookup, err)
	}

	var decoded currentWeatherResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrWeatherLookup, err)
	}
	if len(decoded.Weather) == 0 {
		return nil, fmt.Errorf("%w: response contains no weather entries", domain.ErrWeatherLookup)
	}

	conditions := &domain.WeatherConditions{
		Category:     decoded.Weather[0].Main,
		Description:  decoded.Weather[0].Description,
		Emoji:        Emoji(decoded.Weather[0].Main),
		TemperatureC: decoded.Main.Temp,
		Humidity:     decoded.Main.Humidity,
		WindSpeedMS:  decoded.Wind.Speed,
	}

	slog.DebugContext(ctx, "fetched current conditions",
		slog.String("category", conditions.Category),
		slog.Float64("temperature_c", conditions.TemperatureC),
	)

	return conditions, nil
}
