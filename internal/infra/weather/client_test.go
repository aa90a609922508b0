package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/domain"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(&config.WeatherConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Lang:    "ja",
	})
}

func TestCurrentConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "light rain"}],
			"main": {"temp": 18.4, "humidity": 82},
			"wind": {"speed": 3.2}
		}`))
	}))
	defer srv.Close()

	got, err := testClient(srv).CurrentConditions(context.Background(), domain.Coordinate{Latitude: 35.68, Longitude: 139.76})
	if err != nil {
		t.Fatalf("CurrentConditions() error = %v", err)
	}

	if got.Category != domain.ConditionRain {
		t.Errorf("Category = %q, want %q", got.Category, domain.ConditionRain)
	}
	if got.Description != "light rain" {
		t.Errorf("Description = %q, want %q", got.Description, "light rain")
	}
	if got.Emoji != "🌧️" {
		t.Errorf("Emoji = %q, want 🌧️", got.Emoji)
	}
	if got.TemperatureC != 18.4 {
		t.Errorf("TemperatureC = %v, want 18.4", got.TemperatureC)
	}
	if got.Humidity != 82 {
		t.Errorf("Humidity = %v, want 82", got.Humidity)
	}
}

func TestCurrentConditionsPropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = w.Write([]byte(`{
			"weather": [{"main": "Clear", "description": "clear sky"}],
			"main": {"temp": 20, "humidity": 40},
			"wind": {"speed": 1.0}
		}`))
	}))
	defer srv.Close()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	if _, err := testClient(srv).CurrentConditions(ctx, domain.Coordinate{}); err != nil {
		t.Fatalf("CurrentConditions() error = %v", err)
	}
	if traceparent == "" {
		t.Error("outgoing request carries no traceparent header")
	}
}

func TestCurrentConditionsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv).CurrentConditions(context.Background(), domain.Coordinate{})
	if err == nil {
		t.Fatal("CurrentConditions() error = nil, want error")
	}
	if !errors.Is(err, domain.ErrWeatherLookup) {
		t.Errorf("error %v is not ErrWeatherLookup", err)
	}
}

func TestCurrentConditionsEmptyWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"weather": [], "main": {}, "wind": {}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).CurrentConditions(context.Background(), domain.Coordinate{})
	if !errors.Is(err, domain.ErrWeatherLookup) {
		t.Errorf("error = %v, want ErrWeatherLookup", err)
	}
}

func TestTravelTimeMultiplier(t *testing.T) {
	tests := []struct {
		category string
		want     float64
	}{
		{domain.ConditionRain, 1.1},
		{domain.ConditionSnow, 1.2},
		{domain.ConditionThunderstorm, 1.15},
		{domain.ConditionClear, 1.0},
		{domain.ConditionClouds, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := TravelTimeMultiplier(&domain.WeatherConditions{Category: tt.category})
			if got != tt.want {
				t.Errorf("TravelTimeMultiplier(%s) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestRecommendedMode(t *testing.T) {
	rainy := &domain.WeatherConditions{Category: domain.ConditionRain, Description: "rain", Emoji: "🌧️"}
	if got := RecommendedMode(rainy); got.Mode != domain.ModeTransit {
		t.Errorf("RecommendedMode(rain) = %s, want transit", got.Mode)
	}

	mild := &domain.WeatherConditions{Category: domain.ConditionClear, TemperatureC: 20, Emoji: "☀️"}
	if got := RecommendedMode(mild); got.Mode != domain.ModeWalking {
		t.Errorf("RecommendedMode(mild clear) = %s, want walking", got.Mode)
	}

	hot := &domain.WeatherConditions{Category: domain.ConditionClear, TemperatureC: 33, Emoji: "☀️"}
	if got := RecommendedMode(hot); got.Mode != domain.ModeTransit {
		t.Errorf("RecommendedMode(hot clear) = %s, want transit", got.Mode)
	}
}
