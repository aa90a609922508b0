package config

import (
	"os"
	"time"
)

const (
	openWeatherAPIKeyEnv     = "OPENWEATHER_API_KEY"
	openWeatherBaseURLEnv    = "OPENWEATHER_BASE_URL"
	weatherTimeoutSecondsEnv = "WEATHER_TIMEOUT_SECONDS"

	defaultOpenWeatherBaseURL    = "https://api.openweathermap.org/data/2.5"
	defaultWeatherTimeoutSeconds = 5
)

// WeatherConfig configures the weather collaborator. The lookup timeout is
// deliberately short: weather adjustment is a best-effort enhancement and
// must never block an event save.
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Lang    string
}

func LoadWeatherConfig() *WeatherConfig {
	return &WeatherConfig{
		APIKey:  os.Getenv(openWeatherAPIKeyEnv),
		BaseURL: envOrDefault(openWeatherBaseURLEnv, defaultOpenWeatherBaseURL),
		Timeout: time.Duration(envInt(weatherTimeoutSecondsEnv, defaultWeatherTimeoutSeconds)) * time.Second,
		Lang:    envOrDefault("OPENWEATHER_LANG", "ja"),
	}
}
