package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	Redis    *RedisConfig
	Weather  *WeatherConfig
	Route    *RouteConfig
	Planner  *PlannerConfig
	Notifier NotifierConfig
	Calendar *CalendarConfig
	Holiday  *HolidayConfig
	Transit  *TransitInfoConfig
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		Redis:    redisConfig,
		Weather:  LoadWeatherConfig(),
		Route:    LoadRouteConfig(),
		Planner:  LoadPlannerConfig(),
		Notifier: LoadNotifierConfig(),
		Calendar: LoadCalendarConfig(),
		Holiday:  LoadHolidayConfig(),
		Transit:  LoadTransitInfoConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
