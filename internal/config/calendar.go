package config

import "os"

// CalendarConfig holds the Google Calendar OAuth client settings.
type CalendarConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func LoadCalendarConfig() *CalendarConfig {
	return &CalendarConfig{
		ClientID:     os.Getenv("GOOGLE_CALENDAR_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CALENDAR_CLIENT_SECRET"),
		RedirectURL:  envOrDefault("GOOGLE_CALENDAR_REDIRECT_URL", "http://localhost"),
	}
}

type HolidayConfig struct {
	URL string
}

func LoadHolidayConfig() *HolidayConfig {
	return &HolidayConfig{
		URL: envOrDefault("HOLIDAY_API_URL", "https://holidays-jp.github.io/api/v1/date.json"),
	}
}
