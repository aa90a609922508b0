package weather

import (
	"fmt"

	"github.com/soratobu/departure-planner/internal/domain"
)

// Emoji maps an OpenWeatherMap condition category to a display emoji.
func Emoji(category string) string {
	switch category {
	case domain.ConditionClear:
		return "☀️"
	case domain.ConditionClouds:
		return "☁️"
	case domain.ConditionRain:
		return "🌧️"
	case domain.ConditionSnow:
		return "❄️"
	case domain.ConditionThunderstorm:
		return "⛈️"
	case domain.ConditionDrizzle:
		return "🌦️"
	case "Mist", "Fog", "Haze":
		return "🌫️"
	default:
		return "🌈"
	}
}

// RecommendedMode suggests a transport mode for the given conditions.
type Recommendation struct {
	Mode   domain.TransportMode `json:"mode"`
	Reason string               `json:"reason"`
}

func RecommendedMode(w *domain.WeatherConditions) Recommendation {
	switch w.Category {
	case domain.ConditionRain, domain.ConditionSnow, domain.ConditionThunderstorm:
		return Recommendation{
			Mode:   domain.ModeTransit,
			Reason: fmt.Sprintf("%s %s expected, public transit recommended", w.Emoji, w.Description),
		}
	}

	if w.Category == domain.ConditionClear && w.TemperatureC >= 15 && w.TemperatureC <= 25 {
		return Recommendation{
			Mode:   domain.ModeWalking,
			Reason: fmt.Sprintf("%s pleasant weather, walking is an option", w.Emoji),
		}
	}

	return Recommendation{
		Mode:   domain.ModeTransit,
		Reason: fmt.Sprintf("%s %s", w.Emoji, w.Description),
	}
}

// TravelTimeMultiplier returns a factor to inflate travel durations in
// adverse conditions.
func TravelTimeMultiplier(w *domain.WeatherConditions) float64 {
	switch w.Category {
	case domain.ConditionRain:
		return 1.1
	case domain.ConditionSnow:
		return 1.2
	case domain.ConditionThunderstorm:
		return 1.15
	default:
		return 1.0
	}
}
