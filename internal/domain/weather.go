package domain

// Weather condition categories as reported by the weather collaborator.
// Matching is exact and case-sensitive.
const (
	ConditionClear        = "Clear"
	ConditionClouds       = "Clouds"
	ConditionRain         = "Rain"
	ConditionSnow         = "Snow"
	ConditionThunderstorm = "Thunderstorm"
	ConditionDrizzle      = "Drizzle"
)

// WeatherConditions is the observed weather at a coordinate.
type WeatherConditions struct {
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Emoji        string  `json:"emoji"`
	TemperatureC float64 `json:"temperature_c"`
	Humidity     int     `json:"humidity"`
	WindSpeedMS  float64 `json:"wind_speed_ms"`
}

// WeatherAdjustmentPolicy maps forecast condition categories to extra lead
// minutes. Zero means no adjustment for that condition.
type WeatherAdjustmentPolicy struct {
	Enabled             bool `json:"enabled"`
	RainMinutes         int  `json:"rain_minutes"`
	SnowMinutes         int  `json:"snow_minutes"`
	ThunderstormMinutes int  `json:"thunderstorm_minutes"`
	CloudyMinutes       int  `json:"cloudy_minutes"`
}

// DefaultWeatherAdjustmentPolicy mirrors the defaults applied when a user
// has never saved a policy.
func DefaultWeatherAdjustmentPolicy() WeatherAdjustmentPolicy {
	return WeatherAdjustmentPolicy{
		Enabled:             true,
		RainMinutes:         15,
		SnowMinutes:         15,
		ThunderstormMinutes: 15,
		CloudyMinutes:       15,
	}
}

func (p WeatherAdjustmentPolicy) Validate() error {
	if p.RainMinutes < 0 || p.SnowMinutes < 0 || p.ThunderstormMinutes < 0 || p.CloudyMinutes < 0 {
		return ErrNegativePolicyMinutes
	}
	return nil
}

// ExtraMinutesFor returns the extra lead minutes for a condition category.
// Unknown categories map to zero.
func (p WeatherAdjustmentPolicy) ExtraMinutesFor(category string) int {
	switch category {
	case ConditionRain:
		return p.RainMinutes
	case ConditionSnow:
		return p.SnowMinutes
	case ConditionThunderstorm:
		return p.ThunderstormMinutes
	case ConditionClouds:
		return p.CloudyMinutes
	default:
		return 0
	}
}
