package config

import (
	"os"
	"time"
)

const (
	googleMapsAPIKeyEnv    = "GOOGLE_MAPS_API_KEY"
	googleMapsBaseURLEnv   = "GOOGLE_MAPS_BASE_URL"
	ekispertAPIKeyEnv      = "EKISPERT_API_KEY"
	ekispertBaseURLEnv     = "EKISPERT_BASE_URL"
	transitEstimatorEnv    = "TRANSIT_ESTIMATOR"
	routeTimeoutSecondsEnv = "ROUTE_TIMEOUT_SECONDS"

	defaultGoogleMapsBaseURL   = "https://maps.googleapis.com/maps/api"
	defaultEkispertBaseURL     = "https://api.ekispert.jp/v1/json"
	defaultRouteTimeoutSeconds = 10
)

// TransitEstimatorKind selects how transit durations are estimated.
type TransitEstimatorKind string

const (
	// TransitEstimatorHeuristic derives the transit duration from the
	// driving route with a distance-band multiplier table.
	TransitEstimatorHeuristic TransitEstimatorKind = "heuristic"
	// TransitEstimatorEkispert queries the Ekispert course search via
	// nearest-station lookup.
	TransitEstimatorEkispert TransitEstimatorKind = "ekispert"
)

type RouteConfig struct {
	GoogleMapsAPIKey  string
	GoogleMapsBaseURL string
	EkispertAPIKey    string
	EkispertBaseURL   string
	TransitEstimator  TransitEstimatorKind
	Timeout           time.Duration
}

func LoadRouteConfig() *RouteConfig {
	estimator := TransitEstimatorKind(os.Getenv(transitEstimatorEnv))
	switch estimator {
	case TransitEstimatorHeuristic, TransitEstimatorEkispert:
	default:
		estimator = TransitEstimatorHeuristic
	}

	return &RouteConfig{
		GoogleMapsAPIKey:  os.Getenv(googleMapsAPIKeyEnv),
		GoogleMapsBaseURL: envOrDefault(googleMapsBaseURLEnv, defaultGoogleMapsBaseURL),
		EkispertAPIKey:    os.Getenv(ekispertAPIKeyEnv),
		EkispertBaseURL:   envOrDefault(ekispertBaseURLEnv, defaultEkispertBaseURL),
		TransitEstimator:  estimator,
		Timeout:           time.Duration(envInt(routeTimeoutSecondsEnv, defaultRouteTimeoutSeconds)) * time.Second,
	}
}
