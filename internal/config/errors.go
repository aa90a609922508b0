package config

import "errors"

var (
	ErrRedisAddrMissing      = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB        = errors.New("REDIS_DB must be a valid integer")
	ErrGoogleMapsKeyMissing  = errors.New("GOOGLE_MAPS_API_KEY is required for route search")
	ErrNotifierTargetMissing = errors.New("either PUSH_GATEWAY_URL or the GCLOUD_* queue settings are required")
)
