package config

// ValidateForRun checks the configuration needed to serve requests.
// Optional collaborators (weather, Ekispert, calendar) degrade at call
// time instead of failing startup.
func ValidateForRun(cfg *Config) error {
	if cfg.Route.GoogleMapsAPIKey == "" {
		return ErrGoogleMapsKeyMissing
	}
	return nil
}

// Validate checks that at least one notification backend is configured.
func (c NotifierConfig) Validate() error {
	if c.PushGatewayURL != "" {
		return nil
	}
	if c.GCloudProjectID != "" && c.GCloudLocationID != "" && c.GCloudQueueID != "" && c.GCloudTargetURL != "" {
		return nil
	}
	return ErrNotifierTargetMissing
}
