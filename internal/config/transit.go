package config

import "os"

type TransitInfoConfig struct {
	ODPTAPIKey string
}

func LoadTransitInfoConfig() *TransitInfoConfig {
	return &TransitInfoConfig{
		ODPTAPIKey: os.Getenv("ODPT_API_KEY"),
	}
}
