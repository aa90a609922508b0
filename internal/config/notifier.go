package config

import (
	"os"
)

type NotifierConfig struct {
	PushGatewayURL string
	QueueName      string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func LoadNotifierConfig() NotifierConfig {
	queueName := os.Getenv("NOTIFY_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	return NotifierConfig{
		PushGatewayURL: os.Getenv("PUSH_GATEWAY_URL"),
		QueueName:      queueName,

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

		MaxRetries: envInt("NOTIFY_MAX_RETRIES", 3),
	}
}
