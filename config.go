package main

import "os"

// Config holds the service configuration, read from the environment.
type Config struct {
	Port         string
	Environment  string
	KafkaBrokers string
	KafkaTopic   string
	SNSTopicArn  string
}

// LoadConfig reads configuration from the environment. Database settings are
// read by the database package directly.
func LoadConfig() *Config {
	return &Config{
		Port:         getEnv("PORT", "8084"),
		Environment:  getEnv("APP_ENV", "development"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("EVENTS_TOPIC", "marketplace.events"),
		SNSTopicArn:  os.Getenv("SNS_TOPIC_ARN"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
