package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment      string `envconfig:"RELAY_ENVIRONMENT" default:"development"`
	Port             string `envconfig:"RELAY_PORT" default:"8080"`
	Host             string `envconfig:"RELAY_HOST" default:"localhost:8080"`
	DataFile         string `envconfig:"RELAY_DATA_FILE" default:"starpulse-events.json"`
	SubscriberBuffer int    `envconfig:"RELAY_SUBSCRIBER_BUFFER" default:"64"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
