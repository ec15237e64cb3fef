package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime setting. Values come from the environment,
// optionally seeded from a .env file in development.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"crowdship"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	LocationTTL   time.Duration `env:"LOCATION_TTL" envDefault:"24h"`

	KafkaBrokers                []string `env:"KAFKA_BROKERS"`
	KafkaAnnouncementEventTopic string   `env:"KAFKA_ANNOUNCEMENT_EVENT_TOPIC" envDefault:"announcement.events"`
	KafkaDeliveryEventTopic     string   `env:"KAFKA_DELIVERY_EVENT_TOPIC" envDefault:"delivery.events"`

	AuthServiceURL string `env:"AUTH_SERVICE_URL"`

	ConfirmationCodeLength  int           `env:"CONFIRMATION_CODE_LENGTH" envDefault:"6"`
	ConfirmationMaxAttempts int           `env:"CONFIRMATION_MAX_ATTEMPTS" envDefault:"3"`
	AnnouncementRetention   time.Duration `env:"ANNOUNCEMENT_RETENTION" envDefault:"720h"`
	MaxActiveDeliveries     int           `env:"MAX_ACTIVE_DELIVERIES" envDefault:"3"`
	PlatformFeeRate         float64       `env:"PLATFORM_FEE_RATE" envDefault:"0.15"`
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	return config, nil
}

// DatabaseDSN builds the postgres connection string.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
