package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Env             string
	MongoURI        string
	MongoDB         string
	RedisURL        string
	KafkaBrokers    string
	KafkaOrderTopic string
	StripeSecretKey string
	ClientDomain    string
	JWTSecret       string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("ENV", "development"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDB:         getEnv("MONGODB_DB", "ticketDB"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		ClientDomain:    getEnv("CLIENT_DOMAIN", "http://localhost:5173"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
	}

	if cfg.MongoURI == "" || cfg.StripeSecretKey == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
