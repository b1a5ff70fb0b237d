package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/odark007/liq-store/database"
	awspkg "github.com/odark007/liq-store/pkg/aws"
)

// Config holds all configuration for the storefront backend.
type Config struct {
	Port        string
	Environment string

	Postgres database.PostgresConfig

	RedisAddr     string
	RedisPassword string
	CartTTLHours  int

	JWTSecret string

	PaystackSecretKey string
	// NotifyGatewayOrdersImmediately sends the new-order notification pair
	// at placement even for gateway payments, instead of waiting for the
	// payment webhook. Off in production; useful in test environments where
	// no webhook ever arrives.
	NotifyGatewayOrdersImmediately bool

	ArkeselAPIKey   string
	ArkeselSenderID string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	OrderSNSTopicARN string
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Africa/Accra"),
		},
		RedisAddr:                      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:                  os.Getenv("REDIS_PASSWORD"),
		CartTTLHours:                   72,
		JWTSecret:                      os.Getenv("JWT_SECRET"),
		PaystackSecretKey:              os.Getenv("PAYSTACK_SECRET_KEY"),
		NotifyGatewayOrdersImmediately: os.Getenv("NOTIFY_GATEWAY_ORDERS_IMMEDIATELY") == "true",
		ArkeselAPIKey:                  os.Getenv("ARKESEL_API_KEY"),
		ArkeselSenderID:                getEnv("ARKESEL_SENDER_ID", "LiqStore"),
		SMTPHost:                       os.Getenv("SMTP_HOST"),
		SMTPPort:                       getEnv("SMTP_PORT", "587"),
		SMTPUser:                       os.Getenv("SMTP_USER"),
		SMTPPass:                       os.Getenv("SMTP_PASS"),
		OrderSNSTopicARN:               os.Getenv("ORDER_SNS_TOPIC_ARN"),
	}

	// Override sensitive values from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if dbjson, err := sm.GetSecret(context.Background(), "liqstore/DB_CREDENTIALS"); err == nil && dbjson != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(dbjson), &m); err == nil {
					if v, ok := m["POSTGRES_USER"]; ok && v != "" {
						cfg.Postgres.User = v
					}
					if v, ok := m["POSTGRES_PASSWORD"]; ok && v != "" {
						cfg.Postgres.Password = v
					}
					if v, ok := m["POSTGRES_DB"]; ok && v != "" {
						cfg.Postgres.Name = v
					}
					if v, ok := m["POSTGRES_HOST"]; ok && v != "" {
						cfg.Postgres.Host = v
					}
					if v, ok := m["POSTGRES_PORT"]; ok && v != "" {
						cfg.Postgres.Port = v
					}
				}
			}
			if v, err := sm.GetSecret(context.Background(), "liqstore/PAYSTACK_SECRET_KEY"); err == nil && v != "" {
				cfg.PaystackSecretKey = v
			}
			if v, err := sm.GetSecret(context.Background(), "liqstore/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
			if v, err := sm.GetSecret(context.Background(), "liqstore/ARKESEL_API_KEY"); err == nil && v != "" {
				cfg.ArkeselAPIKey = v
			}
		}
	}

	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.Name == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
