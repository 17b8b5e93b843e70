package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration

	// Storage: "postgres" or "memory" (dev only)
	Storage string

	// PostgreSQL
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	LockTimeout      time.Duration

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// RabbitMQ (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
}

func New() *Config {
	return &Config{
		// Server
		ServerAddress: getEnv("SERVER_ADDRESS", ":8090"),
		ReadTimeout:   getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:  getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),

		Storage: getEnv("STORAGE", "postgres"),

		// PostgreSQL
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "smartfinance"),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		LockTimeout:      getEnvAsDuration("LOCK_TIMEOUT", 3*time.Second),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "smartfinance-dev-secret"),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		// RabbitMQ
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "smartfinance.transactions"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
