// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion string
	TableName string
	IndexName string // GSI1 - family-scoped lookups

	// Lambda configuration
	IsLambda bool

	// Reminder configuration. TZOffsetMinutes pins the "start of today"
	// boundary to one reference timezone (default 540 = UTC+9) no matter
	// where the process is deployed.
	TZOffsetMinutes int

	// Push delivery (VAPID). Keys may be set directly or fetched from
	// Secrets Manager under VAPIDSecretName on first use.
	VAPIDSecretName string
	VAPIDSubject    string
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// Observability
	LogLevel         string
	MetricsNamespace string
	EnableMetrics    bool
	AlertBusName     string
	AlertSource      string

	// Authentication (standalone server mode; under API Gateway the
	// authorizer validates tokens before they reach us)
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "ap-northeast-1"),
		TableName:     getEnv("TABLE_NAME", "handwash"),
		IndexName:     getEnv("INDEX_NAME", "GSI1"),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		TZOffsetMinutes: getEnvInt("TZ_OFFSET_MINUTES", 540),

		VAPIDSecretName: getEnv("VAPID_SECRET_NAME", "handwash/vapid"),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", ""),
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Handwash"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		AlertBusName:     getEnv("ALERT_BUS_NAME", ""),
		AlertSource:      getEnv("ALERT_SOURCE", "handwash-backend"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if !c.IsLambda && c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.VAPIDSecretName == "" && (c.VAPIDPublicKey == "" || c.VAPIDPrivateKey == "") {
			return fmt.Errorf("VAPID keys or VAPID_SECRET_NAME are required in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
