package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	DatabaseDriver string
	RedisURL       string
	JWTSecret      string
	ServerPort     string
	Environment    string
	JWTExpiry      time.Duration

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// Uploads
	UploadDir             string
	AvatarMaxBytes        int64
	PropertyImageMaxBytes int64

	// Domain events
	EventBroker      string
	KafkaBrokers     []string
	KafkaTopicPrefix string

	CORSAllowedOrigins []string
}

// IsDevelopment reports whether verbose console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ServerPort:     getEnv("SERVER_PORT", ":3000"),
		Environment:    os.Getenv("ENVIRONMENT"),
		JWTExpiry:      expiry,

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),

		UploadDir:             getEnv("UPLOAD_DIR", "public/uploads"),
		AvatarMaxBytes:        int64(getEnvAsInt("AVATAR_MAX_BYTES", 5<<20)),
		PropertyImageMaxBytes: int64(getEnvAsInt("PROPERTY_IMAGE_MAX_BYTES", 10<<20)),

		EventBroker:      getEnv("EVENT_BROKER", "none"),
		KafkaBrokers:     getEnvAsList("KAFKA_BROKERS"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "realestate"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.EventBroker {
	case "none", "redis", "kafka":
	default:
		return fmt.Errorf("unsupported EVENT_BROKER %q", c.EventBroker)
	}
	if c.EventBroker == "redis" && c.RedisURL == "" {
		return errors.New("EVENT_BROKER=redis requires REDIS_URL")
	}
	if c.EventBroker == "kafka" && len(c.KafkaBrokers) == 0 {
		return errors.New("EVENT_BROKER=kafka requires KAFKA_BROKERS")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
