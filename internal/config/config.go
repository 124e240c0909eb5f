package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Gateway   GatewayConfig
	Payments  PaymentsConfig
	Mail      MailConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Outbox    OutboxConfig
	RateLimit RateLimitConfig
	SeedDemo  bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file or DSN
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// GatewayConfig configures the simulated payment gateway
type GatewayConfig struct {
	Delay        time.Duration
	ApprovalRate float64
}

// PaymentsConfig holds payment lifecycle options
type PaymentsConfig struct {
	// OwnerScopedDelete restricts deletes to the caller's own records.
	OwnerScopedDelete bool
}

// MailConfig holds SMTP configuration. Empty Host disables email.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RedisConfig holds the listing cache configuration. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig holds the notification publisher configuration.
// No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// OutboxConfig controls notification delivery
type OutboxConfig struct {
	Schedule    string
	BatchSize   int
	MaxAttempts int
	Retention   time.Duration
}

// RateLimitConfig holds limiter settings. Max <= 0 disables a limiter.
type RateLimitConfig struct {
	Max     int
	AuthMax int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "8080"),
		Database:  loadDatabaseConfig(appMode),
		JWT:       loadJWTConfig(appMode),
		Cookie:    loadCookieConfig(appMode),
		Gateway:   loadGatewayConfig(),
		Payments:  PaymentsConfig{OwnerScopedDelete: getEnvBool("PAYMENTS_OWNER_SCOPED_DELETE", true)},
		Mail:      loadMailConfig(),
		Redis:     loadRedisConfig(),
		Kafka:     loadKafkaConfig(),
		Outbox:    loadOutboxConfig(),
		RateLimit: RateLimitConfig{Max: getEnvInt("RATE_LIMIT_MAX", 100), AuthMax: getEnvInt("AUTH_RATE_LIMIT_MAX", 5)},
		SeedDemo:  getEnvBool("SEED_DEMO_USER", appMode == "dev"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}
	if c.IsProd() && (c.JWT.Secret == "" || c.JWT.Secret == "default_secret") {
		return fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}
	if c.Gateway.ApprovalRate < 0 || c.Gateway.ApprovalRate > 1 {
		return fmt.Errorf("invalid GATEWAY_APPROVAL_RATE: %v (must be within [0,1])", c.Gateway.ApprovalRate)
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "payments"),
		Path:     getEnv("DB_PATH", "payments.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	return JWTConfig{
		Secret:          getEnv(modePrefix(mode)+"JWT_SECRET", "default_secret"),
		AccessTokenMins: getEnvInt("ACCESS_TOKEN_MINUTES", 60),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	return CookieConfig{
		Secure:   getEnvBool(modePrefix(mode)+"COOKIE_SECURE", false),
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadGatewayConfig() GatewayConfig {
	rate, err := strconv.ParseFloat(getEnv("GATEWAY_APPROVAL_RATE", "0.7"), 64)
	if err != nil {
		rate = 0.7
	}
	return GatewayConfig{
		Delay:        getEnvDuration("GATEWAY_DELAY", time.Second),
		ApprovalRate: rate,
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@payments.local"),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
}

func loadKafkaConfig() KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Brokers: brokers,
		Topic:   getEnv("KAFKA_TOPIC", "payment.notifications"),
	}
}

func loadOutboxConfig() OutboxConfig {
	return OutboxConfig{
		Schedule:    getEnv("OUTBOX_SCHEDULE", "@every 30s"),
		BatchSize:   getEnvInt("OUTBOX_BATCH_SIZE", 50),
		MaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
		Retention:   getEnvDuration("OUTBOX_RETENTION", 7*24*time.Hour),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
