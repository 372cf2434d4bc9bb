package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/money"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	LogLevel    string
	Port        string
	CORSOrigins []string

	// Storage
	StorageDriver string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	// Spending policy (amounts in paise)
	DailyLimit               int64
	MonthlyLimit             int64
	Location                 *time.Location
	BlocklistFailMode        models.BlocklistFailMode
	LimitDuplicatePolicy     models.DuplicateLimitPolicy
	OverrideRecheckBlocklist bool
	PaymentAttemptRetention  time.Duration

	// UPI handoff
	Currency     string
	UPIScheme    string
	UPIBridgeURL string
	HTTPTimeout  time.Duration

	// Events & tracing
	AMQPURL      string
	AMQPExchange string
	OTLPEndpoint string

	SeedDemoData bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment
// without touching any .env file.
func FromEnv() (*Config, error) {
	config := &Config{
		// Server
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		// Storage
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "sqlite")),
		SQLitePath:    getEnv("SQLITE_PATH", "data/mindfulpay.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "mindfulpay"),
		DBPassword:    getEnv("DB_PASSWORD", "mindfulpay"),
		DBName:        getEnv("DB_NAME", "mindfulpay"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		// UPI handoff
		Currency:     strings.ToUpper(getEnv("CURRENCY", "INR")),
		UPIScheme:    getEnv("UPI_SCHEME", "upi"),
		UPIBridgeURL: getEnv("UPI_BRIDGE_URL", ""),

		// Events & tracing
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "mindfulpay.payments"),
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}

	switch config.StorageDriver {
	case "sqlite", "postgres", "mysql", "memory":
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: expected sqlite, postgres, mysql or memory", config.StorageDriver)
	}

	var err error
	if config.DailyLimit, err = parseLimit("DAILY_LIMIT", "5000"); err != nil {
		return nil, err
	}
	if config.MonthlyLimit, err = parseLimit("MONTHLY_LIMIT", "100000"); err != nil {
		return nil, err
	}

	tz := getEnv("TIMEZONE", "Local")
	config.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	config.BlocklistFailMode = models.BlocklistFailMode(strings.ToLower(getEnv("BLOCKLIST_FAIL_MODE", string(models.FailOpen))))
	if !config.BlocklistFailMode.Valid() {
		return nil, fmt.Errorf("invalid BLOCKLIST_FAIL_MODE %q: expected open or closed", config.BlocklistFailMode)
	}

	config.LimitDuplicatePolicy = models.DuplicateLimitPolicy(strings.ToLower(getEnv("LIMIT_DUPLICATE_POLICY", string(models.DuplicateReject))))
	if !config.LimitDuplicatePolicy.Valid() {
		return nil, fmt.Errorf("invalid LIMIT_DUPLICATE_POLICY %q", config.LimitDuplicatePolicy)
	}

	config.OverrideRecheckBlocklist = getBool("OVERRIDE_RECHECK_BLOCKLIST", false)
	config.SeedDemoData = getBool("SEED_DEMO_DATA", false)
	config.PaymentAttemptRetention = getDuration("PAYMENT_ATTEMPT_RETENTION", 24*time.Hour)
	config.HTTPTimeout = getDuration("HTTP_TIMEOUT", 10*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	switch c.StorageDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	default:
		return c.SQLitePath
	}
}

// MigrationURL returns the golang-migrate database URL for the configured driver.
func (c *Config) MigrationURL() string {
	switch c.StorageDriver {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
	case "mysql":
		return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	default:
		return "sqlite3://" + c.SQLitePath
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, v, defaultValue)
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, v, defaultValue)
		return defaultValue
	}
	return d
}

// parseLimit reads a rupee amount such as "5000" or "2500.50". "0" disables
// the limit.
func parseLimit(key, defaultValue string) (int64, error) {
	v := getEnv(key, defaultValue)
	if strings.TrimSpace(v) == "0" {
		return 0, nil
	}
	amount, err := money.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return amount, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
