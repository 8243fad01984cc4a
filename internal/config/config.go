// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Catalog     CatalogConfig
	Wallet      WalletConfig
	Host        HostConfig
	Engagement  EngagementConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration. An empty Host disables the
// Postgres journal and the service falls back to the in-memory journal.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// CatalogConfig holds catalog configuration
type CatalogConfig struct {
	DataFile    string
	HomeCountry string
	PageSize    int
}

// WalletConfig holds wallet session manager configuration
type WalletConfig struct {
	RetryDelay    time.Duration
	MaxRetries    int
	GlobalTimeout time.Duration
	WatchInterval time.Duration
}

// HostConfig holds mini-app host bridge configuration. An empty BridgeURL
// means the host capability is absent.
type HostConfig struct {
	BridgeURL string
	AuthToken string
	Timeout   time.Duration
}

// EngagementConfig holds engagement subsystem configuration
type EngagementConfig struct {
	CheckInCooldown time.Duration
	EventsTopic     string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "basedsprings"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Catalog: CatalogConfig{
			DataFile:    getEnv("CATALOG_DATA_FILE", "data/springs.json"),
			HomeCountry: getEnv("CATALOG_HOME_COUNTRY", "United States"),
			PageSize:    getEnvAsInt("CATALOG_PAGE_SIZE", 12),
		},
		Wallet: WalletConfig{
			RetryDelay:    getEnvAsDuration("WALLET_RETRY_DELAY", 3*time.Second),
			MaxRetries:    getEnvAsInt("WALLET_MAX_RETRIES", 5),
			GlobalTimeout: getEnvAsDuration("WALLET_GLOBAL_TIMEOUT", 30*time.Second),
			WatchInterval: getEnvAsDuration("WALLET_WATCH_INTERVAL", 5*time.Second),
		},
		Host: HostConfig{
			BridgeURL: getEnv("HOST_BRIDGE_URL", ""),
			AuthToken: getEnv("HOST_AUTH_TOKEN", ""),
			Timeout:   getEnvAsDuration("HOST_TIMEOUT", 10*time.Second),
		},
		Engagement: EngagementConfig{
			CheckInCooldown: getEnvAsDuration("ENGAGEMENT_CHECKIN_COOLDOWN", 5*time.Minute),
			EventsTopic:     getEnv("ENGAGEMENT_EVENTS_TOPIC", "engagement"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive")
	}

	if config.Wallet.MaxRetries < 0 {
		return fmt.Errorf("wallet max retries must not be negative")
	}

	if config.Host.BridgeURL != "" && config.Host.AuthToken == "" && config.Environment != "development" {
		return fmt.Errorf("host auth token must be set in non-development environments")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
