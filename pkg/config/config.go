package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Reasoner configuration
	Reasoner ReasonerConfig `mapstructure:"reasoner"`

	// Store configuration
	Store StoreConfig `mapstructure:"store"`

	// Parser configuration
	Parser ParserConfig `mapstructure:"parser"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// ReasonerConfig holds reasoning engine configuration
type ReasonerConfig struct {
	// Epsilon is the endpoint equality tolerance, e.g. "1s".
	Epsilon time.Duration `mapstructure:"epsilon"`

	// MinConfidence floors the confidence of inferred constraints.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// StoreConfig holds fact store configuration
type StoreConfig struct {
	Type string `mapstructure:"type"` // memory, badger
	Path string `mapstructure:"path"`
}

// ParserConfig holds temporal parser configuration
type ParserConfig struct {
	Provider string `mapstructure:"provider"` // pattern, remote
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // in seconds
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around the
// remote parser
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Reasoner defaults
	viper.SetDefault("reasoner.epsilon", "1s")
	viper.SetDefault("reasoner.min_confidence", 0.1)

	// Store defaults
	viper.SetDefault("store.type", "memory")
	viper.SetDefault("store.path", "")

	// Parser defaults
	viper.SetDefault("parser.provider", "pattern")
	viper.SetDefault("parser.base_url", "")
	viper.SetDefault("parser.timeout", 10)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		defaultPath := fmt.Sprintf("%s/.tempograph/telemetry", home)
		viper.SetDefault("telemetry.parquet_path", defaultPath)
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Store settings
	if storeType := os.Getenv("STORE_TYPE"); storeType != "" {
		config.Store.Type = storeType
	}
	if storePath := os.Getenv("STORE_PATH"); storePath != "" {
		config.Store.Path = storePath
	}

	// Parser settings
	if provider := os.Getenv("PARSER_PROVIDER"); provider != "" {
		config.Parser.Provider = provider
	}
	if baseURL := os.Getenv("PARSER_BASE_URL"); baseURL != "" {
		config.Parser.BaseURL = baseURL
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
