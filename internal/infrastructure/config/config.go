package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by the configuration
const EnvPrefix = "DIRSCHEMA"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig
	Console ConsoleConfig
	Log     LogConfig
	// Development enables strict internal consistency checks (contract violations panic)
	Development bool
}

// ServerConfig represents schema server configuration
type ServerConfig struct {
	Host        string
	Port        int
	MetricsPort int    // Port for Prometheus metrics HTTP server
	SeedFile    string // Optional YAML file with additional user attributes
}

// ConsoleConfig represents admin panel configuration
type ConsoleConfig struct {
	HTTPHost       string
	HTTPPort       int
	SchemaEndpoint string        // gRPC address of the schema server
	QueryTimeout   time.Duration // Timeout applied to each remote query
	QueueSize      int           // Capacity of each component message queue
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level   string
	Pretty  bool
	Verbose bool // Forces debug level
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"host":            "SERVER_HOST",
	"port":            "SERVER_PORT",
	"metrics-port":    "METRICS_PORT",
	"seed-file":       "SEED_FILE",
	"http-host":       "HTTP_HOST",
	"http-port":       "HTTP_PORT",
	"schema-endpoint": "SCHEMA_ENDPOINT",
	"query-timeout":   "QUERY_TIMEOUT",
	"log-level":       "LOG_LEVEL",
	"pretty":          "LOG_PRETTY",
	"verbose":         "VERBOSE",
	"development":     "DEVELOPMENT",
}

// InitConfig initializes viper configuration.
// Sources are merged last-wins: defaults, config file, environment, command line flags.
// configFile may be empty; flags may be nil.
func InitConfig(configFile string, flags *pflag.FlagSet) error {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	// Environment variables take precedence over config file
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 50051)
	viper.SetDefault("METRICS_PORT", 9090)
	viper.SetDefault("SEED_FILE", "")

	viper.SetDefault("HTTP_HOST", "127.0.0.1")
	viper.SetDefault("HTTP_PORT", 17170)
	viper.SetDefault("SCHEMA_ENDPOINT", "localhost:50051")
	viper.SetDefault("QUERY_TIMEOUT", 10*time.Second)
	viper.SetDefault("QUEUE_SIZE", 64)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("VERBOSE", false)
	viper.SetDefault("DEVELOPMENT", false)
}

// Load loads configuration from viper
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("SERVER_HOST"),
			Port:        viper.GetInt("SERVER_PORT"),
			MetricsPort: viper.GetInt("METRICS_PORT"),
			SeedFile:    viper.GetString("SEED_FILE"),
		},
		Console: ConsoleConfig{
			HTTPHost:       viper.GetString("HTTP_HOST"),
			HTTPPort:       viper.GetInt("HTTP_PORT"),
			SchemaEndpoint: viper.GetString("SCHEMA_ENDPOINT"),
			QueryTimeout:   viper.GetDuration("QUERY_TIMEOUT"),
			QueueSize:      viper.GetInt("QUEUE_SIZE"),
		},
		Log: LogConfig{
			Level:   viper.GetString("LOG_LEVEL"),
			Pretty:  viper.GetBool("LOG_PRETTY"),
			Verbose: viper.GetBool("VERBOSE"),
		},
		Development: viper.GetBool("DEVELOPMENT"),
	}

	if cfg.Log.Verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	for name, port := range map[string]int{
		"SERVER_PORT":  c.Server.Port,
		"METRICS_PORT": c.Server.MetricsPort,
		"HTTP_PORT":    c.Console.HTTPPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s out of range: %d", name, port)
		}
	}
	if c.Console.SchemaEndpoint == "" {
		return fmt.Errorf("SCHEMA_ENDPOINT is required")
	}
	if c.Console.QueryTimeout < 0 {
		return fmt.Errorf("QUERY_TIMEOUT must not be negative")
	}
	if c.Console.QueueSize < 1 {
		return fmt.Errorf("QUEUE_SIZE must be at least 1")
	}
	return nil
}

// ListenAddress returns the gRPC listen address of the schema server
func (c *ServerConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ListenAddress returns the HTTP listen address of the admin panel
func (c *ConsoleConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
