package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("http-port", 0, "")
	fs.String("schema-endpoint", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestInitConfig_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := InitConfig("", nil); err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Load() Server.Host = %v, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 50051 {
		t.Errorf("Load() Server.Port = %v, want 50051", cfg.Server.Port)
	}
	if cfg.Console.HTTPPort != 17170 {
		t.Errorf("Load() Console.HTTPPort = %v, want 17170", cfg.Console.HTTPPort)
	}
	if cfg.Console.SchemaEndpoint != "localhost:50051" {
		t.Errorf("Load() Console.SchemaEndpoint = %v, want localhost:50051", cfg.Console.SchemaEndpoint)
	}
	if cfg.Console.QueryTimeout != 10*time.Second {
		t.Errorf("Load() Console.QueryTimeout = %v, want 10s", cfg.Console.QueryTimeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Load() Log.Level = %v, want info", cfg.Log.Level)
	}
	if cfg.Development {
		t.Errorf("Load() Development = true, want false")
	}
}

func TestInitConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "dirschema.toml")
	content := "http_port = 18000\nschema_endpoint = \"file:50051\"\nlog_level = \"warn\"\n"
	if err := os.WriteFile(configFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	tests := []struct {
		name         string
		env          map[string]string
		args         []string
		wantPort     int
		wantEndpoint string
		wantLevel    string
	}{
		{
			name:         "config file over defaults",
			wantPort:     18000,
			wantEndpoint: "file:50051",
			wantLevel:    "warn",
		},
		{
			name:         "environment over config file",
			env:          map[string]string{"DIRSCHEMA_HTTP_PORT": "19000"},
			wantPort:     19000,
			wantEndpoint: "file:50051",
			wantLevel:    "warn",
		},
		{
			name:         "flags over environment",
			env:          map[string]string{"DIRSCHEMA_HTTP_PORT": "19000"},
			args:         []string{"--http-port=20000", "--schema-endpoint=flag:50051"},
			wantPort:     20000,
			wantEndpoint: "flag:50051",
			wantLevel:    "warn",
		},
		{
			name:         "verbose forces debug",
			args:         []string{"--verbose"},
			wantPort:     18000,
			wantEndpoint: "file:50051",
			wantLevel:    "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			fs := newFlagSet()
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			if err := InitConfig(configFile, fs); err != nil {
				t.Fatalf("InitConfig() error = %v", err)
			}
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.Console.HTTPPort != tt.wantPort {
				t.Errorf("Console.HTTPPort = %v, want %v", cfg.Console.HTTPPort, tt.wantPort)
			}
			if cfg.Console.SchemaEndpoint != tt.wantEndpoint {
				t.Errorf("Console.SchemaEndpoint = %v, want %v", cfg.Console.SchemaEndpoint, tt.wantEndpoint)
			}
			if cfg.Log.Level != tt.wantLevel {
				t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, tt.wantLevel)
			}
		})
	}
}

func TestInitConfig_MissingFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := InitConfig(filepath.Join(t.TempDir(), "missing.toml"), nil); err == nil {
		t.Error("InitConfig() expected error for missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 50051, MetricsPort: 9090},
			Console: ConsoleConfig{HTTPPort: 17170, SchemaEndpoint: "localhost:50051", QueueSize: 8},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Console.HTTPPort = 70000 }, wantErr: "HTTP_PORT out of range: 70000"},
		{name: "missing endpoint", mutate: func(c *Config) { c.Console.SchemaEndpoint = "" }, wantErr: "SCHEMA_ENDPOINT is required"},
		{name: "negative timeout", mutate: func(c *Config) { c.Console.QueryTimeout = -time.Second }, wantErr: "QUERY_TIMEOUT must not be negative"},
		{name: "empty queue", mutate: func(c *Config) { c.Console.QueueSize = 0 }, wantErr: "QUEUE_SIZE must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListenAddress(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 50051}
	if got := s.ListenAddress(); got != "0.0.0.0:50051" {
		t.Errorf("ServerConfig.ListenAddress() = %v", got)
	}
	c := ConsoleConfig{HTTPHost: "127.0.0.1", HTTPPort: 17170}
	if got := c.ListenAddress(); got != "127.0.0.1:17170" {
		t.Errorf("ConsoleConfig.ListenAddress() = %v", got)
	}
}
