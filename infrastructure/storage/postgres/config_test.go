package postgres

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Host = %s, want localhost", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.Database != "upgrowth" {
		t.Errorf("Database = %s, want upgrowth", cfg.Database)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode = %s, want disable", cfg.SSLMode)
	}
	if cfg.MaxConns != 10 {
		t.Errorf("MaxConns = %d, want 10", cfg.MaxConns)
	}
	if cfg.MaxConnLifetime != time.Hour {
		t.Errorf("MaxConnLifetime = %v, want 1h", cfg.MaxConnLifetime)
	}
	if cfg.Schema != "public" {
		t.Errorf("Schema = %s, want public", cfg.Schema)
	}
}

func TestConfig_ConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name:     "default config",
			config:   DefaultConfig(),
			expected: "host=localhost port=5432 dbname=upgrowth user=postgres password= sslmode=disable",
		},
		{
			name: "custom config",
			config: Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "federation",
				User:     "aggregator",
				Password: "secret123",
				SSLMode:  "require",
			},
			expected: "host=db.example.com port=5433 dbname=federation user=aggregator password=secret123 sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.config.ConnectionString(); got != tt.expected {
				t.Errorf("ConnectionString() = %s, want %s", got, tt.expected)
			}
		})
	}
}
