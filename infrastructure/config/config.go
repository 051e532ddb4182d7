// Package config loads and validates the runtime configuration for the
// mining engine and the federation client.
package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat indicates the file could not be parsed.
	ErrInvalidFormat = errors.New("invalid config format")

	// ErrUnsupportedFormat indicates an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Config is the full runtime configuration.
type Config struct {
	Mining     MiningConfig     `yaml:"mining" json:"mining"`
	Privacy    PrivacyConfig    `yaml:"privacy" json:"privacy"`
	Federation FederationConfig `yaml:"federation" json:"federation"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
}

// MiningConfig configures the local mining run.
type MiningConfig struct {
	// MinUtility is the minimum-utility threshold. Must be >= 0.
	MinUtility float64 `yaml:"min_utility" json:"min_utility"`

	// MaxItemsets is the safety ceiling on emitted itemsets (0 = none).
	MaxItemsets int `yaml:"max_itemsets" json:"max_itemsets"`

	// MaxDepth bounds recursion depth / itemset size (0 = none).
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// Workers enables parallel top-level mining when > 1.
	Workers int `yaml:"workers" json:"workers"`
}

// PrivacyConfig configures differential-privacy perturbation of local
// results before submission.
type PrivacyConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
}

// FederationConfig configures the federated client.
type FederationConfig struct {
	ServerAddr     string `yaml:"server_addr" json:"server_addr"`
	ClientID       string `yaml:"client_id" json:"client_id"`
	RoundTimeoutMS int    `yaml:"round_timeout_ms" json:"round_timeout_ms"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// StorageConfig selects the transaction and result stores.
type StorageConfig struct {
	// Backend is one of "memory", "sqlite", "badger".
	Backend string `yaml:"backend" json:"backend"`

	// Path is the database file or directory for file-backed stores.
	Path string `yaml:"path" json:"path"`
}

// Default returns a configuration with sensible defaults, matching a
// single-holder run with no privacy and in-memory storage.
func Default() Config {
	return Config{
		Mining: MiningConfig{
			MinUtility:  100,
			MaxItemsets: 1000,
			Workers:     1,
		},
		Privacy: PrivacyConfig{Epsilon: 1.0},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Storage: StorageConfig{Backend: "memory"},
	}
}

// Validate rejects configurations that would produce wrong results
// before any mining starts.
func (c Config) Validate() error {
	if c.Mining.MinUtility < 0 {
		return fmt.Errorf("mining.min_utility: must be non-negative, got %v", c.Mining.MinUtility)
	}
	if c.Mining.MaxItemsets < 0 {
		return fmt.Errorf("mining.max_itemsets: must be non-negative, got %d", c.Mining.MaxItemsets)
	}
	if c.Mining.MaxDepth < 0 {
		return fmt.Errorf("mining.max_depth: must be non-negative, got %d", c.Mining.MaxDepth)
	}
	if c.Privacy.Enabled && c.Privacy.Epsilon <= 0 {
		return fmt.Errorf("privacy.epsilon: must be positive, got %v", c.Privacy.Epsilon)
	}
	switch c.Storage.Backend {
	case "", "memory", "sqlite", "badger":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if (c.Storage.Backend == "sqlite" || c.Storage.Backend == "badger") && c.Storage.Path == "" {
		return fmt.Errorf("storage.path: required for backend %q", c.Storage.Backend)
	}
	return nil
}
