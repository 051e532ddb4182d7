// Package redis provides Redis-backed storage: a shared result cache
// and a session store for aggregation servers that coordinate several
// data holders. Redis is the right backend when more than one process
// must see the same sessions and cached results.
package redis

import (
	"time"
)

// Config holds the Redis connection settings shared by the cache and
// the session store.
type Config struct {
	// Address is the Redis server address (host:port).
	Address string

	// Password authenticates the connection. Empty means no auth.
	Password string

	// DB selects the Redis database index.
	DB int

	// MaxRetries bounds command retries before giving up.
	MaxRetries int

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// ReadTimeout bounds socket reads. Serialized result sets can be
	// large on dense datasets, so this is looser than the dial timeout.
	ReadTimeout time.Duration

	// WriteTimeout bounds socket writes.
	WriteTimeout time.Duration

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns keeps warm connections for round bursts, when every
	// registered client submits within a short window.
	MinIdleConns int

	// KeyPrefix namespaces all keys so one Redis instance can serve
	// several deployments.
	KeyPrefix string

	// SessionTTL bounds how long a stored session lives without being
	// refreshed. Zero means sessions never expire.
	SessionTTL time.Duration
}

// DefaultConfig returns a Config suitable for a single aggregation
// server against a local Redis.
func DefaultConfig() Config {
	return Config{
		Address:      "localhost:6379",
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "upgrowth:",
	}
}

// ConfigOption configures the Redis connection.
type ConfigOption func(*Config)

// WithAddress sets the Redis server address.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithPassword sets the authentication password.
func WithPassword(password string) ConfigOption {
	return func(c *Config) {
		c.Password = password
	}
}

// WithDB sets the database index.
func WithDB(db int) ConfigOption {
	return func(c *Config) {
		c.DB = db
	}
}

// WithKeyPrefix sets the key namespace prefix.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithPoolSize sets the connection pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithTimeouts sets the dial, read, and write timeouts.
func WithTimeouts(dial, read, write time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout = dial
		c.ReadTimeout = read
		c.WriteTimeout = write
	}
}

// WithSessionTTL sets the session expiry.
func WithSessionTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.SessionTTL = ttl
	}
}
