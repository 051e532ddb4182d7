package redis

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Address != "localhost:6379" {
		t.Errorf("Address = %s, want localhost:6379", cfg.Address)
	}
	if cfg.KeyPrefix != "upgrowth:" {
		t.Errorf("KeyPrefix = %s, want upgrowth:", cfg.KeyPrefix)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.SessionTTL != 0 {
		t.Errorf("SessionTTL = %v, want 0", cfg.SessionTTL)
	}
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		option ConfigOption
		check  func(t *testing.T, cfg Config)
	}{
		{
			name:   "WithAddress",
			option: WithAddress("redis.internal:6380"),
			check: func(t *testing.T, cfg Config) {
				if cfg.Address != "redis.internal:6380" {
					t.Errorf("Address = %s", cfg.Address)
				}
			},
		},
		{
			name:   "WithPassword",
			option: WithPassword("secret"),
			check: func(t *testing.T, cfg Config) {
				if cfg.Password != "secret" {
					t.Errorf("Password = %s", cfg.Password)
				}
			},
		},
		{
			name:   "WithDB",
			option: WithDB(2),
			check: func(t *testing.T, cfg Config) {
				if cfg.DB != 2 {
					t.Errorf("DB = %d", cfg.DB)
				}
			},
		},
		{
			name:   "WithKeyPrefix",
			option: WithKeyPrefix("mining:"),
			check: func(t *testing.T, cfg Config) {
				if cfg.KeyPrefix != "mining:" {
					t.Errorf("KeyPrefix = %s", cfg.KeyPrefix)
				}
			},
		},
		{
			name:   "WithPoolSize",
			option: WithPoolSize(20),
			check: func(t *testing.T, cfg Config) {
				if cfg.PoolSize != 20 {
					t.Errorf("PoolSize = %d", cfg.PoolSize)
				}
			},
		},
		{
			name:   "WithTimeouts",
			option: WithTimeouts(time.Second, 2*time.Second, 3*time.Second),
			check: func(t *testing.T, cfg Config) {
				if cfg.DialTimeout != time.Second || cfg.ReadTimeout != 2*time.Second || cfg.WriteTimeout != 3*time.Second {
					t.Errorf("timeouts = %v/%v/%v", cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout)
				}
			},
		},
		{
			name:   "WithSessionTTL",
			option: WithSessionTTL(time.Hour),
			check: func(t *testing.T, cfg Config) {
				if cfg.SessionTTL != time.Hour {
					t.Errorf("SessionTTL = %v", cfg.SessionTTL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.option(&cfg)
			tt.check(t, cfg)
		})
	}
}
