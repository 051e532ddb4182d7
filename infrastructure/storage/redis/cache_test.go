package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/cache"
)

func TestNewCacheFromClient(t *testing.T) {
	t.Parallel()

	c := NewCacheFromClient(nil, "test:")
	if c.keyPrefix != "test:" {
		t.Errorf("keyPrefix = %s, want test:", c.keyPrefix)
	}
}

func TestCache_PrefixKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "default prefix", prefix: "upgrowth:", key: "result:abc:100", want: "upgrowth:cache:result:abc:100"},
		{name: "empty prefix", prefix: "", key: "k", want: "cache:k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCacheFromClient(nil, tt.prefix)
			if got := c.prefixKey(tt.key); got != tt.want {
				t.Errorf("prefixKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSessionStore_SessionKey(t *testing.T) {
	t.Parallel()

	s := NewSessionStoreFromClient(nil, "upgrowth:", time.Hour)
	if got := s.sessionKey("s-1"); got != "upgrowth:session:s-1" {
		t.Errorf("sessionKey() = %q", got)
	}
	if s.sessionTTL != time.Hour {
		t.Errorf("sessionTTL = %v, want 1h", s.sessionTTL)
	}
}

func TestCache_RespectsCancelledContext(t *testing.T) {
	t.Parallel()

	c := NewCacheFromClient(nil, "test:")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), cache.SetOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
	if err := c.Delete(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Delete() error = %v, want context.Canceled", err)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		if err := wrapError(nil); err != nil {
			t.Errorf("wrapError(nil) = %v", err)
		}
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		t.Parallel()
		err := wrapError(context.DeadlineExceeded)
		if !errors.Is(err, cache.ErrOperationTimeout) {
			t.Errorf("wrapError() = %v, want ErrOperationTimeout", err)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("boom")
		if err := wrapError(sentinel); !errors.Is(err, sentinel) {
			t.Errorf("wrapError() = %v, want original error", err)
		}
	})
}
