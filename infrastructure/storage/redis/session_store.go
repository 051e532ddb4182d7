package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/cache"
	"github.com/felixgeelhaar/upgrowth/domain/federation"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-backed implementation of
// federation.SessionStore. Sessions are stored as JSON with an optional
// TTL, so stale clients fall out of the registry on their own.
type SessionStore struct {
	client     *redis.Client
	keyPrefix  string
	sessionTTL time.Duration
}

// NewSessionStore creates a new Redis session store with the given
// configuration. The connection is verified before the store is
// returned.
func NewSessionStore(cfg Config, opts ...ConfigOption) (*SessionStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(cache.ErrConnectionFailed, err)
	}

	return &SessionStore{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		sessionTTL: cfg.SessionTTL,
	}, nil
}

// NewSessionStoreFromClient creates a session store from an existing
// Redis client.
func NewSessionStoreFromClient(client *redis.Client, keyPrefix string, sessionTTL time.Duration) *SessionStore {
	return &SessionStore{
		client:     client,
		keyPrefix:  keyPrefix,
		sessionTTL: sessionTTL,
	}
}

func (s *SessionStore) sessionKey(id string) string {
	return s.keyPrefix + "session:" + id
}

// Put stores a session, replacing any previous session with the same ID
// and refreshing its TTL.
func (s *SessionStore) Put(ctx context.Context, sess federation.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if sess.ID == "" {
		return federation.ErrInvalidSessionID
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.sessionKey(sess.ID), data, s.sessionTTL).Err(); err != nil {
		return wrapError(err)
	}
	return nil
}

// Get returns the session with the given ID.
func (s *SessionStore) Get(ctx context.Context, id string) (federation.Session, error) {
	if err := ctx.Err(); err != nil {
		return federation.Session{}, err
	}

	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return federation.Session{}, federation.ErrSessionNotFound
		}
		return federation.Session{}, wrapError(err)
	}

	var sess federation.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return federation.Session{}, err
	}
	return sess, nil
}

// Delete removes the session with the given ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		return wrapError(err)
	}
	return nil
}

// List returns every stored session.
func (s *SessionStore) List(ctx context.Context) ([]federation.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern := s.keyPrefix + "session:*"
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	var sessions []federation.Session
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			// Expired between SCAN and GET.
			continue
		}
		if err != nil {
			return nil, wrapError(err)
		}

		var sess federation.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapError(err)
	}

	return sessions, nil
}

// Ping checks the Redis connection.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

var _ federation.SessionStore = (*SessionStore)(nil)
