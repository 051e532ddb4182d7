// Package resultcache layers result-set caching over any cache.Cache
// backend. Entries are keyed by a fingerprint of the transaction
// snapshot combined with the mining threshold, so a cache hit is only
// possible when both the data and the parameters are unchanged.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/upgrowth/domain/cache"
	"github.com/felixgeelhaar/upgrowth/domain/mining"
	"github.com/felixgeelhaar/upgrowth/domain/transaction"
)

// DefaultTTL bounds how long a cached result set stays valid. Datasets
// that change are fingerprinted to a new key anyway; the TTL only
// bounds storage growth.
const DefaultTTL = 24 * time.Hour

// ResultCache caches mined result sets as JSON over a cache.Cache.
type ResultCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// Option configures the result cache.
type Option func(*ResultCache)

// WithTTL sets the time-to-live applied to stored entries.
func WithTTL(ttl time.Duration) Option {
	return func(rc *ResultCache) {
		rc.ttl = ttl
	}
}

// New creates a result cache over the given backend.
func New(c cache.Cache, opts ...Option) *ResultCache {
	rc := &ResultCache{
		cache: c,
		ttl:   DefaultTTL,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Fingerprint hashes a transaction snapshot. Two snapshots with the
// same transactions in the same order produce the same fingerprint.
func Fingerprint(txs []transaction.Transaction) string {
	h := sha256.New()
	for _, tx := range txs {
		for _, it := range tx.Items() {
			h.Write([]byte(it))
			h.Write([]byte{0})
		}
		fmt.Fprintf(h, "%.4f", tx.Utility())
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Key builds the cache key for a snapshot fingerprint and threshold.
func Key(fingerprint string, minUtility float64) string {
	return "result:" + fingerprint + ":" + strconv.FormatFloat(minUtility, 'f', -1, 64)
}

// Save stores a result set under key.
func (rc *ResultCache) Save(ctx context.Context, key string, rs mining.ResultSet) error {
	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	return rc.cache.Set(ctx, key, data, cache.SetOptions{TTL: rc.ttl})
}

// Load returns the result set stored under key and whether it was
// found. A decode failure is treated as an error, not a miss; a stored
// entry that cannot be decoded indicates backend corruption.
func (rc *ResultCache) Load(ctx context.Context, key string) (mining.ResultSet, bool, error) {
	data, found, err := rc.cache.Get(ctx, key)
	if err != nil {
		return mining.ResultSet{}, false, err
	}
	if !found {
		return mining.ResultSet{}, false, nil
	}

	var rs mining.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return mining.ResultSet{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return rs, true, nil
}

// Invalidate removes the entry stored under key.
func (rc *ResultCache) Invalidate(ctx context.Context, key string) error {
	return rc.cache.Delete(ctx, key)
}
