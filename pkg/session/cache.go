package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/stackup/pkg/cache"
)

// CacheStore keeps sessions in a [cache.Cache] under keys from a
// [cache.Keyer]. Expiry is delegated to the cache backend.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore wraps c. A nil keyer means [cache.NewDefaultKeyer].
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

// Get returns the session with the given id, or ErrNotFound when it is
// missing, expired or the id is malformed.
func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	data, hit, err := s.cache.Get(ctx, s.keyer.SessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !hit {
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Set stores sess until its expiry. An already expired session is not
// written.
func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl)
}

// Delete removes a session. Unknown and malformed ids are ignored.
func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	return s.cache.Delete(ctx, s.keyer.SessionKey(id))
}

// Cleanup does nothing; the cache expires entries itself.
func (s *CacheStore) Cleanup(ctx context.Context) (int, error) {
	return 0, nil
}

var _ Store = (*CacheStore)(nil)
