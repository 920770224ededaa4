// Package session stores the results of server-side renders.
//
// A [Session] holds the artifacts of one render under a random UUID until it
// expires. Three [Store] backends are provided:
//   - [MemoryStore]: in-process storage for a single server instance
//   - [FileStore]: JSON files in a directory, surviving restarts
//   - [CacheStore]: any [cache.Cache], such as Redis, for multi-instance
//     deployments
//
// # Usage
//
//	sess := session.New("demo", docHash, formats, artifacts, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
//
// Memory and file stores do not expire entries on their own; run
// [StartCleanup] next to them.
package session

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session lifetime.
const DefaultTTL = time.Hour

// Session records the artifacts of one render.
type Session struct {
	ID           string            `json:"id"`
	Board        string            `json:"board"`
	DocumentHash string            `json:"document_hash"`
	Formats      []string          `json:"formats"`
	Artifacts    map[string][]byte `json:"artifacts"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// New creates a session with a fresh random ID.
func New(boardName, documentHash string, formats []string, artifacts map[string][]byte, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Board:        boardName,
		DocumentHash: documentHash,
		Formats:      formats,
		Artifacts:    artifacts,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.expiredAt(time.Now())
}

func (s *Session) expiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// ArtifactNames returns the sorted artifact names.
func (s *Session) ArtifactNames() []string {
	names := make([]string, 0, len(s.Artifacts))
	for name := range s.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidID reports whether id is a well-formed session ID. Stores treat
// malformed IDs as unknown, so they never reach a file path or cache key.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound if the session
	// doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)
}
