package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackup/pkg/cache"
)

func testSession(ttl time.Duration) *Session {
	return New("demo", "abc", []string{"svg"}, map[string][]byte{
		"top.svg":    []byte("<svg/>"),
		"bottom.svg": []byte("<svg/>"),
	}, ttl)
}

func TestNew(t *testing.T) {
	s := testSession(time.Hour)
	if !ValidID(s.ID) {
		t.Errorf("ID %q is not a UUID", s.ID)
	}
	if s.IsExpired() {
		t.Error("fresh session is expired")
	}
	if testSession(time.Hour).ID == s.ID {
		t.Error("IDs should be unique")
	}
	if got := s.ArtifactNames(); !reflect.DeepEqual(got, []string{"bottom.svg", "top.svg"}) {
		t.Errorf("ArtifactNames() = %v", got)
	}
	if !testSession(-time.Second).IsExpired() {
		t.Error("negative TTL should be expired")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"", false},
		{"../etc/passwd", false},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func newCacheStore(t *testing.T) Store {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewCacheStore(c, nil)
}

func newFileStore(t *testing.T) Store {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

var stores = []struct {
	name string
	new  func(t *testing.T) Store
}{
	{"memory", func(*testing.T) Store { return NewMemoryStore() }},
	{"file", newFileStore},
	{"cache", newCacheStore},
}

func TestStores(t *testing.T) {
	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := tt.new(t)
			s := testSession(time.Hour)

			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
			}
			if err := store.Set(ctx, s); err != nil {
				t.Fatal(err)
			}
			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Board != "demo" || string(got.Artifacts["top.svg"]) != "<svg/>" {
				t.Errorf("Get() = %+v", got)
			}
			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, s.ID); err != nil {
				t.Errorf("Delete(deleted) = %v", err)
			}
			if _, err := store.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(malformed) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoresExpired(t *testing.T) {
	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := tt.new(t)
			s := testSession(-time.Minute)
			if err := store.Set(ctx, s); err != nil {
				t.Fatal(err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, ttl := range []time.Duration{-time.Minute, -time.Second, time.Hour} {
		if err := m.Set(ctx, testSession(ttl)); err != nil {
			t.Fatal(err)
		}
	}
	n, err := m.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || m.Len() != 1 {
		t.Errorf("Cleanup() = %d, remaining %d; want 2, 1", n, m.Len())
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Set(ctx, testSession(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	live := testSession(time.Hour)
	if err := fs.Set(ctx, live); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := fs.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Cleanup() = %d, want 2", n)
	}
	if _, err := fs.Get(ctx, live.ID); err != nil {
		t.Errorf("live session removed: %v", err)
	}
	if fs.Path() != dir {
		t.Errorf("Path() = %q", fs.Path())
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") should fail")
	}
}

func TestStartCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemoryStore()
	if err := m.Set(ctx, testSession(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	done := StartCleanup(ctx, m, time.Millisecond, log.New(io.Discard))

	deadline := time.Now().Add(5 * time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if m.Len() != 0 {
		t.Error("expired session not cleaned up")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("cleanup loop did not stop")
	}
}
