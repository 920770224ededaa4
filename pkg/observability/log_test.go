package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	NewLogHooks(logger).Register()
	ctx := context.Background()

	Pipeline().OnBuildStart(ctx, 512)
	Pipeline().OnBuildComplete(ctx, 0, time.Millisecond, errors.New("no outline"))
	Pipeline().OnRenderComplete(ctx, []string{"stl"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "artifact")
	HTTP().OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"build started", "build failed", "no outline", "render complete", "cache hit", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.New(&buf))
	h.OnCacheMiss(context.Background(), "artifact")
	if buf.Len() != 0 {
		t.Errorf("info-level logger wrote %q", buf.String())
	}
}

func TestNewLogHooksDefault(t *testing.T) {
	if NewLogHooks(nil).Logger == nil {
		t.Error("NewLogHooks(nil) should fall back to the default logger")
	}
}
