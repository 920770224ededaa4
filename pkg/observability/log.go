package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l, or to the default logger when l
// is nil.
func NewLogHooks(l *log.Logger) LogHooks {
	if l == nil {
		l = log.Default()
	}
	return LogHooks{Logger: l}
}

// Register installs h for every hook kind.
func (h LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnBuildStart(_ context.Context, size int) {
	h.Logger.Debug("build started", "bytes", size)
}

func (h LogHooks) OnBuildComplete(_ context.Context, layers int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("build failed", "error", err, "duration", d)
		return
	}
	h.Logger.Debug("build complete", "layers", layers, "duration", d)
}

func (h LogHooks) OnNetlistComplete(_ context.Context, nets int, d time.Duration) {
	h.Logger.Debug("netlist complete", "nets", nets, "duration", d)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "formats", formats, "error", err, "duration", d)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)
