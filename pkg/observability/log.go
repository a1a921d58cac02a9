package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charm logger at debug level, except
// failures which are logged as errors. It implements all three hook sets.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses log.Default.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnRenderStart(_ context.Context, identity string, seed uint64) {
	h.logger.Debug("render started", "identity", identity, "seed", seed)
}

func (h *LogHooks) OnStage(_ context.Context, stage string, d time.Duration) {
	h.logger.Debug("stage", "name", stage, "duration", d)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, identity string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("render failed", "identity", identity, "err", err)
		return
	}
	h.logger.Debug("render complete", "identity", identity, "duration", d)
}

func (h *LogHooks) OnEncode(_ context.Context, format string, size int, d time.Duration) {
	h.logger.Debug("encoded", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Error("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
