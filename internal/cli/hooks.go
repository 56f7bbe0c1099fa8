package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeviz/pkg/observability"
)

// logHooks reports render and cache events at debug level. It is registered
// when --verbose is set.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.RenderHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnLayoutStart(_ context.Context, opCount int) {
	h.logger.Debug("layout started", "instructions", opCount)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, boxCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("layout complete", "boxes", boxCount, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
