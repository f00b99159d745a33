// Package observability lets the pipeline report compile, render and cache
// events without depending on a metrics backend.
//
// The pipeline calls [Pipeline] and [Cache] at each event. Both return
// no-op hooks until a sink is registered; `algoreel serve` registers its
// Prometheus metrics:
//
//	observability.Register(metrics) // implements PipelineHooks and CacheHooks
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Cache key types passed to [CacheHooks].
const (
	KeyTimeline = "timeline"
	KeyArtifact = "artifact"
)

// PipelineHooks receives one Start and one Complete event per stage of a
// render. Complete carries the stage result size: shapes for compile,
// frames for render.
type PipelineHooks interface {
	OnCompileStart(ctx context.Context, scene string)
	OnCompileComplete(ctx context.Context, scene string, shapes int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, scene, format string)
	OnRenderComplete(ctx context.Context, scene, format string, frames int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is [KeyTimeline]
// or [KeyArtifact].
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks ignores every event. Embed it to implement only some
// methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCompileStart(context.Context, string)                                     {}
func (NoopPipelineHooks) OnCompileComplete(context.Context, string, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// Hooks is a sink for both kinds of events.
type Hooks interface {
	PipelineHooks
	CacheHooks
}

// holders keep the interface value behind a pointer so it can be swapped
// atomically.
type (
	pipelineHolder struct{ PipelineHooks }
	cacheHolder    struct{ CacheHooks }
)

var (
	pipelineHooks atomic.Pointer[pipelineHolder]
	cacheHooks    atomic.Pointer[cacheHolder]
)

func init() { Reset() }

// SetPipelineHooks replaces the pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&pipelineHolder{h})
	}
}

// SetCacheHooks replaces the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&cacheHolder{h})
	}
}

// Register installs h as both the pipeline and the cache hooks.
func Register(h Hooks) {
	SetPipelineHooks(h)
	SetCacheHooks(h)
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.Load().PipelineHooks }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.Load().CacheHooks }

// Reset restores the no-op hooks.
func Reset() {
	pipelineHooks.Store(&pipelineHolder{NoopPipelineHooks{}})
	cacheHooks.Store(&cacheHolder{NoopCacheHooks{}})
}
