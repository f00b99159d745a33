package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// countingHooks counts events of both kinds.
type countingHooks struct {
	NoopPipelineHooks
	mu     sync.Mutex
	events map[string]int
}

func (h *countingHooks) add(ev string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.events == nil {
		h.events = map[string]int{}
	}
	h.events[ev]++
}

func (h *countingHooks) OnCompileComplete(context.Context, string, int, time.Duration, error) {
	h.add("compile")
}
func (h *countingHooks) OnCacheHit(_ context.Context, k string)         { h.add("hit:" + k) }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)        { h.add("miss:" + k) }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.add("set:" + k) }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}

	ctx := context.Background()
	Pipeline().OnRenderComplete(ctx, "bst", "mp4", 120, time.Second, nil)
	Cache().OnCacheSet(ctx, KeyArtifact, 1024)
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)
	h := &countingHooks{}
	Register(h)

	ctx := context.Background()
	Pipeline().OnCompileComplete(ctx, "sort", 14, time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, "sort", "gif")
	Cache().OnCacheMiss(ctx, KeyTimeline)
	Cache().OnCacheSet(ctx, KeyTimeline, 512)
	Cache().OnCacheHit(ctx, KeyTimeline)

	want := map[string]int{"compile": 1, "miss:timeline": 1, "set:timeline": 1, "hit:timeline": 1}
	for ev, n := range want {
		if h.events[ev] != n {
			t.Errorf("events[%q] = %d, want %d", ev, h.events[ev], n)
		}
	}

	Reset()
	Cache().OnCacheHit(ctx, KeyArtifact)
	if h.events["hit:artifact"] != 0 {
		t.Error("hooks still receive events after Reset")
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	t.Cleanup(Reset)
	h := &countingHooks{}
	Register(h)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	if Pipeline() != PipelineHooks(h) || Cache() != CacheHooks(h) {
		t.Error("nil hooks replaced the registered ones")
	}
}

func TestConcurrentSwap(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Register(&countingHooks{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheMiss(ctx, KeyArtifact)
		}()
	}
	wg.Wait()
}
