package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algoreel/pkg/cache"
	"github.com/matzehuels/algoreel/pkg/encode"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/history"
	tlio "github.com/matzehuels/algoreel/pkg/io"
	"github.com/matzehuels/algoreel/pkg/observability"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// PreviewFunc plays a compiled timeline, typically in a window. It returns
// when playback ends or ctx is cancelled.
type PreviewFunc func(ctx context.Context, tl *scene.Timeline, q encode.Quality) error

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can use the same Runner with different options as long as they render
// into different media directories.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Encoder *encode.Encoder
	History history.Store
	Preview PreviewFunc
	Logger  *log.Logger

	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Encoder: &encode.Encoder{Logger: logger},
		History: history.NullStore{},
		Logger:  logger,
		now:     time.Now,
	}
}

// Execute runs the compile → render → record pipeline with caching.
// Failed runs are recorded too.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	started := r.clock()
	rec := history.NewRecord(opts.Scene, opts.Quality, opts.Format, opts.Values, started)
	result = &Result{RunID: rec.ID, Scene: opts.Scene}
	defer func() {
		rec.Duration = r.clock().Sub(started)
		if err != nil {
			rec.Error = apperr.UserMessage(err)
			rec.ErrorCode = string(apperr.GetCode(err))
		}
		r.record(ctx, rec)
	}()

	hooks := observability.Pipeline()

	// Stage 1: Compile
	hooks.OnCompileStart(ctx, opts.Scene)
	compileStart := time.Now()
	tl, data, hit, err := r.compile(ctx, opts)
	if err != nil {
		hooks.OnCompileComplete(ctx, opts.Scene, 0, time.Since(compileStart), err)
		return nil, fmt.Errorf("compile: %w", err)
	}
	hooks.OnCompileComplete(ctx, opts.Scene, len(tl.Shapes), time.Since(compileStart), nil)
	result.Timeline = tl
	result.TimelineHash = cache.Hash(data)
	result.Stats.Shapes = len(tl.Shapes)
	result.Stats.Ops = len(tl.Ops)
	result.Stats.CompileTime = time.Since(compileStart)
	result.CacheInfo.TimelineHit = hit

	r.Logger.Info("compiled timeline",
		"scene", opts.Scene,
		"shapes", len(tl.Shapes),
		"ops", len(tl.Ops),
		"seconds", tl.Duration,
		"cached", hit,
		"duration", result.Stats.CompileTime)

	// Stage 2: Render
	hooks.OnRenderStart(ctx, opts.Scene, opts.Format)
	renderStart := time.Now()
	art, hit, err := r.render(ctx, tl, result.TimelineHash, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Scene, opts.Format, 0, time.Since(renderStart), err)
		return nil, fmt.Errorf("render: %w", err)
	}
	hooks.OnRenderComplete(ctx, opts.Scene, opts.Format, art.Frames, time.Since(renderStart), nil)
	result.Artifact = art
	result.Stats.Frames = art.Frames
	result.Stats.Unique = art.Unique
	result.Stats.Encode = art.Stats
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.ArtifactHit = hit
	rec.Frames = art.Frames
	rec.Output = art.Path
	rec.CacheHit = hit

	r.Logger.Info("rendered scene",
		"scene", opts.Scene,
		"format", opts.Format,
		"quality", opts.QualityPreset().Dir(),
		"frames", art.Frames,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	if opts.SaveLastFrame {
		path, err := r.Encoder.SaveLastFrame(tl, opts.QualityPreset())
		if err != nil {
			return nil, fmt.Errorf("save last frame: %w", err)
		}
		result.LastFrame = path
		r.Logger.Info("saved last frame", "path", path)
	}

	if opts.Output != "" {
		out, err := copyArtifact(art.Path, opts.Output)
		if err != nil {
			return nil, err
		}
		result.Output = out
		rec.Output = out
	}

	if opts.Preview && r.Preview != nil {
		if err := r.Preview(ctx, tl, opts.QualityPreset()); err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
	}

	return result, nil
}

// Compile builds the timeline for opts, using the cache unless
// opts.Refresh is set. The bool reports a cache hit.
func (r *Runner) Compile(ctx context.Context, opts Options) (*scene.Timeline, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	tl, _, hit, err := r.compile(ctx, opts)
	return tl, hit, err
}

// compile returns the timeline together with its JSON encoding.
func (r *Runner) compile(ctx context.Context, opts Options) (*scene.Timeline, []byte, bool, error) {
	ds := opts.Dataset()
	key := r.Keyer.TimelineKey(opts.Scene, ds.Values)

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			tl, err := tlio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, observability.KeyTimeline)
				return tl, data, true, nil
			}
			r.Logger.Debug("discarding cached timeline", "scene", opts.Scene, "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, observability.KeyTimeline)

	tl, err := opts.Definition().Build(ds)
	if err != nil {
		return nil, nil, false, err
	}
	var buf bytes.Buffer
	if err := tlio.WriteJSON(tl, &buf); err != nil {
		return nil, nil, false, err
	}
	data := buf.Bytes()
	if err := r.Cache.Set(ctx, key, data, cache.TTLTimeline); err == nil {
		hooks.OnCacheSet(ctx, observability.KeyTimeline, len(data))
	}
	return tl, data, false, nil
}

// cachedArtifact is the artifact cache envelope. Path holds only the file
// name; the directory is recomputed so a cached artifact lands in the
// current media directory.
type cachedArtifact struct {
	Artifact encode.Artifact `json:"artifact"`
	Data     []byte          `json:"data"`
}

func (r *Runner) render(ctx context.Context, tl *scene.Timeline, hash string, opts Options) (*encode.Artifact, bool, error) {
	q, f := opts.QualityPreset(), opts.OutputFormat()
	if !Cacheable(f) {
		art, err := r.Encoder.Encode(ctx, tl, q, f)
		return art, false, err
	}

	hooks := observability.Cache()
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			art, err := r.restore(tl, q, data)
			if err == nil {
				hooks.OnCacheHit(ctx, observability.KeyArtifact)
				return art, true, nil
			}
			r.Logger.Debug("discarding cached artifact", "scene", opts.Scene, "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, observability.KeyArtifact)

	art, err := r.Encoder.Encode(ctx, tl, q, f)
	if err != nil {
		return nil, false, err
	}
	if blob, err := os.ReadFile(art.Path); err == nil {
		entry := cachedArtifact{Artifact: *art, Data: blob}
		entry.Artifact.Path = filepath.Base(art.Path)
		if data, err := json.Marshal(entry); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				hooks.OnCacheSet(ctx, observability.KeyArtifact, len(data))
			}
		}
	}
	return art, false, nil
}

// restore writes a cached artifact back into the media directory.
func (r *Runner) restore(tl *scene.Timeline, q encode.Quality, data []byte) (*encode.Artifact, error) {
	var entry cachedArtifact
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if entry.Artifact.Path == "" || filepath.Base(entry.Artifact.Path) != entry.Artifact.Path {
		return nil, errors.New("cached artifact has no file name")
	}
	dir := r.Encoder.Dir(tl.Scene, q)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, entry.Artifact.Path)
	if err := os.WriteFile(path, entry.Data, 0644); err != nil {
		return nil, err
	}
	art := entry.Artifact
	art.Path = path
	return &art, nil
}

func (r *Runner) record(ctx context.Context, rec history.Record) {
	if r.History == nil {
		return
	}
	if err := r.History.Add(ctx, rec); err != nil {
		r.Logger.Warn("could not record run", "scene", rec.Scene, "error", err)
	}
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// copyArtifact copies src to dst. When dst is an existing directory the
// file keeps its name.
func copyArtifact(src, dst string) (string, error) {
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "read artifact")
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", apperr.Wrap(apperr.ErrCodeInternal, err, "create output dir")
		}
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "write %s", dst)
	}
	return dst, nil
}
