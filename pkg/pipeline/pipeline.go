// Package pipeline provides the render pipeline shared by the CLI and the
// preview server.
//
// # Architecture
//
// A run has three stages:
//
//  1. Compile: build the scene's timeline for a dataset
//  2. Render: sample the timeline into frames and encode them
//  3. Record: append the run to the render history
//
// Compiled timelines and single-file artifacts (mp4, gif, json) are cached,
// so re-rendering an unchanged scene only copies bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   "bst",
//	    Quality: "h",
//	    Format:  "gif",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifact.Path)
//
// Several scenes run with [Runner.ExecuteAll]:
//
//	opts, _ := pipeline.Expand(pipeline.Options{Scene: "all"})
//	summary, err := runner.ExecuteAll(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algoreel/pkg/cache"
	"github.com/matzehuels/algoreel/pkg/encode"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one scene render.
// This struct supports JSON serialization for server requests.
type Options struct {
	Scene   string    `json:"scene"`
	Quality string    `json:"quality,omitempty"` // l, m, h or k
	Format  string    `json:"format,omitempty"`  // mp4, gif, png, svg or json
	Values  []float64 `json:"values,omitempty"`  // dataset override; empty uses the scene defaults

	Preview       bool   `json:"preview,omitempty"`
	SaveLastFrame bool   `json:"save_last_frame,omitempty"`
	Output        string `json:"output,omitempty"` // copy the artifact here (single-file formats)
	Refresh       bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	def       scene.Definition
	quality   encode.Quality
	format    encode.Format
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the history record of this run.
	RunID string

	// Scene is the canonical scene name.
	Scene string

	// Timeline is the compiled scene.
	Timeline *scene.Timeline

	// TimelineHash is the content hash of the timeline JSON.
	TimelineHash string

	// Artifact describes the encoded output.
	Artifact *encode.Artifact

	// LastFrame is the path of the saved final frame, if requested.
	LastFrame string

	// Output is the path the artifact was copied to, if requested.
	Output string

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Shapes      int
	Ops         int
	Frames      int
	Unique      int
	CompileTime time.Duration
	RenderTime  time.Duration
	Encode      encode.Stats
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TimelineHit bool // compiled timeline came from cache
	ArtifactHit bool // encoded artifact came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the scene, quality and format and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scene == "" {
		return apperr.New(apperr.ErrCodeInvalidScene, "scene is required")
	}
	def, err := scene.Lookup(o.Scene)
	if err != nil {
		return err
	}
	q, err := encode.ParseQuality(o.Quality)
	if err != nil {
		return err
	}
	f, err := encode.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	if o.Output != "" && !Cacheable(f) {
		return apperr.New(apperr.ErrCodeInvalidInput,
			"--output needs a single-file format (mp4, gif, json), got %s", f)
	}

	o.def = def
	o.quality = q
	o.format = f
	o.Scene = def.Name
	o.Quality = q.Name
	o.Format = string(f)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Definition returns the resolved scene. Valid after [Options.ValidateAndSetDefaults].
func (o *Options) Definition() scene.Definition { return o.def }

// QualityPreset returns the resolved quality preset.
func (o *Options) QualityPreset() encode.Quality { return o.quality }

// OutputFormat returns the resolved output format.
func (o *Options) OutputFormat() encode.Format { return o.format }

// Dataset returns the values the scene is compiled with.
func (o *Options) Dataset() scene.Dataset {
	if len(o.Values) == 0 {
		return o.def.Defaults
	}
	return scene.Dataset{Values: o.Values}
}

// Cacheable reports whether artifacts of format f are a single file and
// can be stored in the artifact cache.
func Cacheable(f encode.Format) bool {
	return f.IsVideo() || f == encode.FormatJSON
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Quality: o.quality.Name,
		Format:  string(o.format),
	}
}

// Expand turns a scene selector ("all" or a single name) into one Options
// per scene, each a copy of base.
func Expand(base Options) ([]Options, error) {
	defs, err := scene.Resolve(base.Scene)
	if err != nil {
		return nil, err
	}
	out := make([]Options, len(defs))
	for i, d := range defs {
		o := base
		o.Scene = d.Name
		o.validated = false
		out[i] = o
	}
	return out, nil
}
