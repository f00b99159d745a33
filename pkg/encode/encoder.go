package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
	tlio "github.com/matzehuels/algoreel/pkg/io"
	"github.com/matzehuels/algoreel/pkg/render"
	"github.com/matzehuels/algoreel/pkg/render/frame"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// DefaultMediaDir is the media root used when none is configured.
const DefaultMediaDir = "media"

// FFmpegBinary is the external video encoder.
const FFmpegBinary = "ffmpeg"

// FramePattern is the printf pattern of frame file names. Frames are
// numbered from 1.
const FramePattern = "frame_%05d"

// Rasterizer converts an SVG document to PNG at the given scale.
type Rasterizer func(svg []byte, scale float64) ([]byte, error)

// CommandRunner runs an external program.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Encoder turns timelines into files under a media directory.
//
// The zero value is usable: it writes to [DefaultMediaDir], rasterises
// with rsvg-convert, encodes with ffmpeg and logs nothing.
type Encoder struct {
	MediaDir  string
	FFmpeg    string
	Workers   int
	Rasterize Rasterizer
	Run       CommandRunner
	Logger    *log.Logger
}

// Artifact describes the output of one encode.
type Artifact struct {
	Format Format `json:"format"`
	Path   string `json:"path"`            // video, timeline, or frame directory
	Frames int    `json:"frames"`          // number of frame files written
	Unique int    `json:"unique"`          // frames that were actually rasterised
	Bytes  int64  `json:"bytes,omitempty"` // size of Path when it is a file
	Stats  Stats  `json:"stats"`
}

// Dir returns the directory frames for a scene and quality are written to.
func (e *Encoder) Dir(sceneName string, q Quality) string {
	return filepath.Join(e.mediaDir(), sceneName, q.Dir())
}

// FramePath returns the path of frame i (1-based) with extension ext.
func FramePath(dir string, i int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf(FramePattern, i)+"."+ext)
}

// Encode renders tl at quality q into format f.
func (e *Encoder) Encode(ctx context.Context, tl *scene.Timeline, q Quality, f Format) (*Artifact, error) {
	dir := e.Dir(tl.Scene, q)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "create media dir")
	}

	if f == FormatJSON {
		path := filepath.Join(dir, tl.Scene+".json")
		if err := tlio.ExportJSON(tl, path); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "export timeline")
		}
		return &Artifact{Format: f, Path: path, Bytes: fileSize(path)}, nil
	}

	if f.IsVideo() {
		if err := e.checkEncoder(); err != nil {
			return nil, err
		}
	}

	ext := "svg"
	if f.NeedsRaster() {
		ext = "png"
	}
	art, err := e.WriteFrames(ctx, tl, q, dir, ext)
	if err != nil {
		return nil, err
	}
	art.Format = f
	if !f.IsVideo() {
		return art, nil
	}

	out := filepath.Join(dir, tl.Scene+"."+string(f))
	pattern := filepath.Join(dir, FramePattern+".png")
	e.logger().Debug("encoding", "binary", e.ffmpeg(), "out", out, "frames", art.Frames)
	start := time.Now()
	if err := e.run(ctx, e.ffmpeg(), Args(pattern, out, q, f)...); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeEncodeFailed, err, "%s", e.ffmpeg())
	}
	art.Stats.EncodeTime = time.Since(start)
	art.Path = out
	art.Bytes = fileSize(out)
	return art, nil
}

// WriteFrames samples tl at q.FPS and writes one file per frame into dir.
// For ext "png" each distinct SVG frame is rasterised once; repeated
// frames are copied from the first occurrence.
func (e *Encoder) WriteFrames(ctx context.Context, tl *scene.Timeline, q Quality, dir, ext string) (*Artifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "create frame dir")
	}
	// ffmpeg reads the numbered sequence until it breaks, so frames left by
	// a longer earlier render must not survive.
	if err := clearFrames(dir); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "clear old frames")
	}
	times := tl.FrameTimes(q.FPS)
	rec := newLatencyRecorder()
	start := time.Now()

	// first[i] is the index of the earliest frame identical to frame i.
	first := make([]int, len(times))
	svgs := make([][]byte, len(times))
	seen := make(map[uint64]int, len(times))
	for i, t := range times {
		svgs[i] = frame.RenderSVG(tl.StateAt(t), frame.WithSize(q.Width, q.Height))
		h := xxhash.Sum64(svgs[i])
		if j, ok := seen[h]; ok && bytes.Equal(svgs[j], svgs[i]) {
			first[i] = j
			continue
		}
		seen[h] = i
		first[i] = i
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i := range times {
		if first[i] != i {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			data := svgs[i]
			if ext == "png" {
				png, err := e.rasterize(data)
				if err != nil {
					return fmt.Errorf("frame %d: %w", i+1, err)
				}
				data = png
			}
			if err := os.WriteFile(FramePath(dir, i+1, ext), data, 0644); err != nil {
				return apperr.Wrap(apperr.ErrCodeRenderFailed, err, "write frame %d", i+1)
			}
			rec.record(time.Since(t0))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unique := 0
	for i := range times {
		if first[i] == i {
			unique++
			continue
		}
		if err := copyFile(FramePath(dir, first[i]+1, ext), FramePath(dir, i+1, ext)); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "write frame %d", i+1)
		}
	}

	stats := rec.stats()
	stats.RenderTime = time.Since(start)
	e.logger().Debug("frames written", "dir", dir, "frames", len(times), "unique", unique,
		"p50", stats.FrameP50, "p99", stats.FrameP99)
	return &Artifact{Path: dir, Frames: len(times), Unique: unique, Stats: stats}, nil
}

// clearFrames removes every numbered frame (png or svg) in dir.
func clearFrames(dir string) error {
	for _, ext := range []string{"png", "svg"} {
		old, err := filepath.Glob(filepath.Join(dir, "frame_*."+ext))
		if err != nil {
			return err
		}
		for _, path := range old {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

// SaveLastFrame writes the final frame of tl as a PNG next to its frames
// and returns the path.
func (e *Encoder) SaveLastFrame(tl *scene.Timeline, q Quality) (string, error) {
	dir := e.Dir(tl.Scene, q)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeRenderFailed, err, "create media dir")
	}
	svg := frame.RenderSVG(tl.StateAt(tl.Duration), frame.WithSize(q.Width, q.Height))
	png, err := e.rasterize(svg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, tl.Scene+"_last.png")
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeRenderFailed, err, "write last frame")
	}
	return path, nil
}

// Clean removes the media directory. It reports whether anything was
// removed.
func Clean(mediaDir string) (bool, error) {
	if mediaDir == "" {
		mediaDir = DefaultMediaDir
	}
	if _, err := os.Stat(mediaDir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(mediaDir); err != nil {
		return false, fmt.Errorf("remove %s: %w", mediaDir, err)
	}
	return true, nil
}

// Args builds the ffmpeg argument list that encodes the PNG sequence
// matching pattern into out.
func Args(pattern, out string, q Quality, f Format) []string {
	args := []string{
		"-y", "-loglevel", "error",
		"-framerate", fmt.Sprint(q.FPS),
		"-i", pattern,
	}
	switch f {
	case FormatGIF:
		args = append(args,
			"-vf", "split[a][b];[a]palettegen[p];[b][p]paletteuse",
			"-loop", "0")
	default:
		args = append(args,
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"-s", fmt.Sprintf("%dx%d", q.Width, q.Height),
			"-movflags", "+faststart")
	}
	return append(args, out)
}

func (e *Encoder) checkEncoder() error {
	if e.Run != nil {
		return nil
	}
	if _, err := exec.LookPath(e.ffmpeg()); err != nil {
		return apperr.New(apperr.ErrCodeEncoderNotFound,
			"video export requires %s. Install with:\n  macOS:  brew install ffmpeg\n  Linux:  apt install ffmpeg", e.ffmpeg())
	}
	return nil
}

func (e *Encoder) run(ctx context.Context, name string, args ...string) error {
	if e.Run != nil {
		return e.Run(ctx, name, args...)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return err
	}
	return nil
}

func (e *Encoder) rasterize(svg []byte) ([]byte, error) {
	if e.Rasterize != nil {
		return e.Rasterize(svg, 1)
	}
	return render.ToPNG(svg, 1)
}

func (e *Encoder) mediaDir() string {
	if e.MediaDir == "" {
		return DefaultMediaDir
	}
	return e.MediaDir
}

func (e *Encoder) ffmpeg() string {
	if e.FFmpeg == "" {
		return FFmpegBinary
	}
	return e.FFmpeg
}

func (e *Encoder) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

var discardLogger = log.New(io.Discard)

func (e *Encoder) logger() *log.Logger {
	if e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// latencyRecorder collects per-frame render latencies. It is safe for
// concurrent use.
type latencyRecorder struct {
	mu sync.Mutex
	h  *histogram
}

func newLatencyRecorder() *latencyRecorder { return &latencyRecorder{h: newHistogram()} }

func (r *latencyRecorder) record(d time.Duration) {
	r.mu.Lock()
	r.h.record(d)
	r.mu.Unlock()
}

func (r *latencyRecorder) stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.h.stats()
}
