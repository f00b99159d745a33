package encode

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/scene"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"", QualityMedium, false},
		{"l", QualityLow, false},
		{"M", QualityMedium, false},
		{"h", QualityHigh, false},
		{"k", Quality4K, false},
		{"x", Quality{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuality(tt.in)
			if tt.wantErr {
				if !apperr.Is(err, apperr.ErrCodeInvalidQuality) {
					t.Fatalf("err = %v, want INVALID_QUALITY", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseQuality(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestQualityPresets(t *testing.T) {
	want := map[string][3]int{
		"l": {854, 480, 15},
		"m": {1280, 720, 30},
		"h": {1920, 1080, 60},
		"k": {3840, 2160, 60},
	}
	for _, q := range Qualities() {
		w := want[q.Name]
		if q.Width != w[0] || q.Height != w[1] || q.FPS != w[2] {
			t.Errorf("%s = %dx%d@%d, want %v", q.Name, q.Width, q.Height, q.FPS, w)
		}
	}
	if QualityMedium.Dir() != "720p30" {
		t.Errorf("Dir = %s", QualityMedium.Dir())
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%s) = %v, %v", f, got, err)
		}
	}
	if f, _ := ParseFormat(""); f != FormatMP4 {
		t.Errorf("default format = %s", f)
	}
	if _, err := ParseFormat("avi"); !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestArgs(t *testing.T) {
	mp4 := Args("d/frame_%05d.png", "d/bst.mp4", QualityHigh, FormatMP4)
	want := []string{
		"-y", "-loglevel", "error", "-framerate", "60", "-i", "d/frame_%05d.png",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-s", "1920x1080", "-movflags", "+faststart",
		"d/bst.mp4",
	}
	if !slices.Equal(mp4, want) {
		t.Errorf("mp4 args = %q", mp4)
	}

	gif := Args("p", "o.gif", QualityLow, FormatGIF)
	if !slices.Contains(gif, "-loop") || gif[len(gif)-1] != "o.gif" || gif[4] != "15" {
		t.Errorf("gif args = %q", gif)
	}
}

// holdTimeline draws one circle over 1s and then holds for 1s.
func holdTimeline(t *testing.T) *scene.Timeline {
	t.Helper()
	b := scene.NewBuilder("hold", "Hold")
	b.Add(scene.Circle("c", scene.Point{}, 0.5, "1", 24))
	b.Play(1, scene.Create("c"))
	b.Wait(1)
	tl, err := b.Timeline()
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

var tiny = Quality{Name: "t", Width: 160, Height: 90, FPS: 4}

func TestWriteFramesSVG(t *testing.T) {
	dir := t.TempDir()
	enc := &Encoder{MediaDir: dir}
	art, err := enc.WriteFrames(context.Background(), holdTimeline(t), tiny, dir, "svg")
	if err != nil {
		t.Fatal(err)
	}
	if art.Frames != 9 {
		t.Errorf("Frames = %d, want 9", art.Frames)
	}
	for i := 1; i <= art.Frames; i++ {
		data, err := os.ReadFile(FramePath(dir, i, "svg"))
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Errorf("frame %d is not SVG", i)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_00010.svg")); !os.IsNotExist(err) {
		t.Error("unexpected extra frame")
	}
}

func TestWriteFramesDeduplicates(t *testing.T) {
	var calls atomic.Int32
	enc := &Encoder{
		MediaDir: t.TempDir(),
		Rasterize: func(svg []byte, _ float64) ([]byte, error) {
			calls.Add(1)
			return append([]byte("PNG"), svg[:8]...), nil
		},
	}
	dir := t.TempDir()
	art, err := enc.WriteFrames(context.Background(), holdTimeline(t), tiny, dir, "png")
	if err != nil {
		t.Fatal(err)
	}
	// Four frames while the circle is drawn in, then five identical held frames.
	if art.Unique != 5 || calls.Load() != 5 {
		t.Errorf("Unique = %d, rasterised %d times, want 5", art.Unique, calls.Load())
	}
	last, _ := os.ReadFile(FramePath(dir, 9, "png"))
	held, _ := os.ReadFile(FramePath(dir, 5, "png"))
	if string(last) != string(held) {
		t.Error("held frames differ")
	}
}

func TestEncodeVideo(t *testing.T) {
	var gotName string
	var gotArgs []string
	enc := &Encoder{
		MediaDir:  t.TempDir(),
		Rasterize: func(svg []byte, _ float64) ([]byte, error) { return []byte("png"), nil },
		Run: func(_ context.Context, name string, args ...string) error {
			gotName, gotArgs = name, args
			return os.WriteFile(args[len(args)-1], []byte("video"), 0644)
		},
	}
	tl := holdTimeline(t)
	art, err := enc.Encode(context.Background(), tl, tiny, FormatMP4)
	if err != nil {
		t.Fatal(err)
	}
	if gotName != FFmpegBinary {
		t.Errorf("ran %s", gotName)
	}
	wantOut := filepath.Join(enc.Dir("hold", tiny), "hold.mp4")
	if art.Path != wantOut || gotArgs[len(gotArgs)-1] != wantOut {
		t.Errorf("Path = %s, want %s", art.Path, wantOut)
	}
	if art.Bytes != 5 || art.Format != FormatMP4 {
		t.Errorf("artifact = %+v", art)
	}
}

func TestEncodeShorterRenderReplacesFrames(t *testing.T) {
	enc := &Encoder{
		MediaDir:  t.TempDir(),
		Rasterize: func(svg []byte, _ float64) ([]byte, error) { return []byte("png"), nil },
		Run: func(_ context.Context, _ string, args ...string) error {
			return os.WriteFile(args[len(args)-1], []byte("video"), 0644)
		},
	}
	long := holdTimeline(t)
	b := scene.NewBuilder("hold", "Hold")
	b.Add(scene.Circle("c", scene.Point{}, 0.5, "1", 24))
	b.Play(0.5, scene.Create("c"))
	short, err := b.Timeline()
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []Format{FormatMP4, FormatSVG} {
		t.Run(string(f), func(t *testing.T) {
			first, err := enc.Encode(context.Background(), long, tiny, f)
			if err != nil {
				t.Fatal(err)
			}
			second, err := enc.Encode(context.Background(), short, tiny, f)
			if err != nil {
				t.Fatal(err)
			}
			if second.Frames >= first.Frames {
				t.Fatalf("short render has %d frames, long %d", second.Frames, first.Frames)
			}
			ext := "svg"
			if f.NeedsRaster() {
				ext = "png"
			}
			dir := enc.Dir("hold", tiny)
			if _, err := os.Stat(FramePath(dir, second.Frames, ext)); err != nil {
				t.Errorf("last frame missing: %v", err)
			}
			if _, err := os.Stat(FramePath(dir, second.Frames+1, ext)); !os.IsNotExist(err) {
				t.Errorf("frame %d from the earlier render survived", second.Frames+1)
			}
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	enc := &Encoder{MediaDir: t.TempDir()}
	art, err := enc.Encode(context.Background(), holdTimeline(t), tiny, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(art.Path) != "hold.json" || art.Bytes == 0 {
		t.Errorf("artifact = %+v", art)
	}
}

func TestEncodeMissingEncoder(t *testing.T) {
	enc := &Encoder{MediaDir: t.TempDir(), FFmpeg: "algoreel-no-such-encoder"}
	_, err := enc.Encode(context.Background(), holdTimeline(t), tiny, FormatGIF)
	if !apperr.Is(err, apperr.ErrCodeEncoderNotFound) {
		t.Errorf("err = %v, want ENCODER_NOT_FOUND", err)
	}
	if !apperr.Fatal(err) {
		t.Error("missing encoder should be fatal")
	}
}

func TestSaveLastFrame(t *testing.T) {
	var got []byte
	enc := &Encoder{
		MediaDir: t.TempDir(),
		Rasterize: func(svg []byte, _ float64) ([]byte, error) {
			got = svg
			return []byte("png"), nil
		},
	}
	path, err := enc.SaveLastFrame(holdTimeline(t), tiny)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "hold_last.png" {
		t.Errorf("path = %s", path)
	}
	if !strings.Contains(string(got), `stroke-dashoffset="0.000"`) {
		t.Error("last frame should show the fully drawn circle")
	}
}

func TestClean(t *testing.T) {
	media := filepath.Join(t.TempDir(), "media")
	removed, err := Clean(media)
	if err != nil || removed {
		t.Fatalf("Clean(missing) = %v, %v", removed, err)
	}

	if err := os.MkdirAll(filepath.Join(media, "bst"), 0755); err != nil {
		t.Fatal(err)
	}
	removed, err = Clean(media)
	if err != nil || !removed {
		t.Fatalf("Clean = %v, %v", removed, err)
	}
	if _, err := os.Stat(media); !os.IsNotExist(err) {
		t.Error("media dir still exists")
	}
}

func TestHistogramStats(t *testing.T) {
	h := newHistogram()
	if h.stats() != (Stats{}) {
		t.Error("empty histogram should report zero stats")
	}
	for i := 1; i <= 100; i++ {
		h.record(msec(i))
	}
	s := h.stats()
	if s.FrameP50 < msec(49) || s.FrameP50 > msec(51) {
		t.Errorf("p50 = %v", s.FrameP50)
	}
	if s.FrameMax < msec(99) {
		t.Errorf("max = %v", s.FrameMax)
	}
}

func msec(n int) time.Duration { return time.Duration(n) * time.Millisecond }
