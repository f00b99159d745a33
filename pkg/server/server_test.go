package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algoreel/pkg/cache"
	"github.com/matzehuels/algoreel/pkg/config"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	tlio "github.com/matzehuels/algoreel/pkg/io"
	"github.com/matzehuels/algoreel/pkg/observability"
	"github.com/matzehuels/algoreel/pkg/pipeline"
	"github.com/matzehuels/algoreel/pkg/scene"
)

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), cfg, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, config.Default())
	code, _, body := get(t, ts.URL+"/healthz")
	if code != http.StatusOK || body != "ok\n" {
		t.Errorf("healthz = %d %q", code, body)
	}
}

func TestScenes(t *testing.T) {
	cfg := config.Default()
	cfg.Scenes = map[string]scene.Dataset{"bst": {Values: []float64{3, 1, 2}}}
	ts := newTestServer(t, cfg)

	code, ctype, body := get(t, ts.URL+"/scenes")
	if code != http.StatusOK || ctype != "application/json" {
		t.Fatalf("scenes = %d %s", code, ctype)
	}
	var got []sceneInfo
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(scene.Names()) {
		t.Fatalf("listed %d scenes", len(got))
	}
	for _, info := range got {
		if info.Name == "bst" && len(info.Values) != 3 {
			t.Errorf("bst values = %v, want config override", info.Values)
		}
		if info.Name == "sort" && len(info.Values) != 7 {
			t.Errorf("sort values = %v, want defaults", info.Values)
		}
	}
}

func TestTimeline(t *testing.T) {
	ts := newTestServer(t, config.Default())
	code, _, body := get(t, ts.URL+"/scenes/bst/timeline?values=5,3,8")
	if code != http.StatusOK {
		t.Fatalf("timeline = %d %s", code, body)
	}
	tl, err := tlio.ReadJSON(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if tl.Scene != "bst" {
		t.Errorf("scene = %s", tl.Scene)
	}
	if _, ok := tl.Shape("node-2"); !ok {
		t.Error("timeline should contain the third node")
	}
}

func TestFrame(t *testing.T) {
	ts := newTestServer(t, config.Default())
	code, ctype, body := get(t, ts.URL+"/scenes/list/frame.svg?t=0.5&q=l&caption=a%3Cb")
	if code != http.StatusOK || ctype != "image/svg+xml" {
		t.Fatalf("frame = %d %s %s", code, ctype, body)
	}
	if !strings.HasPrefix(body, "<svg") || !strings.Contains(body, `width="854"`) {
		t.Errorf("frame is not a low quality SVG: %.80s", body)
	}
	if !strings.Contains(body, "a&lt;b") {
		t.Error("caption missing or unescaped")
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, config.Default())
	tests := []struct {
		path string
		code int
		err  string
	}{
		{"/scenes/heap/timeline", http.StatusNotFound, "INVALID_SCENE"},
		{"/scenes/bst/frame.svg?t=-1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/bst/frame.svg?q=z", http.StatusBadRequest, "INVALID_QUALITY"},
		{"/scenes/bst/timeline?values=1,x", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/bst/timeline?values=,", http.StatusBadRequest, "EMPTY_INPUT"},
		{"/scenes/bst/frame.svg?t=NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/bst/frame.svg?t=Inf", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/bst/timeline?values=1,NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/sort/timeline?values=-Inf", http.StatusBadRequest, "INVALID_INPUT"},
		{"/scenes/sort/tree.svg", http.StatusNotFound, "NOT_FOUND"},
		{"/scenes/list/tree.svg", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, _, body := get(t, ts.URL+tt.path)
			if code != tt.code {
				t.Errorf("status = %d, want %d (%s)", code, tt.code, body)
			}
			var e errorBody
			if err := json.Unmarshal([]byte(body), &e); err != nil || e.Code != tt.err {
				t.Errorf("body = %s, want code %s", body, tt.err)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, config.Default())
	get(t, ts.URL+"/scenes/sort/timeline")
	get(t, ts.URL+"/scenes/sort/timeline")

	_, _, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		`algoreel_http_requests_total{code="200",route="/scenes/{name}/timeline"} 2`,
		`algoreel_timeline_compiles_total{cache="miss",scene="sort"} 1`,
		`algoreel_timeline_compiles_total{cache="hit",scene="sort"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestRegisterHooks(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), config.Default(), logger)
	s.RegisterHooks()
	t.Cleanup(observability.Reset)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	get(t, ts.URL+"/scenes/bst/timeline")
	get(t, ts.URL+"/scenes/bst/timeline")

	_, _, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		`algoreel_cache_events_total{event="miss",key="timeline"} 1`,
		`algoreel_cache_events_total{event="set",key="timeline"} 1`,
		`algoreel_cache_events_total{event="hit",key="timeline"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestSetConfig(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(c, nil, logger), config.Default(), logger)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	cfg := config.Default()
	cfg.Scenes = map[string]scene.Dataset{"LinkedListVisualization": {Values: []float64{1, 2}}}
	s.SetConfig(cfg)

	_, _, body := get(t, ts.URL+"/scenes/list/timeline")
	tl, err := tlio.ReadJSON(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	_, has1 := tl.Shape("item-1")
	_, has2 := tl.Shape("item-2")
	if !has1 || has2 {
		t.Error("reloaded dataset not applied")
	}
}

func TestParseValues(t *testing.T) {
	got, err := ParseValues(" 1, 2.5 ,-3")
	if err != nil || len(got) != 3 || got[1] != 2.5 || got[2] != -3 {
		t.Errorf("ParseValues = %v, %v", got, err)
	}

	for _, raw := range []string{"NaN", "1,nan", "Inf", "-inf,2", "+Infinity"} {
		if _, err := ParseValues(raw); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
			t.Errorf("ParseValues(%q) error = %v, want INVALID_INPUT", raw, err)
		}
	}
}
