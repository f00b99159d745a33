package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/algoreel/pkg/bst"
	"github.com/matzehuels/algoreel/pkg/encode"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
	tlio "github.com/matzehuels/algoreel/pkg/io"
	"github.com/matzehuels/algoreel/pkg/pipeline"
	"github.com/matzehuels/algoreel/pkg/render/frame"
	"github.com/matzehuels/algoreel/pkg/render/nodelink"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// sceneInfo is the /scenes listing entry.
type sceneInfo struct {
	Name        string    `json:"name"`
	Class       string    `json:"class"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Values      []float64 `json:"values"`
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	cfg := s.config()
	var out []sceneInfo
	for _, def := range scene.All() {
		ds := cfg.Dataset(def)
		if len(ds.Values) == 0 {
			ds = def.Defaults
		}
		out = append(out, sceneInfo{
			Name:        def.Name,
			Class:       def.Class,
			Title:       def.Title,
			Description: def.Description,
			Values:      ds.Values,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.compile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tlio.WriteJSON(tl, &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	tl, err := s.compile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()

	t := tl.Duration
	if v := q.Get("t"); v != "" {
		t, err = strconv.ParseFloat(v, 64)
		if err != nil || t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "t must be a finite non-negative number of seconds, got %q", v))
			return
		}
	}

	quality, err := encode.ParseQuality(q.Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	svg := frame.RenderSVG(tl.StateAt(t),
		frame.WithSize(quality.Width, quality.Height),
		frame.WithCaption(q.Get("caption")))
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// handleTree draws the final tree of the bst scene. Other scenes have no
// tree and get 404.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	def, err := scene.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if def.Name != "bst" {
		writeError(w, apperr.New(apperr.ErrCodeNotFound, "scene %q has no tree", def.Name))
		return
	}
	values, err := s.values(r, def)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(values) == 0 {
		values = def.Defaults.Values
	}
	tree, _, err := bst.Build(values)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	dot := nodelink.ToDOT(tree, nodelink.Options{
		Detailed: q.Has("detailed"),
		Pinned:   q.Has("pinned"),
	})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// compile builds the timeline of the scene named in the route.
func (s *Server) compile(r *http.Request) (*scene.Timeline, error) {
	def, err := scene.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		return nil, err
	}
	values, err := s.values(r, def)
	if err != nil {
		return nil, err
	}
	tl, hit, err := s.runner.Compile(r.Context(), pipeline.Options{
		Scene:  def.Name,
		Format: string(encode.FormatJSON),
		Values: values,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.compiled(def.Name, hit)
	return tl, nil
}

// values returns the ?values= override, falling back to the configured
// dataset. An empty result means the scene defaults.
func (s *Server) values(r *http.Request, def scene.Definition) ([]float64, error) {
	raw := r.URL.Query().Get("values")
	if raw == "" {
		return s.config().Dataset(def).Values, nil
	}
	return ParseValues(raw)
}

// ParseValues parses a comma-separated list of finite numbers.
func ParseValues(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "invalid value %q", p)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "value %q is not a finite number", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, apperr.New(apperr.ErrCodeEmptyInput, "values must not be empty")
	}
	return out, nil
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{
		Error: apperr.UserMessage(err),
		Code:  string(apperr.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidScene, apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidInsertion, apperr.ErrCodeEmptyInput,
		apperr.ErrCodeInvalidQuality, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
