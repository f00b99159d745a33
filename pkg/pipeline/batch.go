package pipeline

import (
	"context"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// Failure is a scene that did not render.
type Failure struct {
	Scene string
	Err   error
}

// Summary reports the outcome of [Runner.ExecuteAll].
type Summary struct {
	Results  []*Result
	Failures []Failure
}

// OK reports whether every scene rendered.
func (s *Summary) OK() bool { return len(s.Failures) == 0 }

// Total returns the number of scenes attempted.
func (s *Summary) Total() int { return len(s.Results) + len(s.Failures) }

// ExecuteAll renders each entry of opts in order. A failing scene is
// recorded and the batch continues, except when [apperr.Fatal] reports the
// failure would affect every remaining scene. In that case the batch stops
// and the error is returned alongside the partial summary.
func (r *Runner) ExecuteAll(ctx context.Context, opts []Options) (*Summary, error) {
	s := &Summary{}
	for i, o := range opts {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		r.Logger.Info("rendering scene", "scene", o.Scene, "n", i+1, "of", len(opts))
		res, err := r.Execute(ctx, o)
		if err == nil {
			s.Results = append(s.Results, res)
			continue
		}
		s.Failures = append(s.Failures, Failure{Scene: o.Scene, Err: err})
		r.Logger.Error("scene failed", "scene", o.Scene, "error", err)
		if apperr.Fatal(err) {
			return s, err
		}
	}
	return s, nil
}
