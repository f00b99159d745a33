package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// ReadJSON decodes a JSON timeline from r.
//
// ReadJSON returns an INVALID_INPUT error if:
//   - The JSON is malformed or the version is unsupported
//   - Two shapes share an id
//   - An op targets an unknown shape (wait ops have no target)
//   - An op has a negative start, a negative duration, or ends after the
//     timeline's duration
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scene.Timeline, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode timeline")
	}
	if doc.Version != FormatVersion {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "unsupported timeline version %d", doc.Version)
	}

	ids := make(map[string]struct{}, len(doc.Shapes))
	for _, s := range doc.Shapes {
		if s.ID == "" {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "shape without id")
		}
		if _, dup := ids[s.ID]; dup {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "shape %s: duplicate id", s.ID)
		}
		ids[s.ID] = struct{}{}
	}

	const eps = 1e-9
	for i, op := range doc.Ops {
		if op.Kind != scene.OpWait {
			if _, ok := ids[op.Target]; !ok {
				return nil, apperr.New(apperr.ErrCodeInvalidInput, "op %d (%s): unknown target %q", i, op.Kind, op.Target)
			}
		}
		if op.Start < 0 || op.Duration < 0 {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "op %d (%s): negative time", i, op.Kind)
		}
		if op.End() > doc.Duration+eps {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "op %d (%s): ends at %.2fs after timeline end %.2fs",
				i, op.Kind, op.End(), doc.Duration)
		}
	}

	return &scene.Timeline{
		Scene:    doc.Scene,
		Title:    doc.Title,
		Shapes:   doc.Shapes,
		Ops:      doc.Ops,
		Duration: doc.Duration,
	}, nil
}

// ImportJSON reads a JSON timeline file at path.
func ImportJSON(path string) (*scene.Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
