package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/algoreel/pkg/scene"
)

// FormatVersion is written into every exported document.
const FormatVersion = 1

type document struct {
	Version  int           `json:"version"`
	Scene    string        `json:"scene"`
	Title    string        `json:"title,omitempty"`
	Duration float64       `json:"duration"`
	Shapes   []scene.Shape `json:"shapes"`
	Ops      []scene.Op    `json:"ops"`
}

// WriteJSON encodes a timeline as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(tl *scene.Timeline, w io.Writer) error {
	out := document{
		Version:  FormatVersion,
		Scene:    tl.Scene,
		Title:    tl.Title,
		Duration: tl.Duration,
		Shapes:   tl.Shapes,
		Ops:      tl.Ops,
	}
	if out.Shapes == nil {
		out.Shapes = []scene.Shape{}
	}
	if out.Ops == nil {
		out.Ops = []scene.Op{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a timeline to a JSON file at path.
func ExportJSON(tl *scene.Timeline, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(tl, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
