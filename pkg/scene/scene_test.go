package scene

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/algoreel/pkg/bst"
	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"bst", "bst", false},
		{"BSTVisualization", "bst", false},
		{"sortingvisualization", "sort", false},
		{"list", "list", false},
		{"heap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !apperr.Is(err, apperr.ErrCodeInvalidScene) {
					t.Errorf("code = %q, want %q", apperr.GetCode(err), apperr.ErrCodeInvalidScene)
				}
				return
			}
			if d.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, d.Name, tt.want)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	defs, err := Resolve("all")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, d := range defs {
		got = append(got, d.Name)
	}
	if want := []string{"bst", "sort", "list"}; !slices.Equal(got, want) {
		t.Errorf("Resolve(all) = %v, want %v", got, want)
	}
}

func TestBuildAllScenes(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			tl, err := d.Build(Dataset{})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if tl.Duration <= 0 {
				t.Errorf("duration = %v, want > 0", tl.Duration)
			}
			for i := 1; i < len(tl.Ops); i++ {
				if tl.Ops[i].Start < tl.Ops[i-1].Start {
					t.Fatalf("op %d starts at %v before op %d at %v", i, tl.Ops[i].Start, i-1, tl.Ops[i-1].Start)
				}
			}
			if last := tl.Ops[len(tl.Ops)-1]; last.End() != tl.Duration {
				t.Errorf("last op ends at %v, duration %v", last.End(), tl.Duration)
			}
		})
	}
}

func TestBSTSceneUsesLayout(t *testing.T) {
	d, _ := Lookup("bst")
	tl, err := d.Build(Dataset{Values: []float64{50, 30, 70, 20}})
	if err != nil {
		t.Fatal(err)
	}

	n20, ok := tl.Shape("node-3")
	if !ok {
		t.Fatal("node-3 missing")
	}
	want := Point{X: -3, Y: bstRootY - 3}
	if n20.Pos != want || n20.Label != "20" {
		t.Errorf("node-3 = %+v %q, want %+v \"20\"", n20.Pos, n20.Label, want)
	}

	edge, ok := tl.Shape("edge-3")
	if !ok {
		t.Fatal("edge-3 missing")
	}
	if edge.End != want || edge.Pos != (Point{X: -2, Y: bstRootY - 1.5}) {
		t.Errorf("edge-3 = %+v -> %+v", edge.Pos, edge.End)
	}

	// 20's search path (50, 30) is highlighted then reset.
	var yellow []string
	for _, op := range tl.Ops {
		if op.Kind == OpRecolor && op.Color == Yellow {
			yellow = append(yellow, op.Target)
		}
	}
	if wantY := []string{"node-0", "node-0", "node-0", "node-1"}; !slices.Equal(yellow, wantY) {
		t.Errorf("highlighted = %v, want %v", yellow, wantY)
	}
	if got := tl.Count(OpCreate); got != 1+2*3 {
		t.Errorf("creates = %d, want 7", got)
	}
}

func TestBSTSceneHighlightsParent(t *testing.T) {
	d, _ := Lookup("bst")
	tl, err := d.Build(Dataset{Values: []float64{50, 30, 70, 20, 40}})
	if err != nil {
		t.Fatal(err)
	}

	// One yellow flash per insertion; its last target is the new node's parent.
	var flashes [][]string
	last := -1.0
	for _, op := range tl.Ops {
		if op.Kind != OpRecolor || op.Color != Yellow {
			continue
		}
		if op.Start != last {
			flashes = append(flashes, nil)
			last = op.Start
		}
		flashes[len(flashes)-1] = append(flashes[len(flashes)-1], op.Target)
	}
	wantParents := []string{"node-0", "node-0", "node-1", "node-1"}
	if len(flashes) != len(wantParents) {
		t.Fatalf("flashes = %v, want %d", flashes, len(wantParents))
	}
	for i, f := range flashes {
		if f[0] != "node-0" || f[len(f)-1] != wantParents[i] {
			t.Errorf("flash %d = %v, want root to %s", i, f, wantParents[i])
		}
	}
}

func TestBSTSceneRejectsNaN(t *testing.T) {
	d, _ := Lookup("bst")
	_, err := d.Build(Dataset{Values: []float64{1, math.NaN()}})
	if !errors.Is(err, bst.ErrInvalidInsertion) {
		t.Fatalf("err = %v, want ErrInvalidInsertion", err)
	}
	if apperr.Fatal(err) {
		t.Error("a bad dataset should fail only its own scene")
	}
}

func TestEmptyDataset(t *testing.T) {
	tests := []struct {
		name  string
		build func(Dataset) (*Timeline, error)
	}{
		{"sort", buildSort},
		{"list", buildList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(Dataset{})
			if !apperr.Is(err, apperr.ErrCodeEmptyInput) {
				t.Errorf("err = %v, want EMPTY_INPUT", err)
			}
		})
	}
}

func TestBubbleSortSteps(t *testing.T) {
	in := []float64{64, 34, 25, 12, 22, 11, 90}
	steps := BubbleSortSteps(in)

	if len(steps) != 21 { // n(n-1)/2 comparisons
		t.Fatalf("steps = %d, want 21", len(steps))
	}
	last := steps[len(steps)-1].After
	if !slices.IsSorted(last) {
		t.Errorf("final state %v is not sorted", last)
	}
	if in[0] != 64 {
		t.Error("input was modified")
	}
	if !steps[0].Swapped || steps[0].J != 0 || steps[0].After[0] != 34 {
		t.Errorf("first step = %+v", steps[0])
	}
}

func TestBubbleSortStepsEdgeCases(t *testing.T) {
	if got := BubbleSortSteps(nil); len(got) != 0 {
		t.Errorf("nil input: %d steps", len(got))
	}
	for _, s := range BubbleSortSteps([]float64{1, 2, 3}) {
		if s.Swapped {
			t.Errorf("sorted input swapped at %+v", s)
		}
	}
}

func TestSortSceneFinalPositions(t *testing.T) {
	d, _ := Lookup("sort")
	tl, err := d.Build(Dataset{Values: []float64{3, 1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	frame := tl.StateAt(tl.Duration)
	pos := make(map[string]float64)
	for _, it := range frame.Items {
		if it.Kind == KindRect {
			pos[it.Label] = it.Pos.X
		}
	}
	if !(pos["1"] < pos["2"] && pos["2"] < pos["3"]) {
		t.Errorf("final x positions = %v, want sorted left to right", pos)
	}
	for _, it := range frame.Items {
		if it.Kind == KindRect && it.Stroke != Green {
			t.Errorf("%s stroke = %s, want green", it.Label, it.Stroke)
		}
	}
}

func TestTraversalOrder(t *testing.T) {
	if got := TraversalOrder(5); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("TraversalOrder(5) = %v", got)
	}
	if got := TraversalOrder(0); len(got) != 0 {
		t.Errorf("TraversalOrder(0) = %v", got)
	}
}

func TestListSceneEndsGreen(t *testing.T) {
	d, _ := Lookup("list")
	tl, err := d.Build(Dataset{})
	if err != nil {
		t.Fatal(err)
	}
	frame := tl.StateAt(tl.Duration)
	circles, arrows := 0, 0
	for _, it := range frame.Items {
		switch it.Kind {
		case KindCircle:
			circles++
			if it.Stroke != Green {
				t.Errorf("%s stroke = %s, want green", it.ID, it.Stroke)
			}
		case KindArrow:
			arrows++
		}
	}
	if circles != 5 || arrows != 4 {
		t.Errorf("circles = %d arrows = %d, want 5 and 4", circles, arrows)
	}
}
