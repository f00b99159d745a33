package bst

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	apperr "github.com/matzehuels/algoreel/pkg/errors"
)

// refNode is a pointer-based BST used as an oracle for search paths.
type refNode struct {
	value       float64
	left, right *refNode
}

// insert adds v below n and returns the values visited on the way.
func (n *refNode) insert(v float64) []float64 {
	var path []float64
	cur := n
	for {
		path = append(path, cur.value)
		if v < cur.value {
			if cur.left == nil {
				cur.left = &refNode{value: v}
				return path
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = &refNode{value: v}
				return path
			}
			cur = cur.right
		}
	}
}

func sampleValues() []float64 {
	return []float64{50, 30, 70, 20, 40, 60, 80, 10, 25, 35, 45, 55, 65, 75, 85}
}

func TestBuildScenarios(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		check    float64
		wantPath []float64
		wantSide Side
		wantPos  Point
	}{
		{"left of root", []float64{50, 30, 70}, 30, []float64{50}, Left, Point{-2, -1.5}},
		{"right of root", []float64{50, 30, 70}, 70, []float64{50}, Right, Point{2, -1.5}},
		{"halved at level 2", []float64{50, 30, 70, 20}, 20, []float64{50, 30}, Left, Point{-3, -3}},
		{"right under left", []float64{50, 30, 70, 20, 40}, 40, []float64{50, 30}, Right, Point{-1, -3}},
		{"level 3", sampleValues(), 25, []float64{50, 30, 20}, Right, Point{-2.5, -4.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, steps, err := Build(tt.values)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			var got *Insertion
			for i := range steps {
				if steps[i].Value == tt.check {
					got = &steps[i]
				}
			}
			if got == nil {
				t.Fatalf("no insertion for %v", tt.check)
			}
			if !slices.Equal(got.PathValues, tt.wantPath) {
				t.Errorf("path = %v, want %v", got.PathValues, tt.wantPath)
			}
			if got.Side != tt.wantSide {
				t.Errorf("side = %v, want %v", got.Side, tt.wantSide)
			}
			if got.Pos != tt.wantPos {
				t.Errorf("pos = %+v, want %+v", got.Pos, tt.wantPos)
			}
			if got.Level != len(tt.wantPath) {
				t.Errorf("level = %d, want %d", got.Level, len(tt.wantPath))
			}
			if got.Edge.To != got.Pos {
				t.Errorf("edge end = %+v, want %+v", got.Edge.To, got.Pos)
			}
		})
	}
}

func TestBuildMatchesReferenceTree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(40)
		values := make([]float64, 0, n)
		seen := make(map[float64]bool)
		for len(values) < n {
			v := float64(rng.IntN(1000))
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}

		tree, steps, err := Build(values)
		if err != nil {
			t.Fatalf("trial %d: Build(%v): %v", trial, values, err)
		}
		ref := &refNode{value: values[0]}
		for i, v := range values[1:] {
			want := ref.insert(v)
			if !slices.Equal(steps[i].PathValues, want) {
				t.Fatalf("trial %d: path(%v) = %v, want %v", trial, v, steps[i].PathValues, want)
			}
		}

		sorted := slices.Clone(values)
		slices.Sort(sorted)
		if got := tree.InOrder(); !slices.Equal(got, sorted) {
			t.Fatalf("trial %d: InOrder = %v, want %v", trial, got, sorted)
		}
	}
}

func TestLocateIsPure(t *testing.T) {
	tree, _, err := Build(sampleValues())
	if err != nil {
		t.Fatal(err)
	}
	before := tree.Len()

	a, err := tree.Locate(42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tree.Locate(42)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Locate not idempotent:\n%+v\n%+v", a, b)
	}
	if tree.Len() != before {
		t.Errorf("Locate mutated tree: len %d -> %d", before, tree.Len())
	}
	if a.ID != NodeID(before) {
		t.Errorf("prospective id = %d, want %d", a.ID, before)
	}
}

func TestHorizontalOffset(t *testing.T) {
	prev := math.Inf(1)
	for level := 1; level <= 10; level++ {
		got := HorizontalOffset(DefaultBaseWidth, level)
		want := DefaultBaseWidth / math.Pow(2, float64(level-1))
		if got != want {
			t.Errorf("offset(%d) = %v, want %v", level, got, want)
		}
		if got >= prev {
			t.Errorf("offset(%d) = %v, not below offset(%d) = %v", level, got, level-1, prev)
		}
		prev = got
	}
	if got := HorizontalOffset(4, 0); got != 4 {
		t.Errorf("offset(0) = %v, want clamp to level 1", got)
	}
}

func TestTiesRouteRight(t *testing.T) {
	_, steps, err := Build([]float64{50, 30, 50, 30})
	if err != nil {
		t.Fatal(err)
	}
	if steps[1].Side != Right || !slices.Equal(steps[1].PathValues, []float64{50}) {
		t.Errorf("50 again: side %v path %v, want right of root", steps[1].Side, steps[1].PathValues)
	}
	if steps[2].Side != Right || !slices.Equal(steps[2].PathValues, []float64{50, 30}) {
		t.Errorf("30 again: side %v path %v, want right of 30", steps[2].Side, steps[2].PathValues)
	}
}

func TestRejectDuplicates(t *testing.T) {
	_, _, err := Build([]float64{50, 30, 30}, RejectDuplicates())
	if !errors.Is(err, ErrInvalidInsertion) {
		t.Fatalf("err = %v, want ErrInvalidInsertion", err)
	}
	if !apperr.Is(err, apperr.ErrCodeInvalidInsertion) {
		t.Errorf("err code = %q, want %q", apperr.GetCode(err), apperr.ErrCodeInvalidInsertion)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		opts   []Option
		want   error
	}{
		{"empty", nil, nil, ErrEmptyInput},
		{"nan root", []float64{math.NaN()}, nil, ErrInvalidInsertion},
		{"nan value", []float64{1, math.NaN()}, nil, ErrInvalidInsertion},
		{"depth cap", []float64{1, 2, 3, 4, 5}, []Option{WithMaxDepth(3)}, ErrInvalidInsertion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(tt.values, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDepthCapAllowsExactDepth(t *testing.T) {
	// 1,2,3,4 is a chain whose deepest search path has 3 nodes.
	if _, _, err := Build([]float64{1, 2, 3, 4}, WithMaxDepth(3)); err != nil {
		t.Errorf("Build: %v", err)
	}
}

func TestTreeLinks(t *testing.T) {
	tree, _, err := Build([]float64{50, 30, 70, 20})
	if err != nil {
		t.Fatal(err)
	}
	root := tree.Root()
	if root.Left != 1 || root.Right != 2 {
		t.Errorf("root links = (%d, %d), want (1, 2)", root.Left, root.Right)
	}
	n20, ok := tree.Node(3)
	if !ok || n20.Parent != 1 || n20.Depth != 2 || n20.Side != Left {
		t.Errorf("node 3 = %+v", n20)
	}
	if _, ok := tree.Node(9); ok {
		t.Error("Node(9) should not exist")
	}
	if got := len(tree.Edges()); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}
	if got := tree.Height(); got != 2 {
		t.Errorf("height = %d, want 2", got)
	}
	if id, ok := tree.Find(70); !ok || id != 2 {
		t.Errorf("Find(70) = %d, %v", id, ok)
	}
}

func TestOptions(t *testing.T) {
	_, steps, err := Build([]float64{0, -1}, WithOrigin(Point{1, 1}), WithBaseWidth(4), WithLevelHeight(2))
	if err != nil {
		t.Fatal(err)
	}
	if want := (Point{-3, -1}); steps[0].Pos != want {
		t.Errorf("pos = %+v, want %+v", steps[0].Pos, want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50"},
		{-3, "-3"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
