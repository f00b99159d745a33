package bst

import (
	"math"
	"slices"
	"strconv"
)

// Default layout parameters, in scene units.
const (
	DefaultBaseWidth   = 2.0
	DefaultLevelHeight = 1.5
	DefaultMaxDepth    = 64
)

// NodeID identifies a node by its insertion order. The root is 0.
type NodeID int

// NoNode marks an absent link.
const NoNode NodeID = -1

// Side is the branch direction of a child relative to its parent.
type Side int

const (
	Left Side = iota
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Sign returns -1 for [Left] and +1 for [Right].
func (s Side) Sign() float64 {
	if s == Left {
		return -1
	}
	return 1
}

// Point is a 2D position in scene units. Y grows upward.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// DuplicatePolicy selects how a value equal to an existing key is handled.
type DuplicatePolicy int

const (
	// DuplicatesRight routes equal values right, as value < current implies.
	DuplicatesRight DuplicatePolicy = iota
	// DuplicatesReject fails equal values with [ErrInvalidInsertion].
	DuplicatesReject
)

// Options configures layout geometry and input policy.
type Options struct {
	BaseWidth   float64 // horizontal offset at level 1
	LevelHeight float64 // vertical distance between levels
	Origin      Point   // root position
	MaxDepth    int     // search depth cap
	Duplicates  DuplicatePolicy

	// ImplicitCheck makes Build fail where [CheckImplicit] does.
	ImplicitCheck bool
}

// Option mutates [Options].
type Option func(*Options)

// WithBaseWidth sets the level-1 horizontal offset.
func WithBaseWidth(w float64) Option { return func(o *Options) { o.BaseWidth = w } }

// WithLevelHeight sets the vertical distance between levels.
func WithLevelHeight(h float64) Option { return func(o *Options) { o.LevelHeight = h } }

// WithOrigin sets the root position.
func WithOrigin(p Point) Option { return func(o *Options) { o.Origin = p } }

// WithMaxDepth caps the search depth. Non-positive values keep the default.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d > 0 {
			o.MaxDepth = d
		}
	}
}

// RejectDuplicates makes equal values fail instead of routing right.
func RejectDuplicates() Option { return func(o *Options) { o.Duplicates = DuplicatesReject } }

// WithImplicitCheck makes [Build] reject sequences the implicit-index scheme
// cannot place, such as [2, 4, 8].
func WithImplicitCheck() Option { return func(o *Options) { o.ImplicitCheck = true } }

func defaultOptions() Options {
	return Options{
		BaseWidth:   DefaultBaseWidth,
		LevelHeight: DefaultLevelHeight,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Node is one arena entry.
type Node struct {
	ID     NodeID
	Value  float64
	Parent NodeID
	Left   NodeID
	Right  NodeID
	Side   Side // branch side under Parent; meaningless for the root
	Depth  int  // 0 for the root
	Pos    Point
}

// Label formats the node value without trailing zeros.
func (n Node) Label() string { return FormatValue(n.Value) }

// Edge connects a parent to a child it was created with.
type Edge struct {
	Parent, Child NodeID
	From, To      Point
}

// Insertion describes where a value goes. It is produced by [Tree.Locate]
// and [Tree.Insert] and consumed in order by the scene builder.
type Insertion struct {
	ID          NodeID    // id the node gets once committed
	Value       float64   // inserted value
	Path        []NodeID  // nodes visited, root first, insertion parent last
	PathValues  []float64 // values of Path
	Parent      NodeID
	ParentValue float64
	Side        Side
	Level       int     // len(Path)
	Offset      float64 // horizontal offset magnitude at Level
	Pos         Point
	Edge        Edge
}

// Tree is an append-only arena of nodes. It is not safe for concurrent
// mutation; insertions are inherently sequential.
type Tree struct {
	opts  Options
	nodes []Node
	edges []Edge
	index map[float64]NodeID // first node holding each value
}

// New creates a tree containing only root.
func New(root float64, opts ...Option) (*Tree, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if math.IsNaN(root) {
		return nil, invalidInsertion("root value is NaN")
	}
	t := &Tree{
		opts:  o,
		index: map[float64]NodeID{root: 0},
	}
	t.nodes = append(t.nodes, Node{
		ID:     0,
		Value:  root,
		Parent: NoNode,
		Left:   NoNode,
		Right:  NoNode,
		Pos:    o.Origin,
	})
	return t, nil
}

// Build creates a tree from values[0] and inserts the rest in input order.
// It returns one [Insertion] per non-root value.
func Build(values []float64, opts ...Option) (*Tree, []Insertion, error) {
	if len(values) == 0 {
		return nil, nil, emptyInput()
	}
	t, err := New(values[0], opts...)
	if err != nil {
		return nil, nil, err
	}
	if t.opts.ImplicitCheck {
		if err := CheckImplicit(values, opts...); err != nil {
			return nil, nil, err
		}
	}
	steps := make([]Insertion, 0, len(values)-1)
	for _, v := range values[1:] {
		ins, err := t.Insert(v)
		if err != nil {
			return nil, nil, err
		}
		steps = append(steps, ins)
	}
	return t, steps, nil
}

// Options returns the options the tree was built with.
func (t *Tree) Options() Options { return t.opts }

// Root returns the root node.
func (t *Tree) Root() Node { return t.nodes[0] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []Node { return slices.Clone(t.nodes) }

// Edges returns all edges in creation order.
func (t *Tree) Edges() []Edge { return slices.Clone(t.edges) }

// Find returns the first node holding value.
func (t *Tree) Find(value float64) (NodeID, bool) {
	id, ok := t.index[value]
	return id, ok
}

// Height returns the depth of the deepest node.
func (t *Tree) Height() int {
	h := 0
	for _, n := range t.nodes {
		h = max(h, n.Depth)
	}
	return h
}

// InOrder returns all values in sorted (in-order) sequence.
func (t *Tree) InOrder() []float64 {
	out := make([]float64, 0, len(t.nodes))
	var walk func(NodeID)
	walk = func(id NodeID) {
		if id == NoNode {
			return
		}
		n := t.nodes[id]
		walk(n.Left)
		out = append(out, n.Value)
		walk(n.Right)
	}
	walk(0)
	return out
}

// Locate computes where value would be inserted without modifying t.
// Calling it repeatedly on an unchanged tree yields identical results.
func (t *Tree) Locate(value float64) (Insertion, error) {
	if math.IsNaN(value) {
		return Insertion{}, invalidInsertion("value is NaN")
	}
	if t.opts.Duplicates == DuplicatesReject {
		if _, dup := t.index[value]; dup {
			return Insertion{}, invalidInsertion("duplicate value %s", FormatValue(value))
		}
	}

	cur := t.nodes[0]
	path := []NodeID{cur.ID}
	for {
		next := cur.Right
		if value < cur.Value {
			next = cur.Left
		}
		if next == NoNode {
			break
		}
		if len(path) >= t.opts.MaxDepth {
			return Insertion{}, invalidInsertion("value %s: depth limit %d exceeded", FormatValue(value), t.opts.MaxDepth)
		}
		cur = t.nodes[next]
		path = append(path, cur.ID)
	}

	side := Right
	if value < cur.Value {
		side = Left
	}
	level := len(path)
	offset := HorizontalOffset(t.opts.BaseWidth, level)
	pos := cur.Pos.Add(Point{X: side.Sign() * offset, Y: -t.opts.LevelHeight})

	values := make([]float64, len(path))
	for i, id := range path {
		values[i] = t.nodes[id].Value
	}

	id := NodeID(len(t.nodes))
	return Insertion{
		ID:          id,
		Value:       value,
		Path:        path,
		PathValues:  values,
		Parent:      cur.ID,
		ParentValue: cur.Value,
		Side:        side,
		Level:       level,
		Offset:      offset,
		Pos:         pos,
		Edge:        Edge{Parent: cur.ID, Child: id, From: cur.Pos, To: pos},
	}, nil
}

// Insert locates value and commits it to the tree.
func (t *Tree) Insert(value float64) (Insertion, error) {
	ins, err := t.Locate(value)
	if err != nil {
		return Insertion{}, err
	}
	t.nodes = append(t.nodes, Node{
		ID:     ins.ID,
		Value:  value,
		Parent: ins.Parent,
		Left:   NoNode,
		Right:  NoNode,
		Side:   ins.Side,
		Depth:  ins.Level,
		Pos:    ins.Pos,
	})
	parent := &t.nodes[ins.Parent]
	if ins.Side == Left {
		parent.Left = ins.ID
	} else {
		parent.Right = ins.ID
	}
	t.edges = append(t.edges, ins.Edge)
	if _, seen := t.index[value]; !seen {
		t.index[value] = ins.ID
	}
	return ins, nil
}

// HorizontalOffset returns base / 2^(level-1). Levels below 1 are treated
// as 1.
func HorizontalOffset(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return base / math.Pow(2, float64(level-1))
}

// FormatValue renders a value the way node labels show it: integers without
// a decimal point, everything else in shortest form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
