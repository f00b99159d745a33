package scene

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// OpKind identifies a timed operation.
type OpKind string

const (
	OpCreate  OpKind = "create"  // draw a shape in over Duration
	OpWrite   OpKind = "write"   // reveal text over Duration
	OpRecolor OpKind = "recolor" // switch stroke colour instantly
	OpMove    OpKind = "move"    // translate to To over Duration
	OpWait    OpKind = "wait"    // hold the current frame
)

// Op is one timed operation on a shape.
type Op struct {
	Kind     OpKind  `json:"kind"`
	Target   string  `json:"target,omitempty"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Color    Color   `json:"color,omitempty"`
	To       Point   `json:"to,omitzero"`
}

// End returns the time the op finishes.
func (o Op) End() float64 { return o.Start + o.Duration }

// Timeline is a compiled scene: the shapes it draws, in paint order, and
// the operations that play them out.
type Timeline struct {
	Scene    string  `json:"scene"`
	Title    string  `json:"title"`
	Shapes   []Shape `json:"shapes"`
	Ops      []Op    `json:"ops"`
	Duration float64 `json:"duration"`
}

// Shape returns the declared (initial) state of the shape with the given id.
func (tl *Timeline) Shape(id string) (Shape, bool) {
	for _, s := range tl.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// Count returns the number of ops of the given kind.
func (tl *Timeline) Count(kind OpKind) int {
	n := 0
	for _, op := range tl.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// ShapeState is a shape as it appears at a sampled instant.
type ShapeState struct {
	Shape
	// Progress is the reveal fraction in [0, 1] for shapes being created
	// or written; 1 once fully drawn.
	Progress float64
}

// Frame is the visible scene at time T, in paint order.
type Frame struct {
	T     float64
	Items []ShapeState
}

// Easing is the rate function applied to moves.
var Easing ease.TweenFunc = ease.InOutQuad

// StateAt samples the timeline at time t (seconds). Times outside
// [0, Duration] are clamped.
func (tl *Timeline) StateAt(t float64) Frame {
	t = math.Max(0, math.Min(t, tl.Duration))

	type live struct {
		shape    Shape
		visible  bool
		progress float64
	}
	states := make(map[string]*live, len(tl.Shapes))
	for _, s := range tl.Shapes {
		states[s.ID] = &live{shape: s}
	}

	for _, op := range tl.Ops {
		if op.Start > t {
			break
		}
		st, ok := states[op.Target]
		if !ok {
			continue
		}
		switch op.Kind {
		case OpCreate, OpWrite:
			st.visible = true
			st.progress = fraction(t, op)
		case OpRecolor:
			st.shape.Stroke = op.Color
			if st.shape.Fill != "" {
				st.shape.Fill = op.Color
			}
			if st.shape.Kind == KindText {
				st.shape.TextColor = op.Color
			}
		case OpMove:
			from := st.shape.Center()
			f := ease01(fraction(t, op), op.Duration)
			st.shape = st.shape.MoveTo(from.Lerp(op.To, f))
		}
	}

	frame := Frame{T: t}
	for _, s := range tl.Shapes {
		st := states[s.ID]
		if !st.visible {
			continue
		}
		frame.Items = append(frame.Items, ShapeState{Shape: st.shape, Progress: st.progress})
	}
	return frame
}

// FrameTimes returns the sample instants for rendering at fps frames per
// second, always including t = 0 and the final instant.
func (tl *Timeline) FrameTimes(fps int) []float64 {
	if fps <= 0 {
		fps = 1
	}
	n := int(math.Ceil(tl.Duration * float64(fps)))
	times := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		times = append(times, float64(i)/float64(fps))
	}
	return append(times, tl.Duration)
}

func fraction(t float64, op Op) float64 {
	if op.Duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, (t-op.Start)/op.Duration))
}

// ease01 maps a linear fraction through Easing using a one-shot tween.
func ease01(f, duration float64) float64 {
	if f >= 1 || duration <= 0 {
		return 1
	}
	tw := gween.New(0, 1, float32(duration), Easing)
	v, _ := tw.Update(float32(f * duration))
	return float64(v)
}
