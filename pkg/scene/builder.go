package scene

import "fmt"

// DefaultRunTime is the duration of a Play call given a zero run time.
const DefaultRunTime = 1.0

// Anim is an animation requested in a single [Builder.Play] call.
type Anim struct {
	Kind   OpKind
	Target string
	To     Point
}

// Create draws a shape in.
func Create(id string) Anim { return Anim{Kind: OpCreate, Target: id} }

// Write reveals a text shape.
func Write(id string) Anim { return Anim{Kind: OpWrite, Target: id} }

// MoveTo moves a shape's anchor to p.
func MoveTo(id string, p Point) Anim { return Anim{Kind: OpMove, Target: id, To: p} }

// Builder records shapes and operations against a running clock.
// It is not safe for concurrent use.
type Builder struct {
	tl      Timeline
	now     float64
	current map[string]Shape
	err     error
}

// NewBuilder starts an empty timeline.
func NewBuilder(scene, title string) *Builder {
	return &Builder{
		tl:      Timeline{Scene: scene, Title: title},
		current: make(map[string]Shape),
	}
}

// Now returns the builder clock in seconds.
func (b *Builder) Now() float64 { return b.now }

// Add declares a shape. Shapes are invisible until created or written and
// are painted in declaration order.
func (b *Builder) Add(s Shape) {
	if _, dup := b.current[s.ID]; dup {
		b.fail(fmt.Errorf("duplicate shape id %q", s.ID))
		return
	}
	b.tl.Shapes = append(b.tl.Shapes, s)
	b.current[s.ID] = s
}

// Center returns the anchor of a shape as of the builder clock.
func (b *Builder) Center(id string) Point {
	return b.current[id].Center()
}

// Play runs anims concurrently over runTime seconds and advances the clock.
func (b *Builder) Play(runTime float64, anims ...Anim) {
	if runTime <= 0 {
		runTime = DefaultRunTime
	}
	for _, a := range anims {
		s, ok := b.current[a.Target]
		if !ok {
			b.fail(fmt.Errorf("play: unknown shape %q", a.Target))
			return
		}
		b.tl.Ops = append(b.tl.Ops, Op{Kind: a.Kind, Target: a.Target, Start: b.now, Duration: runTime, To: a.To})
		if a.Kind == OpMove {
			b.current[a.Target] = s.MoveTo(a.To)
		}
	}
	b.now += runTime
}

// SetColor recolours shapes instantly at the current time.
func (b *Builder) SetColor(c Color, ids ...string) {
	for _, id := range ids {
		s, ok := b.current[id]
		if !ok {
			b.fail(fmt.Errorf("set color: unknown shape %q", id))
			return
		}
		s.Stroke = c
		b.current[id] = s
		b.tl.Ops = append(b.tl.Ops, Op{Kind: OpRecolor, Target: id, Start: b.now, Color: c})
	}
}

// Wait holds the frame for d seconds.
func (b *Builder) Wait(d float64) {
	if d <= 0 {
		return
	}
	b.tl.Ops = append(b.tl.Ops, Op{Kind: OpWait, Start: b.now, Duration: d})
	b.now += d
}

// Timeline returns the compiled timeline or the first recording error.
func (b *Builder) Timeline() (*Timeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	tl := b.tl
	tl.Duration = b.now
	return &tl, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
