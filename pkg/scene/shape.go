package scene

import "math"

// Frame geometry in scene units. The frame is centred on the origin.
const (
	FrameWidth  = 14.2
	FrameHeight = 8.0
)

// Color is a CSS hex colour.
type Color string

// Palette used by the built-in scenes.
const (
	Background Color = "#000000"
	White      Color = "#FFFFFF"
	Blue       Color = "#58C4DD"
	Yellow     Color = "#FFFF00"
	Green      Color = "#83C167"
	Orange     Color = "#FF862F"
	Purple     Color = "#9A72AC"
)

// Point is a position in scene units. Y grows upward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Lerp returns the point a fraction f of the way from p to q.
func (p Point) Lerp(q Point, f float64) Point {
	return Point{p.X + (q.X-p.X)*f, p.Y + (q.Y-p.Y)*f}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Kind identifies a drawable shape type.
type Kind string

const (
	KindCircle Kind = "circle"
	KindRect   Kind = "rect"
	KindLine   Kind = "line"
	KindArrow  Kind = "arrow"
	KindText   Kind = "text"
)

// Shape is a drawable element. Circles, rects and text are positioned by
// their centre (Pos); lines and arrows run from Pos to End. Circles and
// rects may carry a centred Label.
type Shape struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Pos         Point   `json:"pos"`
	End         Point   `json:"end,omitzero"`
	Radius      float64 `json:"radius,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Stroke      Color   `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Fill        Color   `json:"fill,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	Label       string  `json:"label,omitempty"`
	Text        string  `json:"text,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	TextColor   Color   `json:"text_color,omitempty"`
}

// Center returns the shape's anchor: its centre, or a line's midpoint.
func (s Shape) Center() Point {
	if s.Kind == KindLine || s.Kind == KindArrow {
		return s.Pos.Lerp(s.End, 0.5)
	}
	return s.Pos
}

// MoveTo returns s translated so that its anchor is at c.
func (s Shape) MoveTo(c Point) Shape {
	d := Point{c.X - s.Center().X, c.Y - s.Center().Y}
	s.Pos = s.Pos.Add(d)
	if s.Kind == KindLine || s.Kind == KindArrow {
		s.End = s.End.Add(d)
	}
	return s
}

// Circle returns a labelled circle in the default node style.
func Circle(id string, c Point, r float64, label string, fontSize float64) Shape {
	return Shape{
		ID: id, Kind: KindCircle, Pos: c, Radius: r,
		Stroke: Blue, StrokeWidth: 4, Fill: Blue, FillOpacity: 0.3,
		Label: label, FontSize: fontSize, TextColor: White,
	}
}

// Rect returns a labelled rectangle in the default element style.
func Rect(id string, c Point, w, h float64, label string, fontSize float64) Shape {
	return Shape{
		ID: id, Kind: KindRect, Pos: c, Width: w, Height: h,
		Stroke: Blue, StrokeWidth: 4, Fill: Blue, FillOpacity: 0.3,
		Label: label, FontSize: fontSize, TextColor: White,
	}
}

// Line returns a plain line segment.
func Line(id string, from, to Point, c Color, width float64) Shape {
	return Shape{ID: id, Kind: KindLine, Pos: from, End: to, Stroke: c, StrokeWidth: width}
}

// Arrow returns a line segment with a head at End.
func Arrow(id string, from, to Point, c Color) Shape {
	return Shape{ID: id, Kind: KindArrow, Pos: from, End: to, Stroke: c, StrokeWidth: 4}
}

// Text returns a free-standing text block. Lines are separated by "\n".
func Text(id string, c Point, text string, fontSize float64, color Color) Shape {
	return Shape{ID: id, Kind: KindText, Pos: c, Text: text, FontSize: fontSize, Stroke: color, TextColor: color}
}
