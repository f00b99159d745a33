// Package frame renders sampled scene frames as SVG.
//
// A frame is drawn in two passes: lines and arrows first, then circles,
// rectangles and text, so connectors never cover the nodes they join.
// Shapes still being created are drawn partially: outlines are traced with
// a dash offset, lines grow from their start point, and text fades in.
package frame

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/algoreel/pkg/scene"
)

// Default output size in pixels.
const (
	DefaultWidth  = 854
	DefaultHeight = 480
)

const fontFamily = "Helvetica, Arial, sans-serif"

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	width, height int
	background    scene.Color
	caption       string
}

// WithSize sets the output size in pixels.
func WithSize(w, h int) Option {
	return func(r *renderer) {
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
	}
}

// WithBackground sets the background colour. An empty colour renders a
// transparent background.
func WithBackground(c scene.Color) Option { return func(r *renderer) { r.background = c } }

// WithCaption adds a small caption (e.g. a timestamp) in the bottom-right corner.
func WithCaption(s string) Option { return func(r *renderer) { r.caption = s } }

// RenderSVG draws f. It does not modify f and is safe to call concurrently.
func RenderSVG(f scene.Frame, opts ...Option) []byte {
	r := renderer{width: DefaultWidth, height: DefaultHeight, background: scene.Background}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	for _, it := range f.Items {
		if isConnector(it.Kind) {
			r.renderConnector(&buf, it)
		}
	}
	for _, it := range f.Items {
		switch it.Kind {
		case scene.KindCircle, scene.KindRect:
			r.renderNode(&buf, it)
		case scene.KindText:
			r.renderText(&buf, it)
		}
	}

	if r.caption != "" {
		fmt.Fprintf(&buf, `  <text x="%d" y="%d" text-anchor="end" font-family="%s" font-size="12" fill="#666">%s</text>`+"\n",
			r.width-8, r.height-8, fontFamily, escapeXML(r.caption))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func isConnector(k scene.Kind) bool { return k == scene.KindLine || k == scene.KindArrow }

// scale returns pixels per scene unit.
func (r *renderer) scale() float64 { return float64(r.width) / scene.FrameWidth }

// project maps scene coordinates to SVG pixel coordinates.
func (r *renderer) project(p scene.Point) (float64, float64) {
	s := r.scale()
	return (p.X + scene.FrameWidth/2) * s, (scene.FrameHeight/2 - p.Y) * s
}

func (r *renderer) renderConnector(buf *bytes.Buffer, it scene.ShapeState) {
	end := it.Pos.Lerp(it.End, it.Progress)
	x1, y1 := r.project(it.Pos)
	x2, y2 := r.project(end)
	sw := strokeWidth(it.StrokeWidth)
	fmt.Fprintf(buf, `  <line id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" stroke-linecap="round"/>`+"\n",
		escapeXML(it.ID), x1, y1, x2, y2, it.Stroke, sw)

	if it.Kind != scene.KindArrow || it.Progress < 1 {
		return
	}
	// Arrow head: a triangle pointing along the segment.
	angle := math.Atan2(y2-y1, x2-x1)
	size := 0.25 * r.scale()
	lx := x2 - size*math.Cos(angle-math.Pi/7)
	ly := y2 - size*math.Sin(angle-math.Pi/7)
	rx := x2 - size*math.Cos(angle+math.Pi/7)
	ry := y2 - size*math.Sin(angle+math.Pi/7)
	fmt.Fprintf(buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>`+"\n",
		x2, y2, lx, ly, rx, ry, it.Stroke)
}

func (r *renderer) renderNode(buf *bytes.Buffer, it scene.ShapeState) {
	s := r.scale()
	cx, cy := r.project(it.Pos)
	fill := it.Fill
	if fill == "" {
		fill = "none"
	}
	common := fmt.Sprintf(`id="%s" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.1f" pathLength="1" stroke-dasharray="1" stroke-dashoffset="%.3f"`,
		escapeXML(it.ID), fill, it.FillOpacity*it.Progress, it.Stroke, strokeWidth(it.StrokeWidth), 1-it.Progress)

	switch it.Kind {
	case scene.KindCircle:
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`+"\n", cx, cy, it.Radius*s, common)
	case scene.KindRect:
		w, h := it.Width*s, it.Height*s
		fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n", cx-w/2, cy-h/2, w, h, common)
	}

	if it.Label != "" {
		color := it.TextColor
		if color == "" {
			color = scene.White
		}
		r.writeText(buf, cx, cy, it.Label, it.FontSize, color, it.Progress)
	}
}

func (r *renderer) renderText(buf *bytes.Buffer, it scene.ShapeState) {
	cx, cy := r.project(it.Pos)
	color := it.TextColor
	if color == "" {
		color = it.Stroke
	}
	r.writeText(buf, cx, cy, it.Text, it.FontSize, color, it.Progress)
}

// writeText writes a centred, possibly multi-line text block.
func (r *renderer) writeText(buf *bytes.Buffer, cx, cy float64, text string, fontSize float64, color scene.Color, opacity float64) {
	px := fontPixels(fontSize, r.scale())
	lines := strings.Split(text, "\n")
	lineHeight := px * 1.25
	top := cy - lineHeight*float64(len(lines)-1)/2

	fmt.Fprintf(buf, `  <text text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s" opacity="%.2f">`,
		fontFamily, px, color, opacity)
	for i, line := range lines {
		fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, cx, top+float64(i)*lineHeight, escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

// fontPixels converts a scene font size to pixels. A font size of 100 is
// one scene unit tall.
func fontPixels(size, scale float64) float64 {
	if size <= 0 {
		size = 24
	}
	return size / 100 * scale
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return 2
	}
	return w
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
