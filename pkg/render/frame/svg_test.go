package frame

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/algoreel/pkg/scene"
)

func testFrame() scene.Frame {
	return scene.Frame{
		T: 1,
		Items: []scene.ShapeState{
			{Shape: scene.Circle("node-0", scene.Point{}, 0.3, "50", 24), Progress: 1},
			{Shape: scene.Line("edge-1", scene.Point{}, scene.Point{X: -2, Y: -1.5}, scene.White, 2), Progress: 1},
			{Shape: scene.Text("title", scene.Point{Y: 3.4}, "a < b & c", 36, scene.Yellow), Progress: 0.5},
		},
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	out := RenderSVG(testFrame())

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
	if !strings.Contains(string(out), "a &lt; b &amp; c") {
		t.Error("text not escaped")
	}
}

func TestRenderSVGPaintOrder(t *testing.T) {
	out := string(RenderSVG(testFrame()))
	line := strings.Index(out, `id="edge-1"`)
	circle := strings.Index(out, `id="node-0"`)
	if line < 0 || circle < 0 {
		t.Fatalf("missing shapes:\n%s", out)
	}
	if line > circle {
		t.Error("edge painted over node")
	}
}

func TestRenderSVGProjection(t *testing.T) {
	r := renderer{width: 1420, height: 800}
	tests := []struct {
		p      scene.Point
		wx, wy float64
	}{
		{scene.Point{}, 710, 400},
		{scene.Point{X: -7.1, Y: 4}, 0, 0},
		{scene.Point{X: 7.1, Y: -4}, 1420, 800},
	}
	for _, tt := range tests {
		x, y := r.project(tt.p)
		if !near(x, tt.wx) || !near(y, tt.wy) {
			t.Errorf("project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wx, tt.wy)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(scene.Frame{}, WithSize(1920, 1080), WithBackground(""), WithCaption("t=1.00s")))
	if !strings.Contains(out, `viewBox="0 0 1920 1080"`) {
		t.Error("size not applied")
	}
	if strings.Contains(out, `height="100%"`) {
		t.Error("background drawn despite empty colour")
	}
	if !strings.Contains(out, "t=1.00s") {
		t.Error("caption missing")
	}

	def := string(RenderSVG(scene.Frame{}, WithSize(0, -1)))
	if !strings.Contains(def, `viewBox="0 0 854 480"`) {
		t.Error("invalid size should keep the default")
	}
}

func TestRenderSVGPartialLine(t *testing.T) {
	f := scene.Frame{Items: []scene.ShapeState{
		{Shape: scene.Arrow("a", scene.Point{X: -7.1}, scene.Point{X: 7.1}, scene.White), Progress: 0.5},
	}}
	out := string(RenderSVG(f, WithSize(1420, 800)))
	if !strings.Contains(out, `x2="710.00"`) {
		t.Errorf("half-drawn arrow should end at the centre:\n%s", out)
	}
	if strings.Contains(out, "<polygon") {
		t.Error("arrow head drawn before the arrow is complete")
	}

	f.Items[0].Progress = 1
	if !strings.Contains(string(RenderSVG(f)), "<polygon") {
		t.Error("arrow head missing")
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
