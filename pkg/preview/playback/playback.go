// Package playback holds the window-independent parts of the live preview:
// the playback clock, the scene-to-screen projection and colour parsing.
package playback

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/algoreel/pkg/scene"
)

// Hold is how long the final frame stays on screen before a looping clock
// restarts.
const Hold = 1.0

// Clock tracks the playback position of a timeline.
type Clock struct {
	Duration float64
	Speed    float64
	Loop     bool

	t      float64
	held   float64
	paused bool
}

// NewClock returns a clock at t = 0 playing at normal speed.
func NewClock(duration float64) *Clock {
	return &Clock{Duration: math.Max(duration, 0), Speed: 1}
}

// Advance moves the clock forward by dt wall-clock seconds.
func (c *Clock) Advance(dt float64) {
	if c.paused || dt <= 0 {
		return
	}
	if c.t < c.Duration {
		c.t = math.Min(c.t+dt*c.Speed, c.Duration)
		return
	}
	c.held += dt
	if c.Loop && c.held >= Hold {
		c.Restart()
	}
}

// Time returns the current timeline position in seconds.
func (c *Clock) Time() float64 { return c.t }

// Paused reports whether playback is paused.
func (c *Clock) Paused() bool { return c.paused }

// TogglePause pauses or resumes playback.
func (c *Clock) TogglePause() { c.paused = !c.paused }

// Restart rewinds to the beginning.
func (c *Clock) Restart() {
	c.t = 0
	c.held = 0
}

// Seek moves the position by delta seconds, clamped to the timeline.
func (c *Clock) Seek(delta float64) {
	c.t = math.Max(0, math.Min(c.t+delta, c.Duration))
	c.held = 0
}

// Finished reports whether a non-looping clock has shown the final frame
// for [Hold] seconds.
func (c *Clock) Finished() bool {
	return !c.Loop && c.t >= c.Duration && c.held >= Hold
}

// Viewport maps scene units onto a W×H pixel screen.
type Viewport struct {
	W, H int
}

// Scale returns pixels per scene unit.
func (v Viewport) Scale() float64 { return float64(v.W) / scene.FrameWidth }

// Project converts a scene point (origin centred, Y up) to screen pixels.
func (v Viewport) Project(p scene.Point) (float32, float32) {
	s := v.Scale()
	return float32((p.X + scene.FrameWidth/2) * s), float32((scene.FrameHeight/2 - p.Y) * s)
}

// Fit scales w×h down to fit within maxW×maxH, keeping the aspect ratio.
// Sizes that already fit are returned unchanged.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	f := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return int(math.Round(float64(w) * f)), int(math.Round(float64(h) * f))
}

// RGBA parses a hex colour and applies alpha in [0, 1]. Unparseable
// colours fall back to white.
func RGBA(c scene.Color, alpha float64) color.RGBA {
	r, g, b := uint8(255), uint8(255), uint8(255)
	if col, err := colorful.Hex(string(c)); err == nil {
		r, g, b = col.RGB255()
	}
	a := math.Max(0, math.Min(alpha, 1))
	// ebiten expects premultiplied alpha.
	return color.RGBA{
		R: uint8(float64(r) * a),
		G: uint8(float64(g) * a),
		B: uint8(float64(b) * a),
		A: uint8(255 * a),
	}
}
