package playback

import (
	"image/color"
	"testing"

	"github.com/matzehuels/algoreel/pkg/scene"
)

func TestClockPlaysOnce(t *testing.T) {
	c := NewClock(2)
	c.Advance(0.5)
	if c.Time() != 0.5 {
		t.Fatalf("Time = %v", c.Time())
	}
	c.Advance(5)
	if c.Time() != 2 || c.Finished() {
		t.Fatalf("Time = %v, Finished = %v", c.Time(), c.Finished())
	}
	c.Advance(Hold)
	if !c.Finished() {
		t.Error("clock should finish after holding the last frame")
	}
}

func TestClockLoops(t *testing.T) {
	c := NewClock(1)
	c.Loop = true
	c.Advance(1)
	c.Advance(Hold)
	if c.Time() != 0 || c.Finished() {
		t.Errorf("looping clock: Time = %v, Finished = %v", c.Time(), c.Finished())
	}
}

func TestClockPauseSpeedSeek(t *testing.T) {
	c := NewClock(10)
	c.TogglePause()
	c.Advance(1)
	if c.Time() != 0 || !c.Paused() {
		t.Errorf("paused clock advanced to %v", c.Time())
	}
	c.TogglePause()
	c.Speed = 2
	c.Advance(1)
	if c.Time() != 2 {
		t.Errorf("Time at 2x = %v", c.Time())
	}
	c.Seek(-5)
	if c.Time() != 0 {
		t.Errorf("Seek clamps at 0, got %v", c.Time())
	}
	c.Seek(20)
	if c.Time() != 10 {
		t.Errorf("Seek clamps at duration, got %v", c.Time())
	}
	c.Restart()
	if c.Time() != 0 {
		t.Errorf("Restart: %v", c.Time())
	}
}

func TestViewportProject(t *testing.T) {
	v := Viewport{W: 1420, H: 800}
	tests := []struct {
		p    scene.Point
		x, y float32
	}{
		{scene.Point{}, 710, 400},
		{scene.Point{X: -7.1, Y: 4}, 0, 0},
		{scene.Point{X: 1, Y: -1}, 810, 500},
	}
	for _, tt := range tests {
		x, y := v.Project(tt.p)
		if x != tt.x || y != tt.y {
			t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		ww, wh           int
	}{
		{1280, 720, 1280, 720, 1280, 720},
		{3840, 2160, 1280, 720, 1280, 720},
		{1920, 1080, 1600, 1600, 1600, 900},
	}
	for _, tt := range tests {
		w, h := Fit(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.ww || h != tt.wh {
			t.Errorf("Fit(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.ww, tt.wh)
		}
	}
}

func TestRGBA(t *testing.T) {
	if got := RGBA(scene.Blue, 1); got != (color.RGBA{0x58, 0xC4, 0xDD, 0xFF}) {
		t.Errorf("RGBA(blue) = %v", got)
	}
	if got := RGBA("not-a-colour", 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("fallback = %v", got)
	}
	if got := RGBA(scene.White, 0); got != (color.RGBA{}) {
		t.Errorf("transparent = %v", got)
	}
}
