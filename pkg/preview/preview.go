// Package preview plays a compiled timeline in a desktop window.
//
// Controls: space pauses, left/right seek one second, R restarts, L toggles
// looping and Esc or Q closes the window. Without looping the window closes
// itself shortly after the last frame.
package preview

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/matzehuels/algoreel/pkg/encode"
	"github.com/matzehuels/algoreel/pkg/preview/playback"
	"github.com/matzehuels/algoreel/pkg/scene"
)

// Largest window the preview opens; bigger presets are scaled down.
const (
	maxWindowW = 1280
	maxWindowH = 720
)

// debug font cell size of ebitenutil.DebugPrint
const (
	glyphW = 6
	glyphH = 16
)

// Play opens a window and plays tl until it finishes, the window is closed
// or ctx is cancelled.
func Play(ctx context.Context, tl *scene.Timeline, q encode.Quality) error {
	w, h := playback.Fit(q.Width, q.Height, maxWindowW, maxWindowH)
	g := &player{
		ctx:   ctx,
		tl:    tl,
		clock: playback.NewClock(tl.Duration),
		view:  playback.Viewport{W: w, H: h},
	}
	ebiten.SetWindowTitle(fmt.Sprintf("%s (%s)", tl.Title, q.Label))
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(q.FPS)
	return ebiten.RunGame(g)
}

type player struct {
	ctx   context.Context
	tl    *scene.Timeline
	clock *playback.Clock
	view  playback.Viewport
}

func (p *player) Update() error {
	if p.ctx.Err() != nil {
		return ebiten.Termination
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		p.clock.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		p.clock.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		p.clock.Loop = !p.clock.Loop
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		p.clock.Seek(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		p.clock.Seek(1)
	}

	p.clock.Advance(1 / float64(ebiten.TPS()))
	if p.clock.Finished() {
		return ebiten.Termination
	}
	return nil
}

func (p *player) Draw(screen *ebiten.Image) {
	screen.Fill(playback.RGBA(scene.Background, 1))
	f := p.tl.StateAt(p.clock.Time())

	// Connectors first so nodes paint over edge ends.
	for _, it := range f.Items {
		if it.Kind == scene.KindLine || it.Kind == scene.KindArrow {
			p.drawConnector(screen, it)
		}
	}
	for _, it := range f.Items {
		switch it.Kind {
		case scene.KindCircle, scene.KindRect:
			p.drawNode(screen, it)
		case scene.KindText:
			p.drawText(screen, it.Pos, it.Text)
		}
	}

	status := fmt.Sprintf("%5.2fs / %.2fs", f.T, p.tl.Duration)
	if p.clock.Paused() {
		status += "  [paused]"
	}
	if p.clock.Loop {
		status += "  [loop]"
	}
	ebitenutil.DebugPrintAt(screen, status, 4, p.view.H-glyphH-2)
}

func (p *player) Layout(_, _ int) (int, int) {
	return p.view.W, p.view.H
}

func (p *player) drawConnector(screen *ebiten.Image, it scene.ShapeState) {
	end := it.Pos.Lerp(it.End, it.Progress)
	x0, y0 := p.view.Project(it.Pos)
	x1, y1 := p.view.Project(end)
	clr := playback.RGBA(it.Stroke, 1)
	width := strokeWidth(it.StrokeWidth)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)

	if it.Kind != scene.KindArrow || it.Progress < 1 {
		return
	}
	// Arrow head: two short strokes back from the tip.
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := 0.2 * p.view.Scale()
	for _, d := range []float64{math.Pi - 0.45, math.Pi + 0.45} {
		hx := x1 + float32(size*math.Cos(angle+d))
		hy := y1 + float32(size*math.Sin(angle+d))
		vector.StrokeLine(screen, x1, y1, hx, hy, width, clr, true)
	}
}

func (p *player) drawNode(screen *ebiten.Image, it scene.ShapeState) {
	cx, cy := p.view.Project(it.Pos)
	s := float32(p.view.Scale())
	fill := playback.RGBA(it.Fill, it.FillOpacity*it.Progress)
	stroke := playback.RGBA(it.Stroke, it.Progress)
	width := strokeWidth(it.StrokeWidth)

	switch it.Kind {
	case scene.KindCircle:
		r := float32(it.Radius) * s
		vector.DrawFilledCircle(screen, cx, cy, r, fill, true)
		vector.StrokeCircle(screen, cx, cy, r, width, stroke, true)
	case scene.KindRect:
		w, h := float32(it.Width)*s, float32(it.Height)*s
		vector.DrawFilledRect(screen, cx-w/2, cy-h/2, w, h, fill, true)
		vector.StrokeRect(screen, cx-w/2, cy-h/2, w, h, width, stroke, true)
	}
	if it.Label != "" && it.Progress >= 1 {
		p.drawText(screen, it.Pos, it.Label)
	}
}

// drawText centres text on c using the debug font.
func (p *player) drawText(screen *ebiten.Image, c scene.Point, text string) {
	x, y := p.view.Project(c)
	lines := strings.Split(text, "\n")
	top := int(y) - len(lines)*glyphH/2
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(x)-len(line)*glyphW/2, top+i*glyphH)
	}
}

// strokeWidth returns a stroke width in pixels, matching the SVG frames.
func strokeWidth(w float64) float32 {
	if w <= 0 {
		return 2
	}
	return float32(w)
}
