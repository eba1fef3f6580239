package pathway

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// StatsOverlay is a Renderer that prints FPS and TPS in the top-left corner.
// The text is redrawn about twice a second.
type StatsOverlay struct {
	img   *ebiten.Image
	last  time.Time
	every time.Duration
	text  string
}

// NewStatsOverlay returns an overlay for Window.AddOverlay.
func NewStatsOverlay() *StatsOverlay {
	return &StatsOverlay{every: 500 * time.Millisecond}
}

// Draw implements Renderer.
func (o *StatsOverlay) Draw(screen *ebiten.Image) {
	if o.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		o.img = ebiten.NewImage(100, 32)
	}
	if now := time.Now(); now.Sub(o.last) >= o.every {
		o.last = now
		o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		o.img.Clear()
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
	}
	screen.DrawImage(o.img, nil)
}
