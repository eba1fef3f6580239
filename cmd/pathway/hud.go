package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/pathway"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dotRadius  = 6
	dotSpacing = 24
	dotMargin  = 36
	panelW     = 420
	panelH     = 150
)

var (
	hudInk    = color.RGBA{0xee, 0xee, 0xee, 0xff}
	hudDim    = color.RGBA{0x88, 0x88, 0x88, 0xff}
	hudPanel  = color.RGBA{0x10, 0x10, 0x10, 0xd8}
	hudShadow = color.RGBA{0x00, 0x00, 0x00, 0x80}
)

// hud draws the progress dots, the prev/next hint and a detail panel for
// the activated waypoint. It follows whichever controller the window opens.
type hud struct {
	window *pathway.Window
	body   *text.GoTextFace
	title  *text.GoTextFace
}

func loadFace(ttf []byte, size float64) (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("parse hud font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

func newHUD(w *pathway.Window) (*hud, error) {
	body, err := loadFace(goregular.TTF, 16)
	if err != nil {
		return nil, err
	}
	title, err := loadFace(gobold.TTF, 24)
	if err != nil {
		return nil, err
	}
	return &hud{window: w, body: body, title: title}, nil
}

// bind subscribes to a freshly opened controller. Callbacks die with the
// controller on Dispose, so nothing needs removing.
func (h *hud) bind(c *pathway.Controller) {
	c.OnMarkerActivated(func(i int) {
		c.OpenDetail(i)
	})
}

func (h *hud) Draw(screen *ebiten.Image) {
	c := h.window.Controller()
	if c == nil || c.State() != pathway.StateRunning {
		return
	}
	sw, sh := h.window.Size()
	h.drawProgress(screen, c, sw, sh)
	if i, ok := c.DetailIndex(); ok {
		h.drawDetail(screen, c, i, sw, sh)
	}
}

func (h *hud) drawProgress(screen *ebiten.Image, c *pathway.Controller, sw, sh int) {
	p := c.Progress()
	if p.Total == 0 {
		return
	}
	width := float32((p.Total - 1) * dotSpacing)
	x0 := float32(sw)/2 - width/2
	y := float32(sh - dotMargin)
	for i := range p.Total {
		x := x0 + float32(i*dotSpacing)
		wp, _ := c.Waypoint(i)
		accent := wp.AccentColor()
		if i == p.Current {
			vector.DrawFilledCircle(screen, x, y, dotRadius, rgba(accent), true)
			continue
		}
		vector.StrokeCircle(screen, x, y, dotRadius, 1.5, hudDim, true)
	}

	hint := "←  previous     next  →"
	switch {
	case c.DetailOpen():
		hint = "Esc  close"
	case c.IsNavigating():
		hint = ""
	}
	if hint != "" {
		h.drawText(screen, hint, h.body, float64(sw)/2, float64(sh-dotMargin+14), text.AlignCenter, hudDim)
	}
}

func (h *hud) drawDetail(screen *ebiten.Image, c *pathway.Controller, i, sw, sh int) {
	wp, ok := c.Waypoint(i)
	if !ok {
		return
	}
	x := float32(sw-panelW) / 2
	y := float32(sh-panelH) / 2
	vector.DrawFilledRect(screen, x+4, y+4, panelW, panelH, hudShadow, false)
	vector.DrawFilledRect(screen, x, y, panelW, panelH, hudPanel, false)
	vector.DrawFilledRect(screen, x, y, 6, panelH, rgba(wp.AccentColor()), false)

	p := c.Progress()
	h.drawText(screen, wp.Title, h.title, float64(x)+24, float64(y)+24, text.AlignStart, hudInk)
	h.drawText(screen, fmt.Sprintf("Waypoint %d of %d", i+1, p.Total), h.body, float64(x)+24, float64(y)+64, text.AlignStart, hudDim)
	h.drawText(screen, "Press Esc to return to the path", h.body, float64(x)+24, float64(y)+panelH-40, text.AlignStart, hudDim)
}

func (h *hud) drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, align text.Align, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(screen, s, face, op)
}

func rgba(c pathway.Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: 0xff,
	}
}
