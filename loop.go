package pathway

import (
	"time"
)

// RenderLoop is the per-frame driver. Step advances animation state; the
// owner draws afterwards.
type RenderLoop struct {
	glyphs    *GlyphField
	navigator *CameraNavigator
	camera    *Camera
	labels    []*Node
	// maxDelta caps the glyph motion of one frame, in seconds.
	maxDelta float64

	running bool
	last    time.Time
	frames  uint64
}

// NewRenderLoop wires the loop to its animated collaborators.
func NewRenderLoop(glyphs *GlyphField, nav *CameraNavigator, camera *Camera, labels []*Node, maxDelta float64) *RenderLoop {
	return &RenderLoop{
		glyphs:    glyphs,
		navigator: nav,
		camera:    camera,
		labels:    labels,
		maxDelta:  maxDelta,
	}
}

// Start begins stepping with now as the reference time.
func (l *RenderLoop) Start(now time.Time) {
	l.running = true
	l.last = now
}

// Stop halts stepping. Later calls to Step do nothing.
func (l *RenderLoop) Stop() {
	l.running = false
	l.glyphs = nil
	l.navigator = nil
	l.labels = nil
}

// Running reports whether the loop is started.
func (l *RenderLoop) Running() bool {
	return l.running
}

// Frames returns the number of steps taken.
func (l *RenderLoop) Frames() uint64 {
	return l.frames
}

// Step runs one frame at wall-clock time now: glyph drift, then the camera
// transition, then label billboarding. It returns the transition that
// arrived during this frame, if any.
func (l *RenderLoop) Step(now time.Time) *Transition {
	if !l.running {
		return nil
	}
	dt := now.Sub(l.last).Seconds()
	l.last = now
	if dt < 0 {
		dt = 0
	}
	if l.maxDelta > 0 && dt > l.maxDelta {
		dt = l.maxDelta
	}
	l.frames++

	l.glyphs.Update(dt)

	var arrived *Transition
	if l.navigator != nil {
		arrived = l.navigator.Step(now)
	}

	eye := l.camera.Position
	for _, label := range l.labels {
		label.LookAt(eye)
	}
	return arrived
}
