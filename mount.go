package pathway

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventListener receives the events a Mount dispatches. Pointer positions
// are in pixels from the top-left of the surface.
type EventListener interface {
	HandleFrame(now time.Time)
	HandlePointerMove(x, y float64)
	HandlePointerClick(x, y float64)
	HandleKey(k Key)
	HandleResize(width, height int)
}

// Renderer draws into a mount's surface once per displayed frame.
type Renderer interface {
	Draw(screen *ebiten.Image)
}

// Mount is the drawable container a controller attaches to. Listeners and
// surfaces are identified by value, so the same value must be passed to
// the matching Remove or Detach call.
type Mount interface {
	// Size returns the current surface size in pixels.
	Size() (width, height int)
	AddListener(l EventListener)
	RemoveListener(l EventListener)
	AttachSurface(r Renderer)
	DetachSurface(r Renderer)
	SetCursor(c CursorShape)
}
