package pathway

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Callback registry ---

// EventType identifies a controller-level callback.
type EventType uint8

const (
	EventMarkerActivated   EventType = iota // a marker was clicked
	EventIndexChanged                       // the current waypoint changed
	EventNavigatingChanged                  // a transition started or ended
)

type indexHandler struct {
	id uint32
	fn func(int)
}

type flagHandler struct {
	id uint32
	fn func(bool)
}

type handlerRegistry struct {
	markerActivated   []indexHandler
	indexChanged      []indexHandler
	navigatingChanged []flagHandler
	nextID            uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventMarkerActivated:
		h.reg.markerActivated = removeIndexHandler(h.reg.markerActivated, h.id)
	case EventIndexChanged:
		h.reg.indexChanged = removeIndexHandler(h.reg.indexChanged, h.id)
	case EventNavigatingChanged:
		h.reg.navigatingChanged = removeFlagHandler(h.reg.navigatingChanged, h.id)
	}
}

func removeIndexHandler(s []indexHandler, id uint32) []indexHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = indexHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeFlagHandler(s []flagHandler, id uint32) []flagHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = flagHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) addIndex(event EventType, fn func(int)) CallbackHandle {
	r.nextID++
	h := indexHandler{id: r.nextID, fn: fn}
	switch event {
	case EventMarkerActivated:
		r.markerActivated = append(r.markerActivated, h)
	case EventIndexChanged:
		r.indexChanged = append(r.indexChanged, h)
	}
	return CallbackHandle{id: h.id, reg: r, event: event}
}

func (r *handlerRegistry) addFlag(event EventType, fn func(bool)) CallbackHandle {
	r.nextID++
	r.navigatingChanged = append(r.navigatingChanged, flagHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

// fireIndex calls every handler for event. Handlers may remove themselves.
func (r *handlerRegistry) fireIndex(event EventType, i int) {
	var hs []indexHandler
	switch event {
	case EventMarkerActivated:
		hs = r.markerActivated
	case EventIndexChanged:
		hs = r.indexChanged
	}
	for _, h := range append([]indexHandler(nil), hs...) {
		h.fn(i)
	}
}

func (r *handlerRegistry) fireFlag(v bool) {
	for _, h := range append([]flagHandler(nil), r.navigatingChanged...) {
		h.fn(v)
	}
}

func (r *handlerRegistry) clear() {
	r.markerActivated = nil
	r.indexChanged = nil
	r.navigatingChanged = nil
}

// --- Input polling ---

// pointerState tracks the mouse between frames so moves are reported only
// when the position changes.
type pointerState struct {
	x, y int
	seen bool
}

// keyBindings maps physical keys to navigation keys.
var keyBindings = [...]struct {
	key ebiten.Key
	nav Key
}{
	{ebiten.KeyArrowRight, KeyNext},
	{ebiten.KeyArrowLeft, KeyPrevious},
	{ebiten.KeyEscape, KeyClose},
}

// poll reports whether the cursor moved since the last poll and
// whether the left button was pressed this frame.
func (p *pointerState) poll() (x, y float64, moved, clicked bool) {
	mx, my := ebiten.CursorPosition()
	moved = !p.seen || mx != p.x || my != p.y
	p.x, p.y, p.seen = mx, my, true
	clicked = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	return float64(mx), float64(my), moved, clicked
}

// pollKeys appends the navigation keys pressed this frame.
func pollKeys(buf []Key) []Key {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			buf = append(buf, b.nav)
		}
	}
	return buf
}
