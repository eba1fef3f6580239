package pathway

type syntheticKind uint8

const (
	syntheticMove syntheticKind = iota
	syntheticClick
	syntheticKey
)

// syntheticEvent is a queued input event. Positions are surface pixels,
// the same coordinates real mouse input reports.
type syntheticEvent struct {
	kind syntheticKind
	x, y float64
	key  Key
}

// InjectMove queues a pointer move to the given surface position. The event
// is consumed on the next Update.
func (w *Window) InjectMove(x, y float64) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectClick queues a move followed by a click at the same position.
// Consumes two frames, so hover outlines update before the click lands.
func (w *Window) InjectClick(x, y float64) {
	w.InjectMove(x, y)
	w.injectQueue = append(w.injectQueue, syntheticEvent{kind: syntheticClick, x: x, y: y})
}

// InjectKey queues a navigation key press.
func (w *Window) InjectKey(k Key) {
	w.injectQueue = append(w.injectQueue, syntheticEvent{kind: syntheticKey, key: k})
}

// PendingInjections returns the number of queued synthetic events.
func (w *Window) PendingInjections() int {
	return len(w.injectQueue)
}

// processInjected pops one event from the inject queue and dispatches it.
// Returns true if an event was consumed (real input should be skipped).
func (w *Window) processInjected() bool {
	if len(w.injectQueue) == 0 {
		return false
	}
	evt := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	switch evt.kind {
	case syntheticMove:
		w.dispatchMove(evt.x, evt.y)
	case syntheticClick:
		w.dispatchClick(evt.x, evt.y)
	case syntheticKey:
		w.dispatchKey(evt.key)
	}
	return true
}
