package pathway

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderRenderer struct {
	name  string
	order *[]string
}

func (r orderRenderer) Draw(*ebiten.Image) { *r.order = append(*r.order, r.name) }

func openTestWindow(t *testing.T, cat *Catalog) (*Window, *manualClock) {
	t.Helper()
	clock := newManualClock()
	w := newTestWindow()
	w.clock = clock.Now
	_, err := w.Open(cat,
		WithConfig(testConfig()),
		WithSeed(11),
		WithCompositor(&nopCompositor{}),
		WithClock(clock.Now),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if c := w.Controller(); c != nil {
			c.Dispose()
		}
	})
	return w, clock
}

func TestWindowListenersDeduplicate(t *testing.T) {
	w := newTestWindow()
	a, b := &recordingListener{}, &recordingListener{}
	w.AddListener(a)
	w.AddListener(a)
	w.AddListener(b)
	assert.Equal(t, 2, w.Listeners())

	w.RemoveListener(a)
	w.RemoveListener(a)
	assert.Equal(t, 1, w.Listeners())

	w.dispatchKey(KeyNext)
	assert.Empty(t, a.events)
	assert.Len(t, b.events, 1)
}

func TestWindowDrawOrder(t *testing.T) {
	w := newTestWindow()
	var order []string
	s1 := orderRenderer{"surface1", &order}
	s2 := orderRenderer{"surface2", &order}
	w.AddOverlay(orderRenderer{"overlay", &order})
	w.AttachSurface(s1)
	w.AttachSurface(s2)
	w.AttachSurface(s1)

	w.Draw(nil)
	assert.Equal(t, []string{"surface1", "surface2", "overlay"}, order)

	order = order[:0]
	w.DetachSurface(s1)
	w.Draw(nil)
	assert.Equal(t, []string{"surface2", "overlay"}, order)
}

func TestWindowLayoutDispatchesResize(t *testing.T) {
	w := newTestWindow()
	l := &recordingListener{}
	w.AddListener(l)

	gw, gh := w.Layout(640, 480)
	assert.Equal(t, [2]int{640, 480}, [2]int{gw, gh})
	assert.Empty(t, l.events, "unchanged size should not dispatch")

	gw, gh = w.Layout(1024, 768)
	assert.Equal(t, [2]int{1024, 768}, [2]int{gw, gh})
	require.Len(t, l.events, 1)
	assert.Equal(t, recordedEvent{kind: "resize", w: 1024, h: 768}, l.events[0])

	w.Layout(0, 0)
	assert.Len(t, l.events, 1, "zero size is ignored")
	width, height := w.Size()
	assert.Equal(t, 1024, width)
	assert.Equal(t, 768, height)
}

func TestWindowSetCursorMarksDirty(t *testing.T) {
	w := newTestWindow()
	w.SetCursor(CursorDefault)
	assert.False(t, w.cursorDirty, "same shape is not a change")

	w.SetCursor(CursorPointer)
	assert.True(t, w.cursorDirty)
	assert.Equal(t, CursorPointer, w.Cursor())
	assert.Equal(t, ebiten.CursorShapePointer, w.Cursor().ebitenShape())
	assert.Equal(t, ebiten.CursorShapeDefault, CursorDefault.ebitenShape())
}

func TestWindowOpenAttachesController(t *testing.T) {
	var opened []*Controller
	w := newTestWindow()
	w.OnOpen = func(c *Controller) { opened = append(opened, c) }
	_, err := w.Open(DefaultCatalog(), WithConfig(testConfig()), WithCompositor(&nopCompositor{}))
	require.NoError(t, err)
	defer w.Controller().Dispose()

	require.Len(t, opened, 1)
	assert.Same(t, w.Controller(), opened[0])
	assert.Equal(t, 1, w.Listeners())
	assert.Len(t, w.surfaces, 1)
}

func TestWindowReloadWithoutController(t *testing.T) {
	w := newTestWindow()
	err := w.Reload(DefaultCatalog())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestWindowReloadReplacesController(t *testing.T) {
	w, clock := openTestWindow(t, DefaultCatalog())
	old := w.Controller()
	var opened int
	w.OnOpen = func(*Controller) { opened++ }

	require.NoError(t, w.Reload(testCatalog(t, 3)))

	c := w.Controller()
	require.NotNil(t, c)
	assert.NotSame(t, old, c)
	assert.Equal(t, StateDisposed, old.State())
	assert.Equal(t, StateRunning, c.State())
	assert.Equal(t, 3, c.Progress().Total)
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, w.Listeners(), "old controller must detach")
	assert.Len(t, w.surfaces, 1)

	w.dispatchKey(KeyNext)
	w.dispatchFrame(clock.Now())
	assert.Equal(t, 1, c.CurrentIndex())
}

func TestWindowReloadFailureLeavesNoController(t *testing.T) {
	w, _ := openTestWindow(t, DefaultCatalog())
	old := w.Controller()

	err := w.Reload(&Catalog{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Nil(t, w.Controller())
	assert.Equal(t, StateDisposed, old.State())
	assert.Zero(t, w.Listeners())
}

func TestWindowQueueReloadKeepsNewest(t *testing.T) {
	w, _ := openTestWindow(t, DefaultCatalog())

	w.QueueReload(testCatalog(t, 2))
	w.QueueReload(testCatalog(t, 4))
	w.drainReloads()
	assert.Equal(t, 4, w.Controller().Progress().Total)

	before := w.Controller()
	w.drainReloads()
	assert.Same(t, before, w.Controller(), "nothing pending")
}

func TestWindowCloseTerminates(t *testing.T) {
	w := newTestWindow()
	w.Close()
	assert.ErrorIs(t, w.Update(), ebiten.Termination)
}
