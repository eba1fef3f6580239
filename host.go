package pathway

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Window is the Ebitengine-backed Mount. It implements ebiten.Game: each
// Update it polls the mouse and keyboard (or drains injected events), then
// dispatches them and a frame tick to every listener. Draw renders attached
// surfaces followed by overlays.
type Window struct {
	cfg    WindowConfig
	logger *slog.Logger
	clock  func() time.Time

	listeners []EventListener
	surfaces  []Renderer
	overlays  []Renderer

	width, height int
	cursor        CursorShape
	cursorDirty   bool

	pointer pointerState
	keys    []Key

	injectQueue     []syntheticEvent
	screenshotQueue []string
	runner          *ScriptRunner

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// OnOpen runs after Open or Reload constructs a controller.
	OnOpen func(*Controller)

	controller *Controller
	ctrlOpts   []Option
	reloads    chan *Catalog
	quit       bool
}

// NewWindow returns a window sized from cfg. Nothing is shown until Run.
func NewWindow(cfg WindowConfig, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		cfg:           cfg,
		logger:        logger,
		clock:         time.Now,
		width:         cfg.Width,
		height:        cfg.Height,
		ScreenshotDir: "screenshots",
		reloads:       make(chan *Catalog, 1),
	}
}

// --- Mount ---

// Size returns the current layout size.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// AddListener registers l for events. Adding the same listener twice is a no-op.
func (w *Window) AddListener(l EventListener) {
	if slices.Contains(w.listeners, l) {
		return
	}
	w.listeners = append(w.listeners, l)
}

// RemoveListener unregisters l.
func (w *Window) RemoveListener(l EventListener) {
	if i := slices.Index(w.listeners, l); i >= 0 {
		w.listeners = slices.Delete(w.listeners, i, i+1)
	}
}

// AttachSurface adds r to the draw list.
func (w *Window) AttachSurface(r Renderer) {
	if slices.Contains(w.surfaces, r) {
		return
	}
	w.surfaces = append(w.surfaces, r)
}

// DetachSurface removes r from the draw list.
func (w *Window) DetachSurface(r Renderer) {
	if i := slices.Index(w.surfaces, r); i >= 0 {
		w.surfaces = slices.Delete(w.surfaces, i, i+1)
	}
}

// SetCursor changes the OS cursor on the next Update.
func (w *Window) SetCursor(c CursorShape) {
	if c != w.cursor {
		w.cursor = c
		w.cursorDirty = true
	}
}

// Cursor returns the requested cursor shape.
func (w *Window) Cursor() CursorShape {
	return w.cursor
}

// AddOverlay draws r after every surface. Overlays are not detached when a
// controller is disposed.
func (w *Window) AddOverlay(r Renderer) {
	w.overlays = append(w.overlays, r)
}

// Listeners returns the number of registered listeners.
func (w *Window) Listeners() int {
	return len(w.listeners)
}

// --- Controller ownership ---

// Open constructs a controller into the window and keeps the options for
// Reload.
func (w *Window) Open(cat *Catalog, opts ...Option) (*Controller, error) {
	opts = append([]Option{WithLogger(w.logger)}, opts...)
	c, err := NewController(w, cat, opts...)
	if err != nil {
		return nil, err
	}
	w.controller = c
	w.ctrlOpts = opts
	if w.OnOpen != nil {
		w.OnOpen(c)
	}
	return c, nil
}

// Controller returns the controller opened by Open or Reload.
func (w *Window) Controller() *Controller {
	return w.controller
}

// Reload disposes the running controller and constructs a new one from cat
// with the same options. If construction fails the window is left without
// a controller.
func (w *Window) Reload(cat *Catalog) error {
	if w.controller == nil || w.controller.State() != StateRunning {
		return fmt.Errorf("reload: %w", ErrNotRunning)
	}
	w.controller.Dispose()
	c, err := NewController(w, cat, w.ctrlOpts...)
	if err != nil {
		w.controller = nil
		return fmt.Errorf("reload: %w", err)
	}
	w.controller = c
	w.logger.Info("catalog reloaded", slog.Int("waypoints", cat.Len()))
	if w.OnOpen != nil {
		w.OnOpen(c)
	}
	return nil
}

// QueueReload schedules Reload on the next Update. It is safe to call from
// any goroutine; a pending catalog is replaced by a newer one.
func (w *Window) QueueReload(cat *Catalog) {
	for {
		select {
		case w.reloads <- cat:
			return
		default:
		}
		select {
		case <-w.reloads:
		default:
		}
	}
}

func (w *Window) drainReloads() {
	select {
	case cat := <-w.reloads:
		if err := w.Reload(cat); err != nil {
			w.logger.Error("reload failed", slog.Any("error", err))
		}
	default:
	}
}

// Close ends Run after the current frame.
func (w *Window) Close() {
	w.quit = true
}

// --- ebiten.Game ---

// Update polls input and dispatches one frame to every listener.
func (w *Window) Update() error {
	if w.quit {
		return ebiten.Termination
	}
	w.drainReloads()
	if w.runner != nil {
		w.runner.step(w)
		if w.runner.Done() && w.runner.ExitWhenDone {
			w.Close()
		}
	}
	if !w.processInjected() {
		w.pollInput()
	}
	w.dispatchFrame(w.clock())
	if w.cursorDirty {
		w.cursorDirty = false
		ebiten.SetCursorShape(w.cursor.ebitenShape())
	}
	return nil
}

func (w *Window) pollInput() {
	x, y, moved, clicked := w.pointer.poll()
	if moved {
		w.dispatchMove(x, y)
	}
	if clicked {
		w.dispatchClick(x, y)
	}
	w.keys = pollKeys(w.keys[:0])
	for _, k := range w.keys {
		w.dispatchKey(k)
	}
}

// snapshot copies the listener list; listeners may remove themselves
// during dispatch.
func (w *Window) snapshot() []EventListener {
	return slices.Clone(w.listeners)
}

func (w *Window) dispatchMove(x, y float64) {
	for _, l := range w.snapshot() {
		l.HandlePointerMove(x, y)
	}
}

func (w *Window) dispatchClick(x, y float64) {
	for _, l := range w.snapshot() {
		l.HandlePointerClick(x, y)
	}
}

func (w *Window) dispatchKey(k Key) {
	for _, l := range w.snapshot() {
		l.HandleKey(k)
	}
}

func (w *Window) dispatchFrame(now time.Time) {
	for _, l := range w.snapshot() {
		l.HandleFrame(now)
	}
}

func (w *Window) dispatchResize(width, height int) {
	for _, l := range w.snapshot() {
		l.HandleResize(width, height)
	}
}

// Draw renders surfaces, then overlays, then captures queued screenshots.
func (w *Window) Draw(screen *ebiten.Image) {
	for _, r := range slices.Clone(w.surfaces) {
		r.Draw(screen)
	}
	for _, r := range w.overlays {
		r.Draw(screen)
	}
	w.flushScreenshots(screen)
}

// Layout keeps the logical size equal to the outside size and reports
// changes as resizes.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != w.width || outsideHeight != w.height) {
		w.width, w.height = outsideWidth, outsideHeight
		w.dispatchResize(outsideWidth, outsideHeight)
	}
	return w.width, w.height
}

// Run opens the OS window and blocks until it is closed. The controller,
// if any, is disposed before returning.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer func() {
		if w.controller != nil {
			w.controller.Dispose()
		}
	}()
	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func (c CursorShape) ebitenShape() ebiten.CursorShapeType {
	if c == CursorPointer {
		return ebiten.CursorShapePointer
	}
	return ebiten.CursorShapeDefault
}

// Run builds a window from cfg, opens a controller on cat and runs until
// the window is closed.
func Run(cat *Catalog, cfg Config, opts ...Option) error {
	w := NewWindow(cfg.Window, slog.Default())
	if _, err := w.Open(cat, append([]Option{WithConfig(cfg)}, opts...)...); err != nil {
		return err
	}
	if cfg.Debug {
		w.AddOverlay(NewStatsOverlay())
	}
	return w.Run()
}
