package pathway

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// State is the controller lifecycle stage.
type State uint8

const (
	StateUninitialized State = iota
	StateConstructing
	StateRunning
	StateDisposing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConstructing:
		return "constructing"
	case StateRunning:
		return "running"
	case StateDisposing:
		return "disposing"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Progress is the read model for a progress indicator.
type Progress struct {
	Total   int
	Current int
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSeed fixes the random source of the scene build, overriding
// Config.Seed.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithCompositor replaces the shader-based compositor. The controller
// disposes it on Dispose.
func WithCompositor(comp Compositor) Option {
	return func(c *Controller) { c.compositor = comp }
}

// WithClock sets the time source used outside frame callbacks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithLabelStyle overrides the label and glyph canvas style.
func WithLabelStyle(style LabelStyle) Option {
	return func(c *Controller) { c.labelStyle = style }
}

// Controller is the composition root: it builds the scene into a Mount,
// routes pointer and key events to picking and navigation, drives the render
// loop, and tears everything down on Dispose. All methods must be called
// from the goroutine that dispatches the mount's events.
type Controller struct {
	cfg        Config
	logger     *slog.Logger
	clock      func() time.Time
	seed       uint64
	seedSet    bool
	labelStyle LabelStyle
	compositor Compositor

	state   State
	mount   Mount
	catalog *Catalog

	root      *Node
	scene     *BuildResult
	camera    *Camera
	selection OutlineSelection
	picking   *PickingController
	nav       *CameraNavigator
	loop      *RenderLoop

	navigating  bool
	detailOpen  bool
	detailIndex int

	handlers handlerRegistry
}

// New returns an uninitialized controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		cfg:        DefaultConfig(),
		logger:     slog.Default(),
		clock:      time.Now,
		labelStyle: DefaultLabelStyle(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewController creates a controller and constructs it into mount.
func NewController(mount Mount, cat *Catalog, opts ...Option) (*Controller, error) {
	c := New(opts...)
	if err := c.Construct(mount, cat); err != nil {
		return nil, err
	}
	return c, nil
}

// State returns the lifecycle stage.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) setState(s State) {
	c.state = s
	c.logger.Info("controller state", slog.String("state", s.String()))
}

// Construct builds the scene, attaches to mount, starts the render loop and
// snaps the camera to the first waypoint. On failure nothing is attached and
// the controller stays uninitialized.
func (c *Controller) Construct(mount Mount, cat *Catalog) error {
	if c.state != StateUninitialized {
		return fmt.Errorf("construct in state %s: %w", c.state, ErrConstructed)
	}
	if mount == nil {
		return fmt.Errorf("construct: %w", ErrNoMount)
	}
	if cat.Len() < 2 {
		return fmt.Errorf("construct: %w: %w", ErrInvalidCatalog, ErrTooFewWaypoints)
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("construct: %w", err)
	}

	c.setState(StateConstructing)
	if err := c.build(mount, cat); err != nil {
		c.logger.Error("construction failed", slog.Any("error", err))
		c.setState(StateUninitialized)
		return fmt.Errorf("construct: %w", err)
	}

	c.mount = mount
	c.catalog = cat
	mount.AddListener(c)
	mount.AttachSurface(c)
	c.setState(StateRunning)

	now := c.clock()
	c.loop.Start(now)
	c.goTo(0, true)
	return nil
}

// build creates every scene resource. Partial results are released on error.
func (c *Controller) build(mount Mount, cat *Catalog) (err error) {
	seed := c.cfg.Seed
	if c.seedSet {
		seed = c.seed
	}
	if seed == 0 {
		seed = uint64(c.clock().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	raster, err := NewLabelRasterizer(c.labelStyle)
	if err != nil {
		return err
	}
	defer closeLogged(c.logger, "label faces", raster)

	res, err := NewGeometryBuilder(c.cfg.Geometry, c.cfg.Glyphs, raster, rng).Build(cat)
	if err != nil {
		return err
	}
	root := NewContainer("scene")
	for _, group := range [][]*Node{res.Static, res.Markers, res.Labels, res.GlyphNodes()} {
		for _, n := range group {
			root.AddChild(n)
		}
	}
	defer func() {
		if err != nil {
			root.Dispose()
			res.Glyphs.Dispose()
		}
	}()

	w, h := mount.Size()
	camera := NewCamera(c.cfg.Camera, w, h)

	comp := c.compositor
	if comp == nil {
		lights := append(c.cfg.SceneLights(), res.Lights...)
		r := NewRasterizer(lights, c.cfg.Fog(), c.cfg.BackgroundColor())
		pc, err := NewPassCompositor(r, c.cfg.Outline, c.cfg.Antialias)
		if err != nil {
			return err
		}
		comp = pc
	}
	comp.Resize(w, h)

	c.root = root
	c.scene = res
	c.camera = camera
	c.compositor = comp
	c.picking = NewPickingController(camera, &c.selection, mount)
	c.picking.SetMarkers(res.Markers)
	c.nav = NewCameraNavigator(camera, c.cfg.Navigation, cat.Positions(), c.picking.Reset)
	c.loop = NewRenderLoop(res.Glyphs, c.nav, camera, res.Labels, c.cfg.MaxFrameDelta)
	return nil
}

// --- Outbound read model ---

// CurrentIndex returns the current waypoint, or 0 when not running.
func (c *Controller) CurrentIndex() int {
	if c.state != StateRunning {
		return 0
	}
	return c.nav.CurrentIndex()
}

// IsNavigating reports whether an animated transition is in flight.
func (c *Controller) IsNavigating() bool {
	return c.state == StateRunning && c.nav.InProgress()
}

// Progress returns the waypoint count and current index. Both are zero when
// not running.
func (c *Controller) Progress() Progress {
	if c.state != StateRunning {
		return Progress{}
	}
	return Progress{Total: c.catalog.Len(), Current: c.nav.CurrentIndex()}
}

// DetailOpen reports whether a detail view is open.
func (c *Controller) DetailOpen() bool {
	return c.state == StateRunning && c.detailOpen
}

// DetailIndex returns the waypoint whose detail view is open.
func (c *Controller) DetailIndex() (int, bool) {
	if !c.DetailOpen() {
		return 0, false
	}
	return c.detailIndex, true
}

// Waypoint returns waypoint i of the running catalog.
func (c *Controller) Waypoint(i int) (Waypoint, bool) {
	if c.state != StateRunning {
		return Waypoint{}, false
	}
	return c.catalog.At(i)
}

// Camera returns the scene camera, or nil when not running.
func (c *Controller) Camera() *Camera {
	if c.state != StateRunning {
		return nil
	}
	return c.camera
}

// Markers returns the marker nodes. The returned slice MUST NOT be mutated by the caller.
func (c *Controller) Markers() []*Node {
	if c.state != StateRunning {
		return nil
	}
	return c.scene.Markers
}

// Selection returns the outlined nodes.
func (c *Controller) Selection() []*Node {
	return c.selection.Nodes()
}

// TargetPose returns the resting camera pose for waypoint i.
func (c *Controller) TargetPose(i int) (Pose, bool) {
	if c.state != StateRunning {
		return Pose{}, false
	}
	return c.nav.TargetPose(i)
}

// OnMarkerActivated registers fn to run with the waypoint index of a
// clicked marker.
func (c *Controller) OnMarkerActivated(fn func(index int)) CallbackHandle {
	return c.handlers.addIndex(EventMarkerActivated, fn)
}

// OnIndexChanged registers fn to run when the current waypoint changes.
func (c *Controller) OnIndexChanged(fn func(index int)) CallbackHandle {
	return c.handlers.addIndex(EventIndexChanged, fn)
}

// OnNavigatingChanged registers fn to run when a transition starts or ends.
func (c *Controller) OnNavigatingChanged(fn func(navigating bool)) CallbackHandle {
	return c.handlers.addFlag(EventNavigatingChanged, fn)
}

// --- Inbound commands ---

// RequestNext moves to the following waypoint. It does nothing at the last
// waypoint, during a transition, or while a detail view is open.
func (c *Controller) RequestNext() *Transition {
	return c.step(+1)
}

// RequestPrevious moves to the preceding waypoint under the same rules as
// RequestNext.
func (c *Controller) RequestPrevious() *Transition {
	return c.step(-1)
}

func (c *Controller) step(delta int) *Transition {
	if c.state != StateRunning || c.nav.InProgress() || c.detailOpen {
		return nil
	}
	return c.goTo(c.nav.CurrentIndex()+delta, false)
}

// RequestGoTo starts an animated move to waypoint i, superseding any
// transition in flight. Out-of-range indices are ignored.
func (c *Controller) RequestGoTo(i int) *Transition {
	return c.goTo(i, false)
}

// GoToWaypoint moves to waypoint i, animated unless immediate. It returns nil
// when i is out of range or the controller is not running.
func (c *Controller) GoToWaypoint(i int, immediate bool) *Transition {
	return c.goTo(i, immediate)
}

func (c *Controller) goTo(i int, immediate bool) *Transition {
	if c.state != StateRunning {
		return nil
	}
	prev := c.nav.CurrentIndex()
	tr := c.nav.GoTo(i, immediate, c.clock())
	if tr == nil {
		c.logger.Debug("navigation ignored", slog.Int("to", i))
		return nil
	}
	c.detailOpen = false
	c.logger.Debug("navigation started",
		slog.Int("from", prev),
		slog.Int("to", i),
		slog.Bool("immediate", immediate),
	)
	if i != prev {
		c.handlers.fireIndex(EventIndexChanged, i)
	}
	c.syncNavigating()
	return tr
}

// syncNavigating fires EventNavigatingChanged when the navigator's state
// differs from the last reported one.
func (c *Controller) syncNavigating() {
	now := c.state == StateRunning && c.nav.InProgress()
	if now == c.navigating {
		return
	}
	c.navigating = now
	c.handlers.fireFlag(now)
}

// OpenDetail opens the detail view for waypoint i and outlines its marker.
// Pointer picking is suspended until CloseDetail.
func (c *Controller) OpenDetail(i int) bool {
	if c.state != StateRunning || i < 0 || i >= len(c.scene.Markers) {
		return false
	}
	c.detailOpen = true
	c.detailIndex = i
	c.selection.Set(c.scene.Markers[i])
	c.mount.SetCursor(CursorDefault)
	return true
}

// CloseDetail closes the detail view and clears the outline.
func (c *Controller) CloseDetail() {
	if c.state != StateRunning || !c.detailOpen {
		return
	}
	c.detailOpen = false
	c.selection.Clear()
}

// Resize updates the camera aspect and the compositor targets. Sizes with a
// zero or negative dimension are ignored.
func (c *Controller) Resize(width, height int) {
	if c.state != StateRunning {
		return
	}
	if !c.camera.SetViewport(width, height) {
		c.logger.Debug("ignored degenerate resize", slog.Int("width", width), slog.Int("height", height))
		return
	}
	c.compositor.Resize(width, height)
}

// --- EventListener ---

// HandleFrame runs one render loop step.
func (c *Controller) HandleFrame(now time.Time) {
	if c.state != StateRunning {
		return
	}
	if arrived := c.loop.Step(now); arrived != nil {
		c.logger.Debug("navigation finished", slog.Int("to", arrived.Index()))
	}
	c.syncNavigating()
}

// pickingBlocked reports whether pointer events must be ignored.
func (c *Controller) pickingBlocked() bool {
	return c.state != StateRunning || c.nav.InProgress() || c.detailOpen
}

// HandlePointerMove updates the hover outline.
func (c *Controller) HandlePointerMove(x, y float64) {
	if c.pickingBlocked() {
		return
	}
	c.picking.Move(c.camera.NDC(x, y))
}

// HandlePointerClick reports the clicked marker to OnMarkerActivated
// callbacks.
func (c *Controller) HandlePointerClick(x, y float64) {
	if c.pickingBlocked() {
		return
	}
	if i, ok := c.picking.Click(c.camera.NDC(x, y)); ok {
		c.handlers.fireIndex(EventMarkerActivated, i)
	}
}

// HandleKey maps navigation keys to commands.
func (c *Controller) HandleKey(k Key) {
	switch k {
	case KeyNext:
		c.RequestNext()
	case KeyPrevious:
		c.RequestPrevious()
	case KeyClose:
		c.CloseDetail()
	}
}

// HandleResize forwards to Resize.
func (c *Controller) HandleResize(width, height int) {
	c.Resize(width, height)
}

// --- Renderer ---

// Draw renders the scene through the compositor.
func (c *Controller) Draw(screen *ebiten.Image) {
	if c.state != StateRunning {
		return
	}
	c.compositor.Render(screen, Frame{Root: c.root, Camera: c.camera, Selection: c.selection.Nodes()})
	if c.cfg.Debug {
		if s, ok := c.compositor.(statsSource); ok {
			debugLog(c.logger, c.loop.Frames(), s.Stats())
		}
	}
}

// --- Teardown ---

// Dispose stops the loop, settles any transition with ErrDisposed, detaches
// from the mount and releases every scene resource. It does nothing unless
// the controller is running.
func (c *Controller) Dispose() {
	if c.state != StateRunning {
		return
	}
	c.setState(StateDisposing)

	c.loop.Stop()
	c.nav.Cancel(ErrDisposed)
	c.syncNavigating()
	c.mount.RemoveListener(c)
	c.mount.DetachSurface(c)
	c.mount.SetCursor(CursorDefault)

	if c.cfg.Debug {
		debugCheckGraph(c.logger, c.root)
	}
	c.root.Dispose()
	c.scene.Glyphs.Dispose()
	c.picking.SetMarkers(nil)
	c.selection.Clear()
	c.handlers.clear()
	c.compositor.Dispose()

	c.root = nil
	c.scene = nil
	c.catalog = nil
	c.mount = nil
	c.navigating = false
	c.detailOpen = false
	c.setState(StateDisposed)
}

func closeLogged(logger *slog.Logger, what string, cl io.Closer) {
	if err := cl.Close(); err != nil {
		logger.Debug("close "+what, slog.Any("error", err))
	}
}
