package pathway

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// NavigationConfig frames each waypoint and times the move between them.
type NavigationConfig struct {
	// DurationMillis is the length of an animated transition.
	DurationMillis int `toml:"duration_ms"`
	// EyeOffset places the camera relative to the waypoint.
	EyeOffset Vec3 `toml:"eye_offset"`
	// LookOffset is the point the camera looks at, relative to the waypoint.
	LookOffset Vec3 `toml:"look_offset"`
}

// Duration returns DurationMillis as a time.Duration.
func (c NavigationConfig) Duration() time.Duration {
	return time.Duration(c.DurationMillis) * time.Millisecond
}

// flight is the state of an animated transition. gen ties it to the request
// that started it.
type flight struct {
	gen   uint64
	tr    *Transition
	from  Pose
	to    Pose
	start time.Time
	tween *gween.Tween
}

// CameraNavigator owns the camera pose and moves it between waypoint poses.
// At most one transition is in flight; starting another settles the previous
// one with ErrSuperseded.
type CameraNavigator struct {
	camera  *Camera
	cfg     NavigationConfig
	targets []Pose
	// onStart runs at the start of every GoTo.
	onStart func()

	current int
	gen     uint64
	active  *flight
}

// NewCameraNavigator precomputes the target pose of every waypoint position.
func NewCameraNavigator(camera *Camera, cfg NavigationConfig, waypoints []Vec3, onStart func()) *CameraNavigator {
	n := &CameraNavigator{camera: camera, cfg: cfg, onStart: onStart}
	n.targets = make([]Pose, len(waypoints))
	for i, p := range waypoints {
		n.targets[i] = PoseLookingAt(p.Add(cfg.EyeOffset), p.Add(cfg.LookOffset))
	}
	return n
}

// TargetPose returns the resting pose for waypoint i.
func (n *CameraNavigator) TargetPose(i int) (Pose, bool) {
	if i < 0 || i >= len(n.targets) {
		return Pose{}, false
	}
	return n.targets[i], true
}

// Len returns the number of waypoints.
func (n *CameraNavigator) Len() int {
	return len(n.targets)
}

// CurrentIndex returns the waypoint of the latest accepted request.
func (n *CameraNavigator) CurrentIndex() int {
	return n.current
}

// InProgress reports whether an animated transition is running.
func (n *CameraNavigator) InProgress() bool {
	return n.active != nil
}

// Generation returns the number of accepted requests.
func (n *CameraNavigator) Generation() uint64 {
	return n.gen
}

// GoTo starts a move to waypoint i at time now. An immediate move snaps the
// camera and returns an already settled transition. Out-of-range indices are
// ignored and return nil.
func (n *CameraNavigator) GoTo(i int, immediate bool, now time.Time) *Transition {
	target, ok := n.TargetPose(i)
	if !ok {
		return nil
	}
	if n.onStart != nil {
		n.onStart()
	}
	n.cancel(ErrSuperseded)
	n.gen++
	n.current = i

	tr := newTransition(i, immediate)
	if immediate || n.cfg.DurationMillis <= 0 {
		n.camera.Pose = target
		tr.settle(nil)
		return tr
	}
	n.active = &flight{
		gen:   n.gen,
		tr:    tr,
		from:  n.camera.Pose,
		to:    target,
		start: now,
		tween: gween.New(0, 1, float32(n.cfg.Duration().Seconds()), ease.InOutCubic),
	}
	return tr
}

// Step advances the active transition to time now and returns it if it
// arrived during this step.
func (n *CameraNavigator) Step(now time.Time) *Transition {
	f := n.active
	if f == nil || f.gen != n.gen {
		return nil
	}
	elapsed := now.Sub(f.start).Seconds()
	progress, finished := f.tween.Set(float32(elapsed))
	if finished {
		n.camera.Pose = f.to
		n.active = nil
		f.tr.settle(nil)
		return f.tr
	}
	n.camera.Pose = f.from.Interpolate(f.to, float64(progress))
	return nil
}

// Cancel settles the in-flight transition with err and leaves the camera
// where it is.
func (n *CameraNavigator) Cancel(err error) {
	n.cancel(err)
}

func (n *CameraNavigator) cancel(err error) {
	if n.active == nil {
		return
	}
	n.active.tr.settle(err)
	n.active = nil
}
