// Package pathway renders an interactive 3D learning path for [Ebitengine].
//
// A [Catalog] of ordered waypoints becomes a scene: a smooth curve through
// every waypoint drawn as a floor strip with rails, a glowing platform,
// ring, floating title and clickable marker sphere at each waypoint, and a
// field of drifting background glyphs. The camera flies from waypoint to
// waypoint; hovering a marker outlines it and clicking reports its index.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and game
// loop for you:
//
//	err := pathway.Run(pathway.DefaultCatalog(), pathway.DefaultConfig())
//
// For full control, create a [Window] (or any other [Mount]) and construct a
// [Controller] into it:
//
//	w := pathway.NewWindow(cfg.Window, logger)
//	c, err := w.Open(cat, pathway.WithConfig(cfg))
//	c.OnMarkerActivated(func(i int) { c.OpenDetail(i) })
//	err = w.Run()
//
// # Lifecycle
//
// A controller moves through [StateUninitialized], [StateConstructing],
// [StateRunning], [StateDisposing] and [StateDisposed]. Construction either
// completes or leaves nothing attached. [Controller.Dispose] stops the
// render loop, settles any camera [Transition] with [ErrDisposed], detaches
// from the mount and releases every mesh, material and texture.
//
// # Navigation
//
// [Controller.RequestNext] and [Controller.RequestPrevious] step along the
// path and are ignored at either end, while a transition is running, or
// while a detail view is open. [Controller.RequestGoTo] and
// [Controller.GoToWaypoint] jump to any waypoint and supersede a running
// transition, which then settles with [ErrSuperseded].
//
// # Rendering
//
// Scene nodes are projected and shaded on the CPU, depth sorted, and
// submitted as batched triangles. A [PassCompositor] draws the selected
// markers into a mask, runs a Kage outline shader over it, and finishes with
// an edge-smoothing pass.
//
// # Configuration
//
// Every tunable lives in [Config], which round-trips through TOML. Catalog
// files may be YAML or TOML; [CatalogWatcher] reloads one on change.
//
// # Automated testing
//
// [Window.InjectMove], [Window.InjectClick] and [Window.InjectKey] queue
// synthetic input. [LoadScript] parses a JSON script of input,
// navigation, wait and screenshot steps for unattended visual checks.
//
// [Ebitengine]: https://ebitengine.org
package pathway
