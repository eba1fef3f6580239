package pathway

import (
	"log/slog"
	"time"
)

// FrameStats holds per-frame timing and draw-call metrics.
type FrameStats struct {
	CollectTime time.Duration
	SubmitTime  time.Duration
	Triangles   int
	DrawCalls   int
}

// statsSource is implemented by compositors that report frame stats.
type statsSource interface {
	Stats() FrameStats
}

// debugStatsEvery is the number of frames between stats log lines.
const debugStatsEvery = 120

// debugLog writes frame stats at Debug level every debugStatsEvery frames.
func debugLog(logger *slog.Logger, frame uint64, stats FrameStats) {
	if frame%debugStatsEvery != 0 {
		return
	}
	logger.Debug("frame stats",
		slog.Uint64("frame", frame),
		slog.Int("triangles", stats.Triangles),
		slog.Int("draw_calls", stats.DrawCalls),
		slog.Duration("collect", stats.CollectTime),
		slog.Duration("submit", stats.SubmitTime),
		slog.Duration("total", stats.CollectTime+stats.SubmitTime),
	)
}

// debugCheckGraph logs a warning for each disposed node still attached
// under root.
func debugCheckGraph(logger *slog.Logger, root *Node) int {
	stale := 0
	root.Walk(func(n *Node) bool {
		if n.disposed {
			stale++
			logger.Warn("disposed node still attached", slog.String("node", n.Name))
			return false
		}
		return true
	})
	return stale
}
