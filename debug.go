package vellum

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when the scheduler is in debug mode.
type debugStats struct {
	drawTime  time.Duration
	drawn     int
	skipped   int
	failed    int
	nodeCount int
}

func (st debugStats) log() {
	Logger().Debug("frame",
		slog.Duration("draw", st.drawTime),
		slog.Int("parts_drawn", st.drawn),
		slog.Int("parts_skipped", st.skipped),
		slog.Int("parts_failed", st.failed),
		slog.Int("nodes", st.nodeCount),
	)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			slog.Int("depth", depth), slog.Int("threshold", debugMaxTreeDepth), slog.String("node", n.Name))
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			slog.String("node", n.Name), slog.Int("children", len(n.children)), slog.Int("threshold", debugMaxChildCount))
	}
}

// debugCheckIndex logs index/scene inconsistencies after a frame.
func debugCheckIndex(s *Scene) {
	if err := s.CheckIndex(); err != nil {
		Logger().Warn("spatial index out of sync", slog.Any("err", err))
	}
}
