package canopy

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame draw metrics.
// Only populated when Manager.debug is true.
type debugStats struct {
	drawTime time.Duration
	visible  int
	drawn    int
	live     int
}

// debugLog writes draw stats at debug level.
func (m *Manager) debugLog(stats debugStats) {
	if !m.debug {
		return
	}
	m.logger.Debug("draw pass",
		zap.Uint64("frame", m.frame),
		zap.Duration("draw", stats.drawTime),
		zap.Int("visible", stats.visible),
		zap.Int("drawn", stats.drawn),
		zap.Int("live", stats.live),
		zap.Uint64("epoch", m.epoch),
		zap.Uint64("resolutions", m.resolutions),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed entity
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(e *Entity, op string) {
	if e.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed entity %q (ID was %d)", op, e.Name, e.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds Config.MaxTreeDepth.
func (m *Manager) debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > m.cfg.MaxTreeDepth {
		m.logger.Warn("tree depth exceeds threshold",
			zap.String("entity", e.Name),
			zap.Int("depth", depth),
			zap.Int("threshold", m.cfg.MaxTreeDepth))
	}
}

// debugCheckChildCount warns if an entity has more than Config.MaxChildCount children.
func (m *Manager) debugCheckChildCount(e *Entity) {
	if len(e.children) > m.cfg.MaxChildCount {
		m.logger.Warn("child count exceeds threshold",
			zap.String("entity", e.Name),
			zap.Int("children", len(e.children)),
			zap.Int("threshold", m.cfg.MaxChildCount))
	}
}

// geometryError builds the error for re-entering attribute a of e.
func (m *Manager) geometryError(e *Entity, a Attr) *GeometryError {
	return &GeometryError{
		Entity: e.String(),
		Attr:   a,
		Chain:  slices.Clone(m.resolving),
	}
}

// logInvariant records a broken tree invariant before the caller panics.
func (m *Manager) logInvariant(err error) {
	m.logger.Error("invariant violated", zap.Error(err), zap.Uint64("frame", m.frame))
}
