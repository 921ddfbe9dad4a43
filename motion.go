package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Motion is an animated scalar that eases toward a target a bounded step per
// tick. When bound to an entity, every change issues RecomputeEntity so the
// entity (and its FollowParent children) re-read their geometry.
//
// There is no global animation manager; owners call Tick from their own
// TickListener.
type Motion struct {
	tween    *gween.Tween
	value    float64
	target   float64
	duration float32
	easing   ease.TweenFunc
	changed  bool
	owner    *Entity
}

// NewMotion creates a motion resting at initial. duration is in seconds; a
// nil easing defaults to ease.OutQuad.
func NewMotion(initial, duration float64, easing ease.TweenFunc) *Motion {
	if easing == nil {
		easing = ease.OutQuad
	}
	return &Motion{
		value:    initial,
		target:   initial,
		duration: float32(duration),
		easing:   easing,
	}
}

// Bind makes changes to the motion invalidate e.
func (m *Motion) Bind(e *Entity) *Motion {
	m.owner = e
	return m
}

// SetTarget starts easing from the current value toward v. Setting the
// current target again does not restart the animation.
func (m *Motion) SetTarget(v float64) {
	if v == m.target {
		return
	}
	m.target = v
	if m.duration <= 0 {
		m.Force(v)
		return
	}
	m.tween = gween.New(float32(m.value), float32(v), m.duration, m.easing)
}

// Force jumps to v immediately, cancelling any running animation.
func (m *Motion) Force(v float64) {
	m.tween = nil
	m.target = v
	if m.value == v {
		return
	}
	m.value = v
	m.changed = true
	m.invalidate()
}

// Tick advances the animation by dt seconds and reports whether the value
// changed.
func (m *Motion) Tick(dt float64) bool {
	if m.tween == nil {
		m.changed = false
		return false
	}
	v, finished := m.tween.Update(float32(dt))
	prev := m.value
	m.value = float64(v)
	if finished {
		m.value = m.target
		m.tween = nil
	}
	m.changed = m.value != prev
	if m.changed {
		m.invalidate()
	}
	return m.changed
}

// Value returns the current value.
func (m *Motion) Value() float64 { return m.value }

// Target returns the value being eased toward.
func (m *Motion) Target() float64 { return m.target }

// Done reports whether the motion has reached its target.
func (m *Motion) Done() bool { return m.tween == nil }

// Changed reports whether the last Tick or Force moved the value.
func (m *Motion) Changed() bool { return m.changed }

func (m *Motion) invalidate() {
	if m.owner != nil && !m.owner.disposed {
		m.owner.RecomputeEntity()
	}
}
