package canopy

// syntheticKind identifies the input entry point an injected event feeds.
type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthWheel
	synthKeyDown
	synthKeyUp
)

// syntheticEvent represents a single injected input event. Coordinates are
// screen coordinates, identical to real pointer input.
type syntheticEvent struct {
	kind   syntheticKind
	x, y   float64
	dx, dy float64
	right  bool
	key    Key
	mods   KeyModifiers
}

// InjectPress queues a left button press at the given screen coordinates.
// The event is consumed on the next Update.
func (m *Manager) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticEvent{kind: synthPress, x: x, y: y})
}

// InjectPressMods queues a press with an explicit button and modifiers.
func (m *Manager) InjectPressMods(x, y float64, right bool, mods KeyModifiers) {
	m.injectQueue = append(m.injectQueue, syntheticEvent{kind: synthPress, x: x, y: y, right: right, mods: mods})
}

// InjectMove queues a pointer move at the given screen coordinates. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (m *Manager) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticEvent{kind: synthMove, x: x, y: y})
}

// InjectRelease queues a button release at the given screen coordinates.
func (m *Manager) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticEvent{kind: synthRelease, x: x, y: y})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (m *Manager) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectRightClick queues a right button press and release.
func (m *Manager) InjectRightClick(x, y float64) {
	m.InjectPressMods(x, y, true, 0)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (m *Manager) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		m.InjectMove(x, y)
	}
	m.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event over (x, y).
func (m *Manager) InjectWheel(x, y, dx, dy float64) {
	m.injectQueue = append(m.injectQueue, syntheticEvent{kind: synthWheel, x: x, y: y, dx: dx, dy: dy})
}

// InjectKey queues a key press followed by its release. Consumes two frames.
func (m *Manager) InjectKey(key Key, mods KeyModifiers) {
	m.injectQueue = append(m.injectQueue,
		syntheticEvent{kind: synthKeyDown, key: key, mods: mods},
		syntheticEvent{kind: synthKeyUp, key: key, mods: mods},
	)
}

// PendingInput returns the number of queued synthetic events.
func (m *Manager) PendingInput() int { return len(m.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// to the Interactor. Returns true if an event was consumed (real input
// should be skipped this frame).
func (m *Manager) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	in := m.interactor
	switch evt.kind {
	case synthPress:
		in.MouseMove(evt.x, evt.y)
		in.MouseDown(evt.x, evt.y, evt.right, evt.mods)
	case synthMove:
		in.MouseMove(evt.x, evt.y)
	case synthRelease:
		in.MouseMove(evt.x, evt.y)
		in.MouseUp(evt.x, evt.y)
	case synthWheel:
		in.MouseWheel(evt.x, evt.y, evt.dx, evt.dy)
	case synthKeyDown:
		in.KeyDown(evt.key, evt.mods)
	case synthKeyUp:
		in.KeyUp(evt.key, evt.mods)
	}
	return true
}
