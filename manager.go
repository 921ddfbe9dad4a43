package canopy

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Manager, interaction events are forwarded to the store.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	Name      string
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX, StartY float64
	DeltaX, DeltaY float64 // also the wheel delta for EventWheel
	// Key field (valid for EventKeyDown, EventKeyUp)
	Key Key
	// Group is the selector group (valid for EventSelect, EventDeselect)
	Group string
}

// Phase identifies the part of the frame currently running.
type Phase uint8

const (
	PhaseIdle  Phase = iota // between frames
	PhaseInput              // dispatching input events
	PhaseTick               // running tick listeners
	PhaseDraw               // painting; the tree must not change
)

// Manager owns the entity tree, the Interactor and the frame phases.
type Manager struct {
	root       *Entity
	interactor *Interactor
	store      EntityStore
	logger     *zap.Logger
	cfg        Config
	debug      bool

	screenW, screenH float64

	phase       Phase
	frame       uint64
	epoch       uint64
	resolutions uint64
	resolving   []string
	live        int

	orderBuf []drawItem

	// Synthetic input
	injectQueue []syntheticEvent
	testRunner  *TestRunner
}

// NewManager creates a manager with a root entity filling the configured
// screen. Invalid configuration values fall back to defaults.
func NewManager(cfg Config) *Manager {
	if err := cfg.Validate(); err != nil {
		cfg = DefaultConfig()
	}
	m := &Manager{
		cfg:     cfg,
		debug:   cfg.Debug,
		logger:  zap.NewNop(),
		screenW: cfg.ScreenWidth,
		screenH: cfg.ScreenHeight,
	}
	m.interactor = newInteractor(m)
	m.root = m.NewEntity(nil, EntityConfig{Name: "root", DrawOrder: DrawOrderBackground})
	return m
}

// Root returns the root entity.
func (m *Manager) Root() *Entity { return m.root }

// Interactor returns the manager's input router.
func (m *Manager) Interactor() *Interactor { return m.interactor }

// Config returns the active configuration.
func (m *Manager) Config() Config { return m.cfg }

// Phase returns the frame phase currently running.
func (m *Manager) Phase() Phase { return m.phase }

// Frame returns the number of completed Update calls.
func (m *Manager) Frame() uint64 { return m.frame }

// Epoch returns the layout epoch, bumped by every RecomputePosition.
func (m *Manager) Epoch() uint64 { return m.epoch }

// Resolutions returns how many geometry attributes have been computed
// (cache misses) since the manager was created.
func (m *Manager) Resolutions() uint64 { return m.resolutions }

// Len returns the number of live entities, including the root.
func (m *Manager) Len() int { return m.live }

// Logger returns the manager's logger.
func (m *Manager) Logger() *zap.Logger { return m.logger }

// SetLogger replaces the manager's logger. A nil logger disables logging.
func (m *Manager) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	m.logger = l
}

// SetEntityStore sets the optional ECS bridge.
func (m *Manager) SetEntityStore(store EntityStore) {
	m.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-entity
// access panics, tree depth and child count warnings are logged, and
// per-frame draw stats are logged at debug level.
func (m *Manager) SetDebugMode(enabled bool) {
	m.debug = enabled
}

// SetScreenSize resizes the root box and recomputes the whole tree.
func (m *Manager) SetScreenSize(w, h float64) {
	if w == m.screenW && h == m.screenH {
		return
	}
	m.screenW, m.screenH = w, h
	m.root.RecomputePosition()
}

// ScreenSize returns the root box size.
func (m *Manager) ScreenSize() (w, h float64) { return m.screenW, m.screenH }

// --- Entity lifecycle ---

// NewEntity creates an entity under parent (the root when parent is nil)
// and attaches it immediately.
func (m *Manager) NewEntity(parent *Entity, cfg EntityConfig) *Entity {
	m.checkMutable("NewEntity")
	placement := cfg.Placement
	if placement == (Placement{}) {
		placement = FillParent
	}
	e := &Entity{
		ID:                     nextEntityID(),
		Name:                   cfg.Name,
		mgr:                    m,
		Geometry:               cfg.Geometry,
		Placement:              placement,
		alpha:                  1,
		visible:                !cfg.Hidden,
		DrawOrder:              cfg.DrawOrder,
		Tiebreak:               cfg.Tiebreak,
		RecomputeWhenInvisible: cfg.RecomputeWhenInvisible,
		FollowParent:           cfg.FollowParent,
		DisableTouching:        cfg.DisableTouching,
		HitShape:               cfg.HitShape,
		Touching:               cfg.Touching,
		listeners:              cfg.Listeners,
		Draw:                   cfg.Draw,
		UserData:               cfg.UserData,
		needsRedraw:            true,
	}
	m.live++
	if m.root == nil {
		return e
	}
	if parent == nil {
		parent = m.root
	}
	parent.AddChild(e)
	return e
}

// Remove detaches e from its parent and disposes it together with all of
// its descendants. References held by the Interactor are dropped without
// firing callbacks; the EntityStore receives an EventRemoved for every
// disposed entity. Removing an already removed entity is a no-op.
func (m *Manager) Remove(e *Entity) {
	if e == m.root {
		panic("canopy: cannot remove the root entity")
	}
	m.checkMutable("Remove")
	if e.disposed {
		return
	}
	walk(e, func(x *Entity) {
		m.interactor.forget(x)
		m.emit(EventRemoved, x, m.interactor.pointerX, m.interactor.pointerY, nil)
		m.live--
	})
	e.RemoveFromParent()
	e.dispose()
}

// RemoveReparent moves e's children under newParent (the root when nil)
// and then removes e alone.
func (m *Manager) RemoveReparent(e, newParent *Entity) {
	if newParent == nil {
		newParent = m.root
	}
	if isAncestor(e, newParent) {
		panic("canopy: new parent is inside the removed subtree")
	}
	for _, child := range slices.Clone(e.children) {
		newParent.AddChild(child)
	}
	m.Remove(e)
}

// Rect returns e's resolved bounding box, reporting geometry dependency
// cycles as an error instead of panicking.
func (m *Manager) Rect(e *Entity) (r Rect, err error) {
	if e.disposed {
		return Rect{}, fmt.Errorf("rect of %s: %w", e, ErrStaleEntity)
	}
	defer func() {
		if p := recover(); p != nil {
			var gerr *GeometryError
			if pe, ok := p.(error); ok && errors.As(pe, &gerr) {
				err = gerr
				return
			}
			panic(p)
		}
	}()
	return e.Rect(), nil
}

// --- Frame ---

// Update runs the input and tick phases of one frame: one injected input
// event (if any) is dispatched, then every ticking entity is ticked.
func (m *Manager) Update(dt float64) {
	if m.testRunner != nil {
		m.testRunner.step(m)
	}
	m.processInjectedInput()
	m.Tick(dt)
	m.frame++
}

// Tick runs OnTickStart for every ticking entity in tree order, then
// OnTickEnd in the same order. Hidden entities are skipped unless they set
// RecomputeWhenInvisible.
func (m *Manager) Tick(dt float64) {
	defer m.enterPhase(PhaseTick)()

	tickers := m.collectAll(func(e *Entity) bool {
		return e.listeners.Tick != nil && (e.RecomputeWhenInvisible || e.IsVisible())
	})
	for _, e := range tickers {
		if !e.disposed && e.listeners.Tick != nil {
			e.listeners.Tick.OnTickStart(dt)
		}
	}
	for _, e := range tickers {
		if !e.disposed && e.listeners.Tick != nil {
			e.listeners.Tick.OnTickEnd(dt)
		}
	}
}

// Draw visits every visible entity in paint order and calls the entity's own
// Draw func, then fn (if non-nil), with its resolved rect and state flags.
// The tree must not be structurally mutated during the pass.
func (m *Manager) Draw(fn DrawFunc) {
	var t0 time.Time
	if m.debug {
		t0 = time.Now()
	}

	order := m.PaintOrder()

	restore := m.enterPhase(PhaseDraw)
	defer restore()

	drawn := 0
	in := m.interactor
	for _, e := range order {
		// A draw callback may hide entities later in the order.
		if e.disposed || !e.IsVisible() {
			continue
		}
		ctx := DrawContext{
			Entity:  e,
			Rect:    e.Rect(),
			Opacity: e.Opacity(),
			Active:  in.IsActive(e),
			Hovered: e == in.hovered,
		}
		if e.Draw != nil {
			e.Draw(ctx)
		}
		if fn != nil {
			fn(ctx)
		}
		e.needsRedraw = false
		drawn++
	}

	if m.debug {
		m.debugLog(debugStats{
			drawTime: time.Since(t0),
			visible:  len(order),
			drawn:    drawn,
			live:     m.live,
		})
	}
}

// enterPhase switches to p and returns a func restoring the previous phase.
func (m *Manager) enterPhase(p Phase) func() {
	prev := m.phase
	m.phase = p
	return func() { m.phase = prev }
}

// checkMutable panics when the tree is structurally mutated during draw.
func (m *Manager) checkMutable(op string) {
	if m.phase != PhaseDraw {
		return
	}
	err := fmt.Errorf("%s: %w", op, ErrMutationDuringDraw)
	m.logInvariant(err)
	panic(err)
}

// --- Traversal ---

// drawItem is a visible entity with its precomputed sort keys.
type drawItem struct {
	e         *Entity
	order     DrawOrder
	tiebreak  float64
	treeOrder int
}

// PaintOrder returns every visible entity except the root in paint order:
// DrawOrder descending, then Tiebreak descending, then tree pre-order. The
// last entity is the one in front. The slice is reused by the next call.
func (m *Manager) PaintOrder() []*Entity {
	m.orderBuf = m.orderBuf[:0]
	tree := 0
	var visit func(e *Entity)
	visit = func(e *Entity) {
		if !e.visible {
			return
		}
		if e != m.root {
			item := drawItem{e: e, order: e.DrawOrder, treeOrder: tree}
			if e.Tiebreak != nil {
				item.tiebreak = e.Tiebreak()
			}
			m.orderBuf = append(m.orderBuf, item)
			tree++
		}
		for _, child := range e.children {
			visit(child)
		}
	}
	visit(m.root)

	slices.SortFunc(m.orderBuf, func(a, b drawItem) int {
		switch {
		case a.order != b.order:
			return int(b.order) - int(a.order)
		case a.tiebreak > b.tiebreak:
			return -1
		case a.tiebreak < b.tiebreak:
			return 1
		}
		return a.treeOrder - b.treeOrder
	})

	out := make([]*Entity, len(m.orderBuf))
	for i := range m.orderBuf {
		out[i] = m.orderBuf[i].e
	}
	return out
}

// hitTest returns the frontmost entity touching (x, y) that satisfies accept
// (any entity when accept is nil), or nil. The root is never returned.
func (m *Manager) hitTest(x, y float64, accept func(*Entity) bool) *Entity {
	order := m.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		e := order[i]
		if accept != nil && !accept(e) {
			continue
		}
		if e.IsTouching(x, y) {
			return e
		}
	}
	return nil
}

// EntityAt returns the frontmost entity at (x, y), or nil.
func (m *Manager) EntityAt(x, y float64) *Entity {
	return m.hitTest(x, y, nil)
}

// collect returns visible entities matching accept in tree pre-order.
func (m *Manager) collect(accept func(*Entity) bool) []*Entity {
	return m.collectAll(func(e *Entity) bool { return e.IsVisible() && accept(e) })
}

// collectAll returns all entities matching accept in tree pre-order.
func (m *Manager) collectAll(accept func(*Entity) bool) []*Entity {
	var out []*Entity
	walk(m.root, func(e *Entity) {
		if accept(e) {
			out = append(out, e)
		}
	})
	return out
}

// --- ECS bridge ---

func (m *Manager) emit(t EventType, e *Entity, x, y float64, fill func(*InteractionEvent)) {
	if m.store == nil || e == nil {
		return
	}
	ev := InteractionEvent{Type: t, EntityID: e.ID, Name: e.Name, X: x, Y: y}
	if fill != nil {
		fill(&ev)
	}
	m.store.EmitEvent(ev)
}
