package canopy

// --- ID counter ---

// entityIDCounter is a plain counter; the tree is only touched from the UI goroutine.
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// DrawFunc paints one entity. It receives the entity's resolved rect and
// visual state for the current frame.
type DrawFunc func(ctx DrawContext)

// DrawContext carries the per-entity state handed to a DrawFunc.
type DrawContext struct {
	Entity  *Entity
	Rect    Rect
	Opacity float64
	Active  bool // pressed, dragged or selected
	Hovered bool
}

// EntityConfig describes a new entity. Zero values are sensible defaults:
// the entity fills its parent, is visible, fully opaque and has no listeners.
type EntityConfig struct {
	Name      string
	Listeners Listeners
	DrawOrder DrawOrder
	// Tiebreak orders entities sharing a DrawOrder; lower values are in front.
	Tiebreak func() float64

	Geometry Geometry
	// Placement positions the entity as fractions of its parent's box.
	// The zero value fills the parent.
	Placement Placement

	Hidden bool
	// RecomputeWhenInvisible keeps ticking the entity while it is hidden.
	RecomputeWhenInvisible bool
	// FollowParent makes RecomputeEntity on the parent also clear this
	// entity's cache, for layouts that read animated parent values.
	FollowParent bool

	DisableTouching bool
	HitShape        HitShape
	Touching        func(e *Entity, x, y float64) bool

	Draw     DrawFunc
	UserData any
}

// Entity is a node in the scene tree. Its geometry is resolved lazily from
// its parent and cached until invalidated.
type Entity struct {
	// Identity
	ID   uint32
	Name string

	mgr      *Manager
	parent   *Entity
	children []*Entity

	// Geometry
	Geometry  Geometry
	Placement Placement
	cache     geometryCache

	// Visual state
	alpha                  float64
	visible                bool
	DrawOrder              DrawOrder
	Tiebreak               func() float64
	RecomputeWhenInvisible bool
	FollowParent           bool

	// Hit testing
	DisableTouching bool
	HitShape        HitShape
	Touching        func(e *Entity, x, y float64) bool

	listeners Listeners

	Draw     DrawFunc
	UserData any

	// Internal
	disposed    bool
	needsRedraw bool
}

// --- Tree manipulation ---

// Manager returns the manager that owns this entity.
func (e *Entity) Manager() *Manager { return e.mgr }

// Parent returns the entity's parent, or nil for the root and detached entities.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity { return e.children }

// NumChildren returns the number of children.
func (e *Entity) NumChildren() int { return len(e.children) }

// ChildAt returns the child at the given index.
func (e *Entity) ChildAt(index int) *Entity { return e.children[index] }

// AddChild appends child to this entity's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this entity (cycle).
func (e *Entity) AddChild(child *Entity) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	e.mgr.checkMutable("AddChild")
	if e.mgr.debug {
		debugCheckDisposed(e, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, e) {
		panic("canopy: adding child would create a cycle")
	}
	if child.parent == e {
		return
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	invalidateSubtree(child)
	if e.mgr.debug {
		e.mgr.debugCheckTreeDepth(child)
		e.mgr.debugCheckChildCount(e)
	}
}

// SetParent moves this entity under parent. A nil parent detaches it.
func (e *Entity) SetParent(parent *Entity) {
	if parent == nil {
		e.RemoveFromParent()
		return
	}
	parent.AddChild(e)
}

// RemoveChild detaches child from this entity.
// Panics if child's parent is not this entity.
func (e *Entity) RemoveChild(child *Entity) {
	e.mgr.checkMutable("RemoveChild")
	if child.parent != e {
		panic("canopy: child's parent is not this entity")
	}
	e.removeChildByPtr(child)
	child.parent = nil
	invalidateSubtree(child)
}

// RemoveFromParent detaches this entity from its parent.
// No-op if this entity has no parent.
func (e *Entity) RemoveFromParent() {
	if e.parent == nil {
		return
	}
	e.parent.RemoveChild(e)
}

// IsDescendantOf reports whether ancestor is a strict ancestor of e.
func (e *Entity) IsDescendantOf(ancestor *Entity) bool {
	return e != ancestor && isAncestor(ancestor, e)
}

// --- Visibility & opacity ---

// IsVisible reports whether this entity and all of its ancestors are visible.
func (e *Entity) IsVisible() bool {
	for p := e; p != nil; p = p.parent {
		if !p.visible {
			return false
		}
	}
	return true
}

// SetVisible shows the entity and recomputes its position.
func (e *Entity) SetVisible() {
	if e.visible {
		return
	}
	e.visible = true
	e.RecomputePosition()
}

// SetInvisible hides the entity and recomputes its position. Hidden
// entities are neither drawn nor hit-tested.
func (e *Entity) SetInvisible() {
	if !e.visible {
		return
	}
	e.visible = false
	e.RecomputePosition()
	if e.mgr != nil {
		e.mgr.interactor.forgetHidden(e)
	}
}

// Alpha returns the entity's own alpha, before parent inheritance.
func (e *Entity) Alpha() float64 { return e.alpha }

// SetAlpha sets the entity's own alpha and schedules a redraw.
func (e *Entity) SetAlpha(a float64) {
	e.alpha = clamp01(a)
	e.RecomputeEntity()
}

// Opacity returns the effective opacity in [0, 1]: the Opacity resolver if
// one is set, otherwise the parent's opacity multiplied by this alpha.
func (e *Entity) Opacity() float64 {
	if e.Geometry.Opacity != nil {
		return clamp01(e.Geometry.Opacity(e))
	}
	if e.parent == nil {
		return e.alpha
	}
	return e.parent.Opacity() * e.alpha
}

// NeedsRedraw reports whether the entity changed since the last draw pass.
func (e *Entity) NeedsRedraw() bool { return e.needsRedraw }

// --- Listeners ---

// Listeners returns the entity's capability table.
func (e *Entity) Listeners() Listeners { return e.listeners }

// Has reports whether the entity supports the given capability.
func (e *Entity) Has(c Capability) bool { return e.listeners.has(c) }

// SetListeners replaces the entity's capability table.
func (e *Entity) SetListeners(l Listeners) { e.listeners = l }

// IsDisposed returns true if this entity has been removed from its manager.
func (e *Entity) IsDisposed() bool { return e.disposed }

func (e *Entity) String() string {
	if e.Name != "" {
		return e.Name
	}
	return "entity"
}

// --- Disposal ---

// dispose marks this entity and its subtree removed. The caller has already
// detached it from its parent.
func (e *Entity) dispose() {
	e.disposed = true
	for _, child := range e.children {
		child.parent = nil
		child.dispose()
	}
	e.children = nil
	e.parent = nil
	e.listeners = Listeners{}
	e.HitShape = nil
	e.Touching = nil
	e.Tiebreak = nil
	e.Draw = nil
	e.UserData = nil
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of (or equal to) node.
func isAncestor(candidate, node *Entity) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChildByPtr(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// walk visits e and its descendants in pre-order.
func walk(e *Entity, fn func(*Entity)) {
	fn(e)
	for _, child := range e.children {
		walk(child, fn)
	}
}
