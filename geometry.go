package canopy

// Resolver computes one geometry attribute of an entity in screen units.
type Resolver func(e *Entity) float64

// Geometry holds optional per-attribute overrides. A nil resolver means the
// attribute is derived from the parent's resolved box and the entity's
// Placement.
//
// Per axis (x shown, y symmetric):
//
//	width:   Width, else Right-Left when both are set, else parent width * PWidth
//	left:    Left, else CenterX - width/2, else Right - width, else parent left + parent width * PX
//	centerX: CenterX, else left + width/2
type Geometry struct {
	Left, Right, Top, Bottom Resolver
	CenterX, CenterY         Resolver
	Width, Height            Resolver
	Opacity                  Resolver
}

// Placement positions an entity as fractions of its parent's box. PX and PY
// place the top-left corner; PWidth and PHeight size the entity.
type Placement struct {
	PX, PY          float64
	PWidth, PHeight float64
}

// FillParent is the default placement.
var FillParent = Placement{PWidth: 1, PHeight: 1}

type resolveState uint8

const (
	unresolved resolveState = iota
	resolving
	resolved
)

// geometryCache memoizes resolved attributes until the next invalidation.
type geometryCache struct {
	values [numAttrs]float64
	state  [numAttrs]resolveState
}

func (c *geometryCache) reset() {
	c.state = [numAttrs]resolveState{}
}

// --- Resolution ---

// resolve returns the cached value of attribute a, computing it on a miss.
// Re-entering an attribute that is mid-resolution panics with *GeometryError.
func (e *Entity) resolve(a Attr, compute func() float64) float64 {
	switch e.cache.state[a] {
	case resolved:
		return e.cache.values[a]
	case resolving:
		err := e.mgr.geometryError(e, a)
		e.mgr.logInvariant(err)
		panic(err)
	}

	e.cache.state[a] = resolving
	e.mgr.resolving = append(e.mgr.resolving, e.String()+"."+a.String())
	done := false
	defer func() {
		e.mgr.resolving = e.mgr.resolving[:len(e.mgr.resolving)-1]
		if !done {
			e.cache.state[a] = unresolved
		}
	}()

	v := compute()
	e.cache.values[a] = v
	e.cache.state[a] = resolved
	e.mgr.resolutions++
	done = true
	return v
}

// parentBox returns the box this entity is laid out in: the parent's rect,
// the screen for the root, or an empty box for detached entities.
func (e *Entity) parentBox() Rect {
	if e.parent != nil {
		return e.parent.Rect()
	}
	if e == e.mgr.root {
		return Rect{Width: e.mgr.screenW, Height: e.mgr.screenH}
	}
	return Rect{}
}

// Width returns the resolved width.
func (e *Entity) Width() float64 {
	return e.resolve(AttrWidth, func() float64 {
		g := e.Geometry
		switch {
		case g.Width != nil:
			return g.Width(e)
		case g.Left != nil && g.Right != nil:
			return g.Right(e) - e.Left()
		}
		return e.parentBox().Width * e.Placement.PWidth
	})
}

// Height returns the resolved height.
func (e *Entity) Height() float64 {
	return e.resolve(AttrHeight, func() float64 {
		g := e.Geometry
		switch {
		case g.Height != nil:
			return g.Height(e)
		case g.Top != nil && g.Bottom != nil:
			return g.Bottom(e) - e.Top()
		}
		return e.parentBox().Height * e.Placement.PHeight
	})
}

// Left returns the resolved x coordinate of the left edge.
func (e *Entity) Left() float64 {
	return e.resolve(AttrLeft, func() float64 {
		g := e.Geometry
		switch {
		case g.Left != nil:
			return g.Left(e)
		case g.CenterX != nil:
			return e.CenterX() - e.Width()/2
		case g.Right != nil:
			return g.Right(e) - e.Width()
		}
		box := e.parentBox()
		return box.X + box.Width*e.Placement.PX
	})
}

// Top returns the resolved y coordinate of the top edge.
func (e *Entity) Top() float64 {
	return e.resolve(AttrTop, func() float64 {
		g := e.Geometry
		switch {
		case g.Top != nil:
			return g.Top(e)
		case g.CenterY != nil:
			return e.CenterY() - e.Height()/2
		case g.Bottom != nil:
			return g.Bottom(e) - e.Height()
		}
		box := e.parentBox()
		return box.Y + box.Height*e.Placement.PY
	})
}

// CenterX returns the resolved x coordinate of the center.
func (e *Entity) CenterX() float64 {
	return e.resolve(AttrCenterX, func() float64 {
		if e.Geometry.CenterX != nil {
			return e.Geometry.CenterX(e)
		}
		return e.Left() + e.Width()/2
	})
}

// CenterY returns the resolved y coordinate of the center.
func (e *Entity) CenterY() float64 {
	return e.resolve(AttrCenterY, func() float64 {
		if e.Geometry.CenterY != nil {
			return e.Geometry.CenterY(e)
		}
		return e.Top() + e.Height()/2
	})
}

// Right returns the x coordinate of the right edge.
func (e *Entity) Right() float64 { return e.Left() + e.Width() }

// Bottom returns the y coordinate of the bottom edge.
func (e *Entity) Bottom() float64 { return e.Top() + e.Height() }

// Rect returns the resolved bounding box.
func (e *Entity) Rect() Rect {
	return Rect{X: e.Left(), Y: e.Top(), Width: e.Width(), Height: e.Height()}
}

// --- Parent-relative helpers ---

// PX returns the x coordinate at fraction f across the parent's box.
func (e *Entity) PX(f float64) float64 {
	box := e.parentBox()
	return box.X + box.Width*f
}

// PY returns the y coordinate at fraction f down the parent's box.
func (e *Entity) PY(f float64) float64 {
	box := e.parentBox()
	return box.Y + box.Height*f
}

// PWidth returns fraction f of the parent's width.
func (e *Entity) PWidth(f float64) float64 { return e.parentBox().Width * f }

// PHeight returns fraction f of the parent's height.
func (e *Entity) PHeight(f float64) float64 { return e.parentBox().Height * f }

// --- Invalidation ---

// RecomputePosition clears the cached geometry of this entity and all of its
// descendants. The next read of any attribute recomputes it.
func (e *Entity) RecomputePosition() {
	invalidateSubtree(e)
	if e.mgr != nil {
		e.mgr.epoch++
	}
}

// RecomputeEntity is the redraw-only invalidation used by animated values.
// It clears this entity's own cache and that of children created with
// FollowParent; other descendants keep their cached geometry.
func (e *Entity) RecomputeEntity() {
	e.cache.reset()
	e.needsRedraw = true
	for _, child := range e.children {
		if child.FollowParent {
			child.RecomputeEntity()
		}
	}
}

// invalidateSubtree clears the geometry cache on node and all its descendants.
func invalidateSubtree(node *Entity) {
	node.cache.reset()
	node.needsRedraw = true
	for _, child := range node.children {
		invalidateSubtree(child)
	}
}
