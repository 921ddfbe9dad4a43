package sequence

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/phanxgames/canopy"
	"go.uber.org/zap"
)

// ElementKind distinguishes the two alternating members of a path.
type ElementKind uint8

const (
	KindNode ElementKind = iota
	KindSegment
)

// selectGroup is the selection group shared by nodes and segments.
const selectGroup = "path"

var (
	nodeColor    = canopy.Color{R: 0.9, G: 0.9, B: 0.9, A: 1}
	segmentColor = canopy.Color{R: 0.55, G: 0.55, B: 0.6, A: 1}
)

// PathElement is a node or a segment of a path. Segments read their
// endpoints from their neighbors in the path list.
type PathElement struct {
	ID     uuid.UUID
	Kind   ElementKind
	Entity *canopy.Entity

	// Position is the node's location in field coordinates.
	Position canopy.Vec2
	// Segment is the segment's curve shape.
	Segment SegmentType

	path *Path
	link *canopy.ListNode[*PathElement]
}

// Prev returns the preceding element, or nil.
func (el *PathElement) Prev() *PathElement {
	if el.link == nil {
		return nil
	}
	if p := el.link.Prev(); p != nil {
		return p.Value
	}
	return nil
}

// Next returns the following element, or nil.
func (el *PathElement) Next() *PathElement {
	if el.link == nil {
		return nil
	}
	if n := el.link.Next(); n != nil {
		return n.Value
	}
	return nil
}

// ScreenPosition returns a node's position in screen coordinates.
func (el *PathElement) ScreenPosition() canopy.Vec2 {
	return el.path.transform.FieldToScreen(el.Position)
}

func newNode(p *Path, pos canopy.Vec2) *PathElement {
	el := &PathElement{ID: uuid.New(), Kind: KindNode, Position: pos, path: p}
	listeners := canopy.Listeners{
		Drag: &canopy.DragFuncs{
			CanDrag: el.canMove,
			Offset:  el.move,
		},
		Select: &canopy.SelectFuncs{
			Sel:    canopy.Selector{Group: selectGroup, Type: canopy.SelectorSolo},
			Select: func(canopy.SelectContext) { p.highlightElement(el) },
		},
		Hover: &canopy.HoverFuncs{},
	}
	if len(p.deleteKeys) > 0 {
		listeners.Key = &canopy.KeyFuncs{Down: el.onKey}
	}
	el.Entity = p.mgr.NewEntity(p.field, canopy.EntityConfig{
		Name:      "path node",
		DrawOrder: canopy.DrawOrderPathNode,
		Geometry: canopy.Geometry{
			CenterX: func(*canopy.Entity) float64 { return el.ScreenPosition().X },
			CenterY: func(*canopy.Entity) float64 { return el.ScreenPosition().Y },
			Width:   func(*canopy.Entity) float64 { return NodeRadius * 2 },
			Height:  func(*canopy.Entity) float64 { return NodeRadius * 2 },
		},
		HitShape:  canopy.HitCircle{CenterX: NodeRadius, CenterY: NodeRadius, Radius: NodeRadius},
		Listeners: listeners,
		UserData:  el,
	})
	return el
}

func newSegment(p *Path) *PathElement {
	el := &PathElement{ID: uuid.New(), Kind: KindSegment, Segment: SegmentStraight, path: p}
	el.Entity = p.mgr.NewEntity(p.field, canopy.EntityConfig{
		Name:      "path segment",
		DrawOrder: canopy.DrawOrderPathSegment,
		Geometry: canopy.Geometry{
			Left: func(*canopy.Entity) float64 {
				a, b := el.endpoints()
				return math.Min(a.X, b.X) - SegmentThickness/2
			},
			Top: func(*canopy.Entity) float64 {
				a, b := el.endpoints()
				return math.Min(a.Y, b.Y) - SegmentThickness/2
			},
			Width: func(*canopy.Entity) float64 {
				a, b := el.endpoints()
				return math.Abs(a.X-b.X) + SegmentThickness
			},
			Height: func(*canopy.Entity) float64 {
				a, b := el.endpoints()
				return math.Abs(a.Y-b.Y) + SegmentThickness
			},
		},
		Touching: func(_ *canopy.Entity, x, y float64) bool {
			a, b := el.endpoints()
			return distToSegment(canopy.Vec2{X: x, Y: y}, a, b) <= SegmentThickness/2
		},
		Listeners: canopy.Listeners{
			Select: &canopy.SelectFuncs{
				Sel:    canopy.Selector{Group: selectGroup, Type: canopy.SelectorSolo},
				Select: func(canopy.SelectContext) { p.highlightElement(el) },
			},
			Hover: &canopy.HoverFuncs{},
		},
		UserData: el,
	})
	return el
}

// endpoints returns the screen centers of the neighboring nodes. A segment
// missing a neighbor collapses onto the one it has.
func (el *PathElement) endpoints() (a, b canopy.Vec2) {
	prev, next := el.Prev(), el.Next()
	switch {
	case prev != nil && next != nil:
		return prev.ScreenPosition(), next.ScreenPosition()
	case prev != nil:
		a = prev.ScreenPosition()
		return a, a
	case next != nil:
		b = next.ScreenPosition()
		return b, b
	}
	return canopy.Vec2{}, canopy.Vec2{}
}

func (el *PathElement) onKey(ctx canopy.KeyContext) {
	if !slices.Contains(el.path.deleteKeys, ctx.Key) {
		return
	}
	if err := el.path.DeleteNode(el); err != nil {
		el.path.logger.Debug("node not deleted", zap.Error(err))
	}
}

func (el *PathElement) canMove(dx, dy float64) bool {
	s := el.ScreenPosition()
	return el.path.field.Rect().Contains(s.X+dx, s.Y+dy)
}

func (el *PathElement) move(dx, dy float64) {
	s := el.ScreenPosition()
	el.Position = el.path.transform.ScreenToField(canopy.Vec2{X: s.X + dx, Y: s.Y + dy})
	el.Entity.RecomputePosition()
	for _, n := range []*PathElement{el.Prev(), el.Next()} {
		if n != nil && n.Kind == KindSegment {
			n.Entity.RecomputePosition()
		}
	}
}

// Paint draws nodes as circles and segments as lines between their nodes.
func (el *PathElement) Paint(ctx canopy.DrawContext, cv canopy.Canvas) {
	switch el.Kind {
	case KindNode:
		c := nodeColor
		if ctx.Active {
			c = canopy.Color{R: 1, G: 0.85, B: 0.3, A: 1}
		} else if ctx.Hovered {
			c = c.Shade(1.2)
		}
		cv.FillCircle(ctx.Entity.CenterX(), ctx.Entity.CenterY(), NodeRadius, c)
	case KindSegment:
		a, b := el.endpoints()
		c := segmentColor
		if ctx.Active {
			c = canopy.Color{R: 1, G: 0.85, B: 0.3, A: 1}
		} else if ctx.Hovered {
			c = c.Shade(1.3)
		}
		cv.StrokeLine(a.X, a.Y, b.X, b.Y, SegmentThickness, c)
	}
}

func distToSegment(p, a, b canopy.Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
