package sequence

import (
	"github.com/google/uuid"
	"github.com/phanxgames/canopy"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

var labelColor = canopy.Color{R: 1, G: 1, B: 1, A: 0.9}

var commandColors = [...]canopy.Color{
	CommandTurn:     {R: 0.35, G: 0.55, B: 0.85, A: 1},
	CommandStraight: {R: 0.35, G: 0.7, B: 0.45, A: 1},
	CommandArc:      {R: 0.75, G: 0.55, B: 0.3, A: 1},
	CommandBezier:   {R: 0.65, G: 0.4, B: 0.75, A: 1},
	CommandCustom:   {R: 0.55, G: 0.55, B: 0.55, A: 1},
}

// Command is one command block in the panel. Its slot is the chain member
// that takes part in the stacked layout; its block is the visible, clickable
// child that follows the slot except while it is being dragged.
type Command struct {
	ID   uuid.UUID
	Type CommandType

	Slot  *canopy.Entity
	Block *canopy.Entity

	path      *Path
	expansion *canopy.Motion
	expanded  bool

	dragging   bool
	dragY      float64
	grabOffset float64
}

func newCommand(p *Path, t CommandType) *Command {
	c := &Command{ID: uuid.New(), Type: t, path: p, expanded: t == CommandCustom}
	initial := 0.0
	if c.IsExpanded() {
		initial = 1
	}
	c.expansion = canopy.NewMotion(initial, expandSeconds, ease.OutCubic)

	c.Slot = p.mgr.NewEntity(p.content, canopy.EntityConfig{
		Name:                   t.String() + " slot",
		DrawOrder:              canopy.DrawOrderCommandBlock,
		RecomputeWhenInvisible: true,
		DisableTouching:        true,
		Geometry: canopy.Geometry{
			Left:   func(*canopy.Entity) float64 { return p.content.Left() },
			Width:  func(*canopy.Entity) float64 { return p.content.Width() },
			Top:    p.commands.StackTop,
			Height: func(*canopy.Entity) float64 { return c.height() },
		},
		Listeners: canopy.Listeners{
			Tick: &canopy.TickFuncs{Start: c.tick},
		},
	})
	c.expansion.Bind(c.Slot)
	p.slots[c.Slot] = c

	listeners := canopy.Listeners{
		Click: &canopy.ClickFuncs{LeftClick: func(canopy.ClickContext) { c.Toggle() }},
		Hover: &canopy.HoverFuncs{},
	}
	if t == CommandCustom {
		listeners.Drag = &canopy.DragFuncs{
			Start:   c.startDrag,
			CanDrag: c.canDrag,
			Offset:  c.dragOffset,
			Drag:    c.drag,
			Stop:    c.stopDrag,
		}
	}
	c.Block = p.mgr.NewEntity(c.Slot, canopy.EntityConfig{
		Name:                   t.String() + " command",
		DrawOrder:              canopy.DrawOrderCommandBlock,
		RecomputeWhenInvisible: true,
		FollowParent:           true,
		Geometry: canopy.Geometry{
			Top: func(e *canopy.Entity) float64 {
				if c.dragging {
					return c.dragY - e.Height()/2
				}
				return e.PY(0)
			},
			Opacity: func(*canopy.Entity) float64 {
				if c.dragging {
					return DragOpacity
				}
				return p.content.Opacity()
			},
		},
		Listeners: listeners,
		UserData:  c,
	})
	return c
}

// IsExpanded reports whether the command is expanded once animations settle,
// taking the path's force flags into account.
func (c *Command) IsExpanded() bool {
	switch {
	case c.path.forceCollapse:
		return false
	case c.path.forceExpand:
		return true
	}
	return c.expanded
}

// SetLocalExpansion sets the command's own expansion flag without touching
// the path's force flags.
func (c *Command) SetLocalExpansion(expanded bool) {
	c.expanded = expanded
	c.retarget()
}

// Toggle flips the command's expansion. A force flag that would hide the
// change is lifted first, leaving every other command as it was displayed.
func (c *Command) Toggle() {
	if c.expanded && c.path.forceCollapse {
		c.path.SetAllLocalExpansion(false)
		c.path.forceCollapse = false
	} else if !c.expanded && c.path.forceExpand {
		c.path.SetAllLocalExpansion(true)
		c.path.forceExpand = false
	}
	c.expanded = !c.expanded
	c.path.retargetAll()
}

// Expansion returns the animated expansion ratio in [0, 1].
func (c *Command) Expansion() float64 { return c.expansion.Value() }

// IsDragging reports whether the block is being dragged.
func (c *Command) IsDragging() bool { return c.dragging }

// Element returns the path element this command drives, or nil.
func (c *Command) Element() *PathElement { return c.path.linker.ElementFor(c) }

func (c *Command) retarget() {
	target := 0.0
	if c.IsExpanded() {
		target = 1
	}
	c.expansion.SetTarget(target)
}

func (c *Command) height() float64 {
	if !c.Slot.IsVisible() {
		return 0
	}
	return CollapsedHeight + (ExpandedHeight-CollapsedHeight)*c.expansion.Value()
}

func (c *Command) tick(dt float64) {
	if c.expansion.Tick(dt) {
		c.path.MarkChanged()
	}
}

func (c *Command) startDrag(ctx canopy.DragContext) {
	c.grabOffset = c.Block.CenterY() - ctx.StartY
	c.dragY = ctx.StartY + c.grabOffset
	c.dragging = true
	c.Block.RecomputeEntity()
}

// canDrag keeps the block's center within the command list.
func (c *Command) canDrag(_, dy float64) bool {
	y := c.dragY + dy
	top := c.path.content.Top()
	return y >= top && y <= top+c.path.TotalCommandHeight()
}

func (c *Command) dragOffset(_, dy float64) {
	c.dragY += dy
	c.Block.RecomputeEntity()
}

func (c *Command) drag(canopy.DragContext) {
	ins := c.path.ClosestInserter(c.dragY, c)
	if ins == nil {
		return
	}
	moved, err := c.path.MoveCommand(c, ins)
	if err != nil || !moved {
		return
	}
	c.path.content.RecomputePosition()
}

func (c *Command) stopDrag(canopy.DragContext) {
	c.dragging = false
	c.Block.RecomputeEntity()
	c.path.MarkChanged()
}

// Paint draws the block as a filled rect labelled with its type, lighter
// while highlighted, dragged or hovered.
func (c *Command) Paint(ctx canopy.DrawContext, cv canopy.Canvas) {
	col := commandColors[c.Type]
	interactor := c.path.mgr.Interactor()
	switch {
	case c.path.highlighted == c:
		col = col.Shade(1.4)
	case ctx.Active && ctx.Hovered && interactor.Dragging() == c.Block:
		col = col.Shade(1.3)
	case interactor.IsHovering(c.Block) && !interactor.Disabled():
		col = col.Shade(1.2)
	default:
		col = col.Shade(commandColorShade)
	}
	cv.FillRect(ctx.Rect, col)
	cv.DrawText(c.Type.String(), ctx.Rect.X+labelInset, ctx.Rect.Y+labelInset, labelColor)
}

// Inserter is the insertion point between two commands. Clicking it adds a
// custom command at that position.
type Inserter struct {
	ID     uuid.UUID
	Entity *canopy.Entity

	path   *Path
	height *canopy.Motion
}

func newInserter(p *Path) *Inserter {
	ins := &Inserter{ID: uuid.New(), path: p}
	ins.height = canopy.NewMotion(InserterHeight, inserterSeconds, ease.OutQuad)
	ins.Entity = p.mgr.NewEntity(p.content, canopy.EntityConfig{
		Name:                   "inserter",
		DrawOrder:              canopy.DrawOrderInserter,
		RecomputeWhenInvisible: true,
		Geometry: canopy.Geometry{
			Left:   func(*canopy.Entity) float64 { return p.content.Left() },
			Width:  func(*canopy.Entity) float64 { return p.content.Width() },
			Top:    p.commands.StackTop,
			Height: func(*canopy.Entity) float64 { return ins.height.Value() },
		},
		Listeners: canopy.Listeners{
			Click: &canopy.ClickFuncs{LeftClick: ins.click},
			Hover: &canopy.HoverFuncs{
				Enter: func(canopy.HoverContext) { ins.height.SetTarget(InserterHovered) },
				Exit:  func(canopy.HoverContext) { ins.height.SetTarget(InserterHeight) },
			},
			Tick: &canopy.TickFuncs{Start: func(dt float64) {
				if ins.height.Tick(dt) {
					p.MarkChanged()
				}
			}},
		},
		UserData: ins,
	})
	ins.height.Bind(ins.Entity)
	return ins
}

// click adds a custom command at the inserter. An inserter that has left the
// command list ignores the click.
func (ins *Inserter) click(canopy.ClickContext) {
	if _, err := ins.path.AddCustomCommand(ins); err != nil {
		ins.path.logger.Warn("inserter click ignored",
			zap.Uint32("inserter", ins.Entity.ID),
			zap.Error(err),
		)
	}
}

// Paint draws a thin bar while the pointer is over the inserter.
func (ins *Inserter) Paint(ctx canopy.DrawContext, cv canopy.Canvas) {
	if !ctx.Hovered {
		return
	}
	r := ctx.Rect
	cv.FillRect(canopy.Rect{X: r.X, Y: r.Y + r.Height/2 - 1, Width: r.Width, Height: 2},
		canopy.Color{R: 0.2, G: 0.6, B: 1, A: 1})
}
