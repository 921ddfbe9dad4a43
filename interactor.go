package canopy

import (
	"math"
	"time"
)

// --- Constants ---

const (
	defaultDragDeadZone        = 4.0 // pixels
	defaultDoubleClickInterval = 400 * time.Millisecond
)

// Interactor routes raw input to entity listeners. It owns the hover, drag,
// press and selection state for one Manager. All methods must be called from
// the frame loop.
type Interactor struct {
	mgr *Manager

	// Pointer state
	down           bool
	button         MouseButton
	mods           KeyModifiers
	startX, startY float64
	lastX, lastY   float64 // last accepted drag position
	pointerX       float64
	pointerY       float64
	pressed        *Entity
	hovered        *Entity
	dragging       *Entity

	// Selection state, keyed by selector group
	selected   map[string][]*Entity
	groupOrder []string
	focus      *Entity

	// Double-click tracking
	lastClick   *Entity
	lastClickAt time.Time
	now         func() time.Time

	disabledUntilMouseUp bool
}

func newInteractor(m *Manager) *Interactor {
	return &Interactor{
		mgr:      m,
		selected: make(map[string][]*Entity),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for double-click detection.
func (in *Interactor) SetClock(now func() time.Time) {
	in.now = now
}

// --- Accessors ---

// Hovered returns the entity under the pointer, or nil.
func (in *Interactor) Hovered() *Entity { return in.hovered }

// Dragging returns the entity being dragged, or nil.
func (in *Interactor) Dragging() *Entity { return in.dragging }

// Pressed returns the entity the current press started on, or nil.
func (in *Interactor) Pressed() *Entity { return in.pressed }

// Focus returns the entity receiving keyboard input, or nil.
func (in *Interactor) Focus() *Entity { return in.focus }

// IsMouseDown reports whether a button is held.
func (in *Interactor) IsMouseDown() bool { return in.down }

// Pointer returns the last known pointer position.
func (in *Interactor) Pointer() (x, y float64) { return in.pointerX, in.pointerY }

// Selected returns the selected members of group in selection order.
// The returned slice MUST NOT be mutated by the caller.
func (in *Interactor) Selected(group string) []*Entity { return in.selected[group] }

// IsSelected reports whether e is selected in its group.
func (in *Interactor) IsSelected(e *Entity) bool {
	sel := e.listeners.Select
	if sel == nil {
		return false
	}
	return indexOf(in.selected[sel.Selector().Group], e) >= 0
}

// IsActive reports whether e is pressed, dragged or selected.
func (in *Interactor) IsActive(e *Entity) bool {
	return e == in.pressed || e == in.dragging || in.IsSelected(e)
}

// DisableUntilMouseUp suppresses presses and hover changes until the
// current button is released.
func (in *Interactor) DisableUntilMouseUp() {
	in.disabledUntilMouseUp = true
}

// Disabled reports whether the mouse-up latch is set.
func (in *Interactor) Disabled() bool { return in.disabledUntilMouseUp }

// --- Input entry points ---

// MouseDown handles a button press at screen position (x, y).
func (in *Interactor) MouseDown(x, y float64, right bool, mods KeyModifiers) {
	defer in.mgr.enterPhase(PhaseInput)()

	in.pointerX, in.pointerY = x, y
	in.down = true
	in.button = MouseButtonLeft
	if right {
		in.button = MouseButtonRight
	}
	in.mods = mods
	in.startX, in.startY = x, y
	in.lastX, in.lastY = x, y

	if in.disabledUntilMouseUp {
		return
	}

	target := in.mgr.hitTest(x, y, func(e *Entity) bool {
		return e.Has(CapClick) || e.Has(CapDrag) || e.Has(CapSelect)
	})
	in.pressed = target

	// Selection changes complete before any click callback fires.
	in.updateSelection(target, mods)

	ctx := ClickContext{X: x, Y: y, Button: in.button, Modifiers: mods}
	for _, e := range in.mgr.collect(func(e *Entity) bool { return e.Has(CapClick) }) {
		if e.disposed {
			continue
		}
		ctx.Entity = e
		e.listeners.Click.OnMouseDownAny(ctx)
	}

	if target == nil || target.disposed {
		in.pressed = nil
		return
	}
	in.mgr.emit(EventMouseDown, target, x, y, func(ev *InteractionEvent) {
		ev.Button = in.button
		ev.Modifiers = mods
	})

	click := target.listeners.Click
	if click == nil {
		return
	}
	ctx.Entity = target
	click.OnMouseDown(ctx)
	if target.disposed {
		in.pressed = nil
		return
	}

	if right {
		click.OnRightClick(ctx)
		in.lastClick = nil
		in.mgr.emit(EventClick, target, x, y, func(ev *InteractionEvent) { ev.Button = MouseButtonRight })
		return
	}

	now := in.now()
	if in.lastClick == target && now.Sub(in.lastClickAt) <= in.mgr.cfg.DoubleClickInterval {
		in.lastClick = nil
		click.OnDoubleClick(ctx)
		in.mgr.emit(EventDoubleClick, target, x, y, nil)
		return
	}
	in.lastClick = target
	in.lastClickAt = now
	click.OnLeftClick(ctx)
	in.mgr.emit(EventClick, target, x, y, nil)
}

// MouseMove handles pointer motion. While a drag is active the dragged
// entity follows the pointer subject to its CanDragOffset predicate;
// otherwise hover enter/exit transitions are fired.
func (in *Interactor) MouseMove(x, y float64) {
	defer in.mgr.enterPhase(PhaseInput)()

	in.pointerX, in.pointerY = x, y

	if in.down && in.dragging == nil && in.pressed != nil && !in.disabledUntilMouseUp {
		in.maybeStartDrag(x, y)
	}
	if in.dragging != nil {
		in.dragStep(x, y)
		return
	}
	if in.disabledUntilMouseUp {
		return
	}
	in.updateHover(x, y)
}

// MouseUp ends any drag, applies deselect-on-mouse-up selections and clears
// the mouse-up latch.
func (in *Interactor) MouseUp(x, y float64) {
	defer in.mgr.enterPhase(PhaseInput)()

	in.pointerX, in.pointerY = x, y
	in.down = false

	if in.dragging != nil {
		in.stopDrag(x, y)
	}
	released := in.pressed
	in.pressed = nil

	for _, group := range append([]string(nil), in.groupOrder...) {
		for _, e := range append([]*Entity(nil), in.selected[group]...) {
			if e.disposed || e.listeners.Select == nil {
				continue
			}
			if e.listeners.Select.Selector().DeselectOnMouseUp {
				in.deselect(e)
			}
		}
	}

	in.disabledUntilMouseUp = false
	if released != nil && !released.disposed {
		in.mgr.emit(EventMouseUp, released, x, y, func(ev *InteractionEvent) { ev.Button = in.button })
	}
	in.updateHover(x, y)
}

// MouseWheel routes wheel input to the topmost touched entity, bubbling to
// the nearest ancestor with a Wheel capability.
func (in *Interactor) MouseWheel(x, y, dx, dy float64) {
	defer in.mgr.enterPhase(PhaseInput)()

	target := in.mgr.hitTest(x, y, nil)
	for e := target; e != nil; e = e.parent {
		if e.listeners.Wheel == nil {
			continue
		}
		e.listeners.Wheel.OnWheel(WheelContext{Entity: e, X: x, Y: y, DX: dx, DY: dy})
		if !e.disposed {
			in.mgr.emit(EventWheel, e, x, y, func(ev *InteractionEvent) {
				ev.DeltaX = dx
				ev.DeltaY = dy
			})
		}
		return
	}
}

// KeyDown routes a key press to the focused entity only.
func (in *Interactor) KeyDown(key Key, mods KeyModifiers) {
	defer in.mgr.enterPhase(PhaseInput)()

	e := in.focus
	if e == nil || e.disposed || e.listeners.Key == nil {
		return
	}
	e.listeners.Key.OnKeyDown(KeyContext{Entity: e, Key: key, Modifiers: mods})
	if !e.disposed {
		in.mgr.emit(EventKeyDown, e, in.pointerX, in.pointerY, func(ev *InteractionEvent) {
			ev.Key = key
			ev.Modifiers = mods
		})
	}
}

// KeyUp routes a key release to the focused entity only.
func (in *Interactor) KeyUp(key Key, mods KeyModifiers) {
	defer in.mgr.enterPhase(PhaseInput)()

	e := in.focus
	if e == nil || e.disposed || e.listeners.Key == nil {
		return
	}
	e.listeners.Key.OnKeyUp(KeyContext{Entity: e, Key: key, Modifiers: mods})
	if !e.disposed {
		in.mgr.emit(EventKeyUp, e, in.pointerX, in.pointerY, func(ev *InteractionEvent) {
			ev.Key = key
			ev.Modifiers = mods
		})
	}
}

// --- Drag ---

// maybeStartDrag begins dragging the pressed entity once the pointer has
// moved past the dead zone.
func (in *Interactor) maybeStartDrag(x, y float64) {
	e := in.pressed
	if e.disposed || e.listeners.Drag == nil {
		return
	}
	dx := x - in.startX
	dy := y - in.startY
	if math.Sqrt(dx*dx+dy*dy) <= in.mgr.cfg.DragDeadZone {
		return
	}
	in.dragging = e
	in.lastX, in.lastY = in.startX, in.startY
	ctx := DragContext{Entity: e, X: x, Y: y, StartX: in.startX, StartY: in.startY, Modifiers: in.mods}
	e.listeners.Drag.OnStartDrag(ctx)
	if e.disposed {
		in.dragging = nil
		return
	}
	in.mgr.emit(EventDragStart, e, x, y, func(ev *InteractionEvent) {
		ev.StartX, ev.StartY = in.startX, in.startY
	})
}

// dragStep offers the offset since the last accepted position to the
// dragged entity. A rejected offset leaves the entity where it was.
func (in *Interactor) dragStep(x, y float64) {
	e := in.dragging
	d := e.listeners.Drag
	dx := x - in.lastX
	dy := y - in.lastY

	var acceptedX, acceptedY float64
	if d.CanDragOffset(dx, dy) {
		d.DragOffset(dx, dy)
		in.lastX, in.lastY = x, y
		acceptedX, acceptedY = dx, dy
	}
	if e.disposed {
		in.dragging = nil
		return
	}

	ctx := DragContext{
		Entity: e, X: x, Y: y,
		StartX: in.startX, StartY: in.startY,
		DeltaX: acceptedX, DeltaY: acceptedY,
		Modifiers: in.mods,
	}
	d.OnDrag(ctx)
	if e.disposed {
		in.dragging = nil
		return
	}
	in.mgr.emit(EventDrag, e, x, y, func(ev *InteractionEvent) {
		ev.StartX, ev.StartY = in.startX, in.startY
		ev.DeltaX, ev.DeltaY = acceptedX, acceptedY
	})
}

func (in *Interactor) stopDrag(x, y float64) {
	e := in.dragging
	in.dragging = nil
	if e.disposed || e.listeners.Drag == nil {
		return
	}
	e.listeners.Drag.OnStopDrag(DragContext{
		Entity: e, X: x, Y: y,
		StartX: in.startX, StartY: in.startY,
		Modifiers: in.mods,
	})
	if !e.disposed {
		in.mgr.emit(EventDragEnd, e, x, y, func(ev *InteractionEvent) {
			ev.StartX, ev.StartY = in.startX, in.startY
		})
	}
}

// CancelDrag stops the active drag, if any, and latches input until the
// button is released.
func (in *Interactor) CancelDrag() {
	if in.dragging == nil {
		return
	}
	in.stopDrag(in.pointerX, in.pointerY)
	if in.down {
		in.disabledUntilMouseUp = true
	}
}

// --- Hover ---

func (in *Interactor) updateHover(x, y float64) {
	target := in.mgr.hitTest(x, y, nil)
	if target == in.hovered {
		return
	}
	prev := in.hovered
	in.hovered = target
	if prev != nil && !prev.disposed {
		if h := prev.listeners.Hover; h != nil {
			h.OnHoverExit(HoverContext{Entity: prev, X: x, Y: y})
		}
		in.mgr.emit(EventHoverExit, prev, x, y, nil)
	}
	// The exit callback may have changed or removed the new target.
	if target == nil || target.disposed || in.hovered != target {
		return
	}
	if h := target.listeners.Hover; h != nil {
		h.OnHoverEnter(HoverContext{Entity: target, X: x, Y: y})
	}
	if !target.disposed {
		in.mgr.emit(EventHoverEnter, target, x, y, nil)
	}
}

// IsHovering reports whether e or one of its descendants is hovered.
func (in *Interactor) IsHovering(e *Entity) bool {
	return in.hovered != nil && isAncestor(e, in.hovered)
}

// --- Selection ---

// Select selects e in its group, deselecting the group's other members
// first. No-op for entities without a Select capability.
func (in *Interactor) Select(e *Entity) {
	sel := e.listeners.Select
	if sel == nil || e.disposed {
		return
	}
	group := sel.Selector().Group
	for _, other := range append([]*Entity(nil), in.selected[group]...) {
		if other != e {
			in.deselect(other)
		}
	}
	if e.disposed {
		return
	}
	in.selectOne(e)
}

// Deselect clears e's selection, if any.
func (in *Interactor) Deselect(e *Entity) {
	if in.IsSelected(e) {
		in.deselect(e)
	}
}

// DeselectAll clears every selection in every group.
func (in *Interactor) DeselectAll() {
	in.deselectWhere(func(*Entity) bool { return true })
}

// updateSelection applies the selection rules for a press on target.
func (in *Interactor) updateSelection(target *Entity, mods KeyModifiers) {
	var sel SelectListener
	if target != nil {
		sel = target.listeners.Select
	}
	if sel == nil {
		in.deselectWhere(func(e *Entity) bool { return !selectorOf(e).Sticky })
		return
	}

	s := sel.Selector()
	in.deselectWhere(func(e *Entity) bool {
		es := selectorOf(e)
		return es.Group != s.Group && !es.Sticky
	})
	if target.disposed {
		return
	}

	if s.Type == SelectorMulti && mods.Has(ModShift|ModCtrl) {
		if in.IsSelected(target) {
			in.deselect(target)
		} else {
			in.selectOne(target)
		}
		return
	}
	in.Select(target)
}

func (in *Interactor) selectOne(e *Entity) {
	if e.disposed || e.listeners.Select == nil {
		return
	}
	s := e.listeners.Select.Selector()
	if indexOf(in.selected[s.Group], e) >= 0 {
		return
	}
	if _, ok := in.selected[s.Group]; !ok {
		in.groupOrder = append(in.groupOrder, s.Group)
	}
	in.selected[s.Group] = append(in.selected[s.Group], e)
	if s.Type == SelectorSolo && e.listeners.Key != nil {
		in.focus = e
	}
	e.listeners.Select.OnSelect(SelectContext{Entity: e, Group: s.Group})
	if !e.disposed {
		e.RecomputeEntity()
		in.mgr.emit(EventSelect, e, in.pointerX, in.pointerY, func(ev *InteractionEvent) { ev.Group = s.Group })
	}
}

func (in *Interactor) deselect(e *Entity) {
	s := selectorOf(e)
	in.unlinkSelection(e, s.Group)
	if e.disposed || e.listeners.Select == nil {
		return
	}
	e.listeners.Select.OnDeselect(SelectContext{Entity: e, Group: s.Group})
	if !e.disposed {
		e.RecomputeEntity()
		in.mgr.emit(EventDeselect, e, in.pointerX, in.pointerY, func(ev *InteractionEvent) { ev.Group = s.Group })
	}
}

func (in *Interactor) deselectWhere(match func(*Entity) bool) {
	for _, group := range append([]string(nil), in.groupOrder...) {
		for _, e := range append([]*Entity(nil), in.selected[group]...) {
			if match(e) {
				in.deselect(e)
			}
		}
	}
}

func (in *Interactor) unlinkSelection(e *Entity, group string) {
	members := in.selected[group]
	if i := indexOf(members, e); i >= 0 {
		copy(members[i:], members[i+1:])
		members[len(members)-1] = nil
		in.selected[group] = members[:len(members)-1]
	}
	if in.focus == e {
		in.focus = nil
	}
}

// selectorOf returns e's selector; removed entities report a zero Selector.
func selectorOf(e *Entity) Selector {
	if e.listeners.Select == nil {
		return Selector{}
	}
	return e.listeners.Select.Selector()
}

// --- Stale references ---

// forget drops every reference to a removed entity without firing callbacks.
// Must run before the entity's listeners are cleared.
func (in *Interactor) forget(e *Entity) {
	if in.hovered == e {
		in.hovered = nil
	}
	if in.pressed == e {
		in.pressed = nil
	}
	if in.dragging == e {
		in.dragging = nil
	}
	if in.lastClick == e {
		in.lastClick = nil
	}
	if in.focus == e {
		in.focus = nil
	}
	for _, group := range in.groupOrder {
		if indexOf(in.selected[group], e) >= 0 {
			in.unlinkSelection(e, group)
		}
	}
}

// forgetHidden fires a hover exit when the hovered entity, or one of its
// ancestors, becomes invisible.
func (in *Interactor) forgetHidden(e *Entity) {
	h := in.hovered
	if h == nil || !isAncestor(e, h) {
		return
	}
	in.hovered = nil
	if l := h.listeners.Hover; l != nil {
		l.OnHoverExit(HoverContext{Entity: h, X: in.pointerX, Y: in.pointerY})
	}
}

func indexOf(s []*Entity, e *Entity) int {
	for i, x := range s {
		if x == e {
			return i
		}
	}
	return -1
}
