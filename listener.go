package canopy

// Capability names one optional interaction behavior of an entity.
type Capability uint8

const (
	CapClick Capability = iota
	CapDrag
	CapHover
	CapSelect
	CapKey
	CapTick
	CapWheel
)

// --- Callback contexts ---

// ClickContext carries click event data.
type ClickContext struct {
	Entity    *Entity
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// DragContext carries drag event data. StartX/StartY is where the drag
// began; DeltaX/DeltaY is the offset accepted on this move.
type DragContext struct {
	Entity         *Entity
	X, Y           float64
	StartX, StartY float64
	DeltaX, DeltaY float64
	Modifiers      KeyModifiers
}

// HoverContext carries hover transition data.
type HoverContext struct {
	Entity *Entity
	X, Y   float64
}

// SelectContext carries selection change data.
type SelectContext struct {
	Entity *Entity
	Group  string
}

// KeyContext carries keyboard event data for the focused entity.
type KeyContext struct {
	Entity    *Entity
	Key       Key
	Modifiers KeyModifiers
}

// WheelContext carries mouse wheel data.
type WheelContext struct {
	Entity *Entity
	X, Y   float64
	DX, DY float64
}

// --- Capability interfaces ---

// ClickListener reacts to presses on its entity. MouseDownAny fires for any
// press anywhere while the entity is in the tree.
type ClickListener interface {
	OnLeftClick(ctx ClickContext)
	OnRightClick(ctx ClickContext)
	OnDoubleClick(ctx ClickContext)
	OnMouseDown(ctx ClickContext)
	OnMouseDownAny(ctx ClickContext)
}

// DragListener moves its entity. CanDragOffset is asked before every
// DragOffset; returning false rejects the candidate offset for this move.
type DragListener interface {
	OnStartDrag(ctx DragContext)
	CanDragOffset(dx, dy float64) bool
	DragOffset(dx, dy float64)
	OnDrag(ctx DragContext)
	OnStopDrag(ctx DragContext)
}

// HoverListener observes the pointer entering and leaving its entity.
type HoverListener interface {
	OnHoverEnter(ctx HoverContext)
	OnHoverExit(ctx HoverContext)
}

// SelectorType is the exclusivity policy of a selection group.
type SelectorType uint8

const (
	// SelectorSolo allows one selected member per group.
	SelectorSolo SelectorType = iota
	// SelectorMulti allows several members; Shift or Ctrl extends the selection.
	SelectorMulti
)

// Selector describes how an entity participates in selection.
type Selector struct {
	Group string
	Type  SelectorType
	// DeselectOnMouseUp clears the selection when the button is released.
	DeselectOnMouseUp bool
	// Sticky selections survive presses on entities outside the group.
	Sticky bool
}

// SelectListener makes its entity selectable.
type SelectListener interface {
	Selector() Selector
	OnSelect(ctx SelectContext)
	OnDeselect(ctx SelectContext)
}

// KeyListener receives keys while its entity holds keyboard focus.
type KeyListener interface {
	OnKeyDown(ctx KeyContext)
	OnKeyUp(ctx KeyContext)
}

// TickListener runs once per frame. Start fires in tree order for every
// ticking entity, then End fires in the same order.
type TickListener interface {
	OnTickStart(dt float64)
	OnTickEnd(dt float64)
}

// WheelListener receives wheel input over its entity or a descendant.
type WheelListener interface {
	OnWheel(ctx WheelContext)
}

// Listeners is an entity's capability table. Nil fields are absent
// capabilities and are skipped silently by dispatch.
type Listeners struct {
	Click  ClickListener
	Drag   DragListener
	Hover  HoverListener
	Select SelectListener
	Key    KeyListener
	Tick   TickListener
	Wheel  WheelListener
}

func (l Listeners) has(c Capability) bool {
	switch c {
	case CapClick:
		return l.Click != nil
	case CapDrag:
		return l.Drag != nil
	case CapHover:
		return l.Hover != nil
	case CapSelect:
		return l.Select != nil
	case CapKey:
		return l.Key != nil
	case CapTick:
		return l.Tick != nil
	case CapWheel:
		return l.Wheel != nil
	}
	return false
}

// --- Function-struct implementations ---

// ClickFuncs implements ClickListener with optional funcs. Nil funcs are no-ops.
type ClickFuncs struct {
	LeftClick    func(ClickContext)
	RightClick   func(ClickContext)
	DoubleClick  func(ClickContext)
	MouseDown    func(ClickContext)
	MouseDownAny func(ClickContext)
}

func (f *ClickFuncs) OnLeftClick(ctx ClickContext) {
	if f.LeftClick != nil {
		f.LeftClick(ctx)
	}
}

func (f *ClickFuncs) OnRightClick(ctx ClickContext) {
	if f.RightClick != nil {
		f.RightClick(ctx)
	}
}

func (f *ClickFuncs) OnDoubleClick(ctx ClickContext) {
	if f.DoubleClick != nil {
		f.DoubleClick(ctx)
	}
}

func (f *ClickFuncs) OnMouseDown(ctx ClickContext) {
	if f.MouseDown != nil {
		f.MouseDown(ctx)
	}
}

func (f *ClickFuncs) OnMouseDownAny(ctx ClickContext) {
	if f.MouseDownAny != nil {
		f.MouseDownAny(ctx)
	}
}

// DragFuncs implements DragListener. A nil CanDrag accepts every offset.
type DragFuncs struct {
	Start   func(DragContext)
	CanDrag func(dx, dy float64) bool
	Offset  func(dx, dy float64)
	Drag    func(DragContext)
	Stop    func(DragContext)
}

func (f *DragFuncs) OnStartDrag(ctx DragContext) {
	if f.Start != nil {
		f.Start(ctx)
	}
}

func (f *DragFuncs) CanDragOffset(dx, dy float64) bool {
	if f.CanDrag != nil {
		return f.CanDrag(dx, dy)
	}
	return true
}

func (f *DragFuncs) DragOffset(dx, dy float64) {
	if f.Offset != nil {
		f.Offset(dx, dy)
	}
}

func (f *DragFuncs) OnDrag(ctx DragContext) {
	if f.Drag != nil {
		f.Drag(ctx)
	}
}

func (f *DragFuncs) OnStopDrag(ctx DragContext) {
	if f.Stop != nil {
		f.Stop(ctx)
	}
}

// HoverFuncs implements HoverListener.
type HoverFuncs struct {
	Enter func(HoverContext)
	Exit  func(HoverContext)
}

func (f *HoverFuncs) OnHoverEnter(ctx HoverContext) {
	if f.Enter != nil {
		f.Enter(ctx)
	}
}

func (f *HoverFuncs) OnHoverExit(ctx HoverContext) {
	if f.Exit != nil {
		f.Exit(ctx)
	}
}

// SelectFuncs implements SelectListener for a fixed Selector.
type SelectFuncs struct {
	Sel      Selector
	Select   func(SelectContext)
	Deselect func(SelectContext)
}

func (f *SelectFuncs) Selector() Selector { return f.Sel }

func (f *SelectFuncs) OnSelect(ctx SelectContext) {
	if f.Select != nil {
		f.Select(ctx)
	}
}

func (f *SelectFuncs) OnDeselect(ctx SelectContext) {
	if f.Deselect != nil {
		f.Deselect(ctx)
	}
}

// KeyFuncs implements KeyListener.
type KeyFuncs struct {
	Down func(KeyContext)
	Up   func(KeyContext)
}

func (f *KeyFuncs) OnKeyDown(ctx KeyContext) {
	if f.Down != nil {
		f.Down(ctx)
	}
}

func (f *KeyFuncs) OnKeyUp(ctx KeyContext) {
	if f.Up != nil {
		f.Up(ctx)
	}
}

// TickFuncs implements TickListener.
type TickFuncs struct {
	Start func(dt float64)
	End   func(dt float64)
}

func (f *TickFuncs) OnTickStart(dt float64) {
	if f.Start != nil {
		f.Start(dt)
	}
}

func (f *TickFuncs) OnTickEnd(dt float64) {
	if f.End != nil {
		f.End(dt)
	}
}

// WheelFuncs implements WheelListener.
type WheelFuncs struct {
	Wheel func(WheelContext)
}

func (f *WheelFuncs) OnWheel(ctx WheelContext) {
	if f.Wheel != nil {
		f.Wheel(ctx)
	}
}
