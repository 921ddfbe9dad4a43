package canopy

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Shade scales the RGB components by f, clamping to [0, 1]. Alpha is kept.
func (c Color) Shade(f float64) Color {
	return Color{clamp01(c.R * f), clamp01(c.G * f), clamp01(c.B * f), c.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets in screen space.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// DrawOrder orders entities for painting and hit testing. Lower values are
// drawn later, i.e. in front.
type DrawOrder int

const (
	DrawOrderFront           DrawOrder = iota // tooltips, drag ghosts
	DrawOrderDropdown                         // expanded dropdown menus
	DrawOrderWidget                           // widgets inside command blocks
	DrawOrderCommandBlock                     // command blocks in the panel
	DrawOrderInserter                         // insertion-point markers
	DrawOrderPanel                            // panel backgrounds
	DrawOrderPathNode                         // path nodes on the field
	DrawOrderPathSegment                      // path segments on the field
	DrawOrderThetaLine                        // construction lines behind the path
	DrawOrderFieldBackground                  // field surface
	DrawOrderBackground                       // root background
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventMouseDown   EventType = iota // fires when a pointer button is pressed over an entity
	EventMouseUp                      // fires when a pointer button is released
	EventClick                        // fires for a single left or right click
	EventDoubleClick                  // fires instead of the second click of a pair
	EventDragStart                    // fires when movement exceeds the drag dead zone
	EventDrag                         // fires on every move while dragging
	EventDragEnd                      // fires when the drag stops
	EventHoverEnter                   // fires when the pointer enters an entity
	EventHoverExit                    // fires when the pointer leaves an entity
	EventSelect                       // fires when an entity becomes selected
	EventDeselect                     // fires when an entity loses selection
	EventKeyDown                      // fires on key press for the focused entity
	EventKeyUp                        // fires on key release for the focused entity
	EventWheel                        // fires on mouse wheel over an entity
	EventRemoved                      // fires once per entity disposed by Remove
)

var eventTypeNames = [...]string{
	"mouse-down", "mouse-up", "click", "double-click", "drag-start", "drag",
	"drag-end", "hover-enter", "hover-exit", "select", "deselect", "key-down",
	"key-up", "wheel", "removed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft  MouseButton = iota // primary (left) mouse button
	MouseButtonRight                    // secondary (right) mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether any of the given modifiers are held.
func (m KeyModifiers) Has(mods KeyModifiers) bool {
	return m&mods != 0
}

// Key identifies a keyboard key. The driver maps platform key codes into
// this space; the core treats it as opaque.
type Key int
