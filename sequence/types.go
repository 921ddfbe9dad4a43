package sequence

import (
	"errors"

	"github.com/phanxgames/canopy"
)

var (
	// ErrNotCustom is returned when a built-in command is deleted or moved.
	ErrNotCustom = errors.New("sequence: command is not a custom command")
	// ErrNoCommand is returned when a path element has no linked command.
	ErrNoCommand = errors.New("sequence: no command linked to element")
	// ErrStartNode is returned when deleting the first node of a path.
	ErrStartNode = errors.New("sequence: cannot delete the start node")
)

// CommandType is the kind of a command block.
type CommandType uint8

const (
	CommandTurn CommandType = iota
	CommandStraight
	CommandArc
	CommandBezier
	CommandCustom
)

var commandTypeNames = [...]string{"turn", "straight", "arc", "bezier", "custom"}

func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "unknown"
}

// SegmentType is the curve shape of a path segment.
type SegmentType uint8

const (
	SegmentStraight SegmentType = iota
	SegmentArc
	SegmentBezier
)

// CommandType returns the command kind that drives a segment of this shape.
func (s SegmentType) CommandType() CommandType {
	switch s {
	case SegmentArc:
		return CommandArc
	case SegmentBezier:
		return CommandBezier
	}
	return CommandStraight
}

// Layout constants, in screen units.
const (
	CollapsedHeight   = 35.0
	ExpandedHeight    = 50.0
	InserterHeight    = 10.0
	InserterHovered   = 18.0
	NodeRadius        = 8.0
	SegmentThickness  = 6.0
	DragOpacity       = 0.7
	ScrollSpeed       = 20.0
	expandSeconds     = 0.25
	inserterSeconds   = 0.12
	commandColorShade = 1.1
	labelInset        = 8.0
)

// FieldTransform maps between field coordinates (where path nodes live) and
// screen coordinates.
type FieldTransform interface {
	FieldToScreen(p canopy.Vec2) canopy.Vec2
	ScreenToField(p canopy.Vec2) canopy.Vec2
}

// Identity is the FieldTransform where field and screen coordinates coincide.
type Identity struct{}

func (Identity) FieldToScreen(p canopy.Vec2) canopy.Vec2 { return p }
func (Identity) ScreenToField(p canopy.Vec2) canopy.Vec2 { return p }

// EntityTransform stretches a Width x Height field over the resolved rect of
// an entity.
type EntityTransform struct {
	Field         *canopy.Entity
	Width, Height float64
}

func (t EntityTransform) FieldToScreen(p canopy.Vec2) canopy.Vec2 {
	r := t.Field.Rect()
	return canopy.Vec2{
		X: r.X + p.X/t.Width*r.Width,
		Y: r.Y + p.Y/t.Height*r.Height,
	}
}

func (t EntityTransform) ScreenToField(p canopy.Vec2) canopy.Vec2 {
	r := t.Field.Rect()
	if r.Width == 0 || r.Height == 0 {
		return canopy.Vec2{}
	}
	return canopy.Vec2{
		X: (p.X - r.X) / r.Width * t.Width,
		Y: (p.Y - r.Y) / r.Height * t.Height,
	}
}
