package canopy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGeometryDependency is raised when a geometry resolver asks for
	// an attribute that is still being resolved (a cyclic or mis-ordered
	// dependency).
	ErrInvalidGeometryDependency = errors.New("canopy: invalid geometry dependency")

	// ErrUnlinkedNode is returned by list operations that reference a node
	// that is not currently linked into the list.
	ErrUnlinkedNode = errors.New("canopy: node is not in this list")

	// ErrNodeInUse is returned when inserting a node that is already linked
	// into a list.
	ErrNodeInUse = errors.New("canopy: node is already linked")

	// ErrStaleEntity is reported when an operation targets a removed entity.
	ErrStaleEntity = errors.New("canopy: entity has been removed")

	// ErrMutationDuringDraw is raised when the tree is structurally mutated
	// while the draw pass is running.
	ErrMutationDuringDraw = errors.New("canopy: tree mutated during draw")
)

// Attr names one resolvable geometry attribute.
type Attr uint8

const (
	AttrLeft Attr = iota
	AttrTop
	AttrWidth
	AttrHeight
	AttrCenterX
	AttrCenterY
	numAttrs
)

var attrNames = [numAttrs]string{"left", "top", "width", "height", "centerX", "centerY"}

func (a Attr) String() string {
	if a < numAttrs {
		return attrNames[a]
	}
	return "unknown"
}

// GeometryError describes a geometry resolution cycle. Chain lists the
// attributes being resolved when the cycle was detected, outermost first.
type GeometryError struct {
	Entity string
	Attr   Attr
	Chain  []string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%v: %s.%s queried while resolving [%s]",
		ErrInvalidGeometryDependency, e.Entity, e.Attr, strings.Join(e.Chain, " -> "))
}

func (e *GeometryError) Unwrap() error { return ErrInvalidGeometryDependency }
