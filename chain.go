package canopy

import (
	"fmt"
	"iter"
	"slices"
)

// Chain keeps an ordered run of entities nested in the scene tree: the head
// is a child of the anchor and every other member is a child of its
// predecessor. Layout that reads the parent's geometry (see StackTop) then
// flows through the sequence without any member knowing the whole list.
type Chain struct {
	anchor *Entity
	list   *List[*Entity]
	nodes  map[*Entity]*ListNode[*Entity]
}

// NewChain creates an empty chain hanging off anchor.
func NewChain(anchor *Entity) *Chain {
	c := &Chain{
		anchor: anchor,
		nodes:  make(map[*Entity]*ListNode[*Entity]),
	}
	c.list = NewList(c.relink)
	return c
}

// Anchor returns the entity the head hangs off.
func (c *Chain) Anchor() *Entity { return c.anchor }

// Len returns the number of members.
func (c *Chain) Len() int { return c.list.Len() }

// Contains reports whether e is a member.
func (c *Chain) Contains(e *Entity) bool {
	_, ok := c.nodes[e]
	return ok
}

// Head returns the first member, or nil.
func (c *Chain) Head() *Entity { return value(c.list.Head()) }

// Tail returns the last member, or nil.
func (c *Chain) Tail() *Entity { return value(c.list.Tail()) }

// Next returns the member after e, or nil.
func (c *Chain) Next(e *Entity) *Entity {
	if n, ok := c.nodes[e]; ok {
		return value(n.Next())
	}
	return nil
}

// Prev returns the member before e, or nil.
func (c *Chain) Prev(e *Entity) *Entity {
	if n, ok := c.nodes[e]; ok {
		return value(n.Prev())
	}
	return nil
}

// All iterates the members from head to tail.
func (c *Chain) All() iter.Seq[*Entity] { return c.list.Values() }

// AddToBeginning makes e the head.
func (c *Chain) AddToBeginning(e *Entity) error {
	return c.insert(e, c.list.AddToBeginning)
}

// AddToEnd makes e the tail.
func (c *Chain) AddToEnd(e *Entity) error {
	return c.insert(e, c.list.AddToEnd)
}

// InsertBeforeEnd places e just before the tail.
func (c *Chain) InsertBeforeEnd(e *Entity) error {
	return c.insert(e, c.list.InsertBeforeEnd)
}

// InsertBefore places e immediately before at.
func (c *Chain) InsertBefore(at, e *Entity) error {
	an, ok := c.nodes[at]
	if !ok {
		return fmt.Errorf("chain insert before %s: %w", at, ErrUnlinkedNode)
	}
	return c.insert(e, func(n *ListNode[*Entity]) error { return c.list.InsertBefore(an, n) })
}

// InsertAfter places e immediately after at.
func (c *Chain) InsertAfter(at, e *Entity) error {
	an, ok := c.nodes[at]
	if !ok {
		return fmt.Errorf("chain insert after %s: %w", at, ErrUnlinkedNode)
	}
	return c.insert(e, func(n *ListNode[*Entity]) error { return c.list.InsertAfter(an, n) })
}

// Remove takes e out of the chain and detaches it from the tree. Its
// successor moves under its predecessor. Children of e that are not chain
// members stay with e.
func (c *Chain) Remove(e *Entity) error {
	n, ok := c.nodes[e]
	if !ok {
		return fmt.Errorf("chain remove %s: %w", e, ErrUnlinkedNode)
	}
	// e stays in nodes while the hooks run so its neighbors still treat it
	// as a chain member.
	err := c.list.Remove(n)
	delete(c.nodes, e)
	return err
}

func (c *Chain) insert(e *Entity, link func(*ListNode[*Entity]) error) error {
	if e == nil {
		panic("canopy: nil chain entity")
	}
	if _, ok := c.nodes[e]; ok {
		return fmt.Errorf("chain insert %s: %w", e, ErrNodeInUse)
	}
	n := NewListNode(e)
	c.nodes[e] = n
	if err := link(n); err != nil {
		delete(c.nodes, e)
		return err
	}
	return nil
}

// relink is the list hook: it moves the node's entity under its new
// predecessor and keeps exactly one chain child, its new successor.
func (c *Chain) relink(n *ListNode[*Entity]) {
	e := n.Value
	if e.disposed {
		return
	}
	for _, child := range slices.Clone(e.children) {
		if c.Contains(child) && (n.Next() == nil || child != n.Next().Value) {
			e.RemoveChild(child)
		}
	}
	if n.List() == nil {
		e.RemoveFromParent()
		return
	}

	parent := c.anchor
	if p := n.Prev(); p != nil {
		parent = p.Value
	}
	if e.parent != parent {
		parent.AddChild(e)
	}
	if next := n.Next(); next != nil && next.Value.parent != e {
		e.AddChild(next.Value)
	}
}

// StackTop is a Top resolver for chain members: each member starts at the
// bottom of its predecessor, and the head at the anchor's top.
func (c *Chain) StackTop(e *Entity) float64 {
	if p := e.parent; p != nil && p != c.anchor && c.Contains(p) {
		return p.Bottom()
	}
	return c.anchor.Top()
}

// Height returns the combined height of all members.
func (c *Chain) Height() float64 {
	h := 0.0
	for e := range c.All() {
		h += e.Height()
	}
	return h
}

func value(n *ListNode[*Entity]) *Entity {
	if n == nil {
		return nil
	}
	return n.Value
}
