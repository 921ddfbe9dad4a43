package canopy

import (
	"fmt"
	"iter"
)

// ListNode is one link of a List. The payload is owned by the caller; the
// links are owned by the list the node is in.
type ListNode[T any] struct {
	Value T

	prev, next *ListNode[T]
	list       *List[T]
}

// NewListNode returns an unlinked node carrying v.
func NewListNode[T any](v T) *ListNode[T] {
	return &ListNode[T]{Value: v}
}

// Prev returns the previous node, or nil at the head or when unlinked.
func (n *ListNode[T]) Prev() *ListNode[T] { return n.prev }

// Next returns the next node, or nil at the tail or when unlinked.
func (n *ListNode[T]) Next() *ListNode[T] { return n.next }

// List returns the list the node is linked into, or nil.
func (n *ListNode[T]) List() *List[T] { return n.list }

// List is a doubly linked sequence that reports adjacency changes. After
// every structural change the hook runs on each node whose neighbors
// changed: the previous neighbor, the node itself, then the next neighbor.
// All links are updated before the first hook runs.
type List[T any] struct {
	head, tail *ListNode[T]
	len        int
	hook       func(*ListNode[T])
}

// NewList creates an empty list. hook may be nil.
func NewList[T any](hook func(*ListNode[T])) *List[T] {
	return &List[T]{hook: hook}
}

// Head returns the first node, or nil.
func (l *List[T]) Head() *ListNode[T] { return l.head }

// Tail returns the last node, or nil.
func (l *List[T]) Tail() *ListNode[T] { return l.tail }

// Len returns the number of linked nodes.
func (l *List[T]) Len() int { return l.len }

// Contains reports whether n is linked into l.
func (l *List[T]) Contains(n *ListNode[T]) bool {
	return n != nil && n.list == l
}

// AddToBeginning links n as the new head.
func (l *List[T]) AddToBeginning(n *ListNode[T]) error {
	if err := l.checkFree(n); err != nil {
		return err
	}
	l.link(nil, n, l.head)
	return nil
}

// AddToEnd links n as the new tail.
func (l *List[T]) AddToEnd(n *ListNode[T]) error {
	if err := l.checkFree(n); err != nil {
		return err
	}
	l.link(l.tail, n, nil)
	return nil
}

// InsertBefore links n immediately before at. Inserting before the head
// is the same as AddToBeginning.
func (l *List[T]) InsertBefore(at, n *ListNode[T]) error {
	if !l.Contains(at) {
		return fmt.Errorf("insert before: %w", ErrUnlinkedNode)
	}
	if err := l.checkFree(n); err != nil {
		return err
	}
	l.link(at.prev, n, at)
	return nil
}

// InsertAfter links n immediately after at. Inserting after the tail is the
// same as AddToEnd.
func (l *List[T]) InsertAfter(at, n *ListNode[T]) error {
	if !l.Contains(at) {
		return fmt.Errorf("insert after: %w", ErrUnlinkedNode)
	}
	if err := l.checkFree(n); err != nil {
		return err
	}
	l.link(at, n, at.next)
	return nil
}

// InsertBeforeEnd links n immediately before the tail, or as the only node
// of an empty list.
func (l *List[T]) InsertBeforeEnd(n *ListNode[T]) error {
	if l.tail == nil {
		return l.AddToEnd(n)
	}
	return l.InsertBefore(l.tail, n)
}

// Remove unlinks n. The hook runs on the former neighbors and on n itself,
// which by then reports no list and no neighbors.
func (l *List[T]) Remove(n *ListNode[T]) error {
	if !l.Contains(n) {
		return fmt.Errorf("remove: %w", ErrUnlinkedNode)
	}
	prev, next := n.prev, n.next
	if prev != nil {
		prev.next = next
	} else {
		l.head = next
	}
	if next != nil {
		next.prev = prev
	} else {
		l.tail = prev
	}
	n.prev, n.next, n.list = nil, nil, nil
	l.len--

	l.notify(prev, n, next)
	return nil
}

// All iterates the nodes from head to tail. The iteration tolerates removal
// of the current node.
func (l *List[T]) All() iter.Seq[*ListNode[T]] {
	return func(yield func(*ListNode[T]) bool) {
		for n := l.head; n != nil; {
			next := n.next
			if !yield(n) {
				return
			}
			n = next
		}
	}
}

// Values iterates the payloads from head to tail.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := range l.All() {
			if !yield(n.Value) {
				return
			}
		}
	}
}

func (l *List[T]) checkFree(n *ListNode[T]) error {
	if n == nil {
		panic("canopy: nil list node")
	}
	if n.list != nil {
		return fmt.Errorf("insert: %w", ErrNodeInUse)
	}
	return nil
}

// link splices n between prev and next, which must be adjacent (either may
// be nil at the ends).
func (l *List[T]) link(prev, n, next *ListNode[T]) {
	n.prev, n.next, n.list = prev, next, l
	if prev != nil {
		prev.next = n
	} else {
		l.head = n
	}
	if next != nil {
		next.prev = n
	} else {
		l.tail = n
	}
	l.len++

	l.notify(prev, n, next)
}

func (l *List[T]) notify(prev, n, next *ListNode[T]) {
	if l.hook == nil {
		return
	}
	if prev != nil {
		l.hook(prev)
	}
	l.hook(n)
	if next != nil {
		l.hook(next)
	}
}
