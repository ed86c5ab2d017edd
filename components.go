// SPDX-License-Identifier: MIT
package hierarchy

import (
	"fmt"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

type (
	// Parent is the component of an entity with children in the hierarchy tagged T.
	//
	// The children form a circular doubly-linked list through their Child components, anchored on the
	// last child. T only distinguishes coexisting hierarchies.
	Parent[T any] struct {
		numChildren int
		lastChild   table.Entity
	}

	// Child is the component of an entity with a parent in the hierarchy tagged T.
	Child[T any] struct {
		parent table.Entity
		next   table.Entity
		prev   table.Entity
	}
)

// NewParent instantiates a Parent.
func NewParent[T any](numChildren int, lastChild table.Entity) Parent[T] {
	return Parent[T]{numChildren: numChildren, lastChild: lastChild}
}

// NumChildren retrieves the number of direct children.
func (p *Parent[T]) NumChildren() int { return p.numChildren }

// LastChild retrieves the most recently attached child.
func (p *Parent[T]) LastChild() table.Entity { return p.lastChild }

// FirstChild retrieves the least recently attached child, the successor of the last child.
func (p *Parent[T]) FirstChild(w *table.World) (first table.Entity, err error) {
	last, err := table.Get[Child[T]](w, p.lastChild)
	if err != nil {
		return
	}

	return last.next, nil
}

// String implements fmt.Stringer.
func (p *Parent[T]) String() string {
	return fmt.Sprintf("{children: %d, last: %v}", p.numChildren, p.lastChild)
}

// NewChild instantiates a Child.
func NewChild[T any](parent, next, prev table.Entity) Child[T] {
	return Child[T]{parent: parent, next: next, prev: prev}
}

// Parent retrieves the owning parent.
func (c *Child[T]) Parent() table.Entity { return c.parent }

// Next retrieves the next sibling; the first child for the last child.
func (c *Child[T]) Next() table.Entity { return c.next }

// Prev retrieves the previous sibling; the last child for the first child.
func (c *Child[T]) Prev() table.Entity { return c.prev }

// String implements fmt.Stringer.
func (c *Child[T]) String() string {
	return fmt.Sprintf("{parent: %v, next: %v, prev: %v}", c.parent, c.next, c.prev)
}
