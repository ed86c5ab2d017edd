// SPDX-License-Identifier: MIT
package hierarchy

import (
	"gitlab.com/fisherprime/ecshierarchy/table"
	"gitlab.com/fisherprime/ecshierarchy/types"
)

// NOTE: The iterators hold no references into the World's columns between calls; every step
// re-resolves the handles it follows. A failed lookup ends the sibling list being walked instead of
// surfacing an error; the tree walks carry on with the enclosing lists.

type (
	// AcceptFunc decides whether the DepthFirstVisitor yields & descends into an entity.
	AcceptFunc func(w *table.World, e table.Entity) bool

	// ChildrenIter iterates the direct children of a parent.
	//
	// The number of children is known in advance.
	ChildrenIter[T any] struct {
		world     *table.World
		remaining int
		current   table.Entity
	}

	// AncestorIter iterates the ancestors of an entity, nearest first.
	AncestorIter[T any] struct {
		world   *table.World
		current table.Entity
		done    bool
	}

	// DepthFirstIterator iterates the descendants of an entity in pre-order.
	DepthFirstIterator[T any] struct{ depthFirst[T] }

	// DepthFirstVisitor iterates the descendants of an entity in pre-order, skipping the subtrees of
	// rejected entities.
	DepthFirstVisitor[T any] struct{ depthFirst[T] }

	// BreadthFirstIterator iterates the descendants of an entity in level order.
	BreadthFirstIterator[T any] struct {
		world *table.World
		queue types.Queue[table.Entity]
	}

	depthFirst[T any] struct {
		world  *table.World
		accept AcceptFunc
		stack  types.Stack[frame]
	}

	// frame is the position within one sibling list.
	frame struct {
		current   table.Entity
		remaining int
	}
)

// childrenOf iterates the children of parent; empty when parent has none.
func childrenOf[T any](w *table.World, parent table.Entity) *ChildrenIter[T] {
	it := &ChildrenIter[T]{world: w}

	p, err := table.Get[Parent[T]](w, parent)
	if err != nil {
		return it
	}

	if it.current, err = p.FirstChild(w); err != nil {
		return it
	}
	it.remaining = p.numChildren

	return it
}

// Next yields the next child.
func (it *ChildrenIter[T]) Next() (e table.Entity, ok bool) {
	if it.remaining < 1 {
		return
	}

	c, err := table.Get[Child[T]](it.world, it.current)
	if err != nil {
		it.remaining = 0
		return
	}

	e, ok = it.current, true
	it.current = c.next
	it.remaining--

	return
}

// Len retrieves the number of children left.
func (it *ChildrenIter[T]) Len() int { return it.remaining }

// Collect drains the iterator.
func (it *ChildrenIter[T]) Collect() (entities []table.Entity) {
	entities = make([]table.Entity, 0, it.remaining)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		entities = append(entities, e)
	}

	return
}

func newAncestorIter[T any](w *table.World, child table.Entity) *AncestorIter[T] {
	return &AncestorIter[T]{world: w, current: child}
}

// Next yields the next ancestor; the root is the last.
func (it *AncestorIter[T]) Next() (e table.Entity, ok bool) {
	if it.done {
		return
	}

	c, err := table.Get[Child[T]](it.world, it.current)
	if err != nil {
		it.done = true
		return
	}

	it.current = c.parent

	return it.current, true
}

// Collect drains the iterator.
func (it *AncestorIter[T]) Collect() (entities []table.Entity) {
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		entities = append(entities, e)
	}

	return
}

func newDepthFirstIterator[T any](w *table.World, root table.Entity) *DepthFirstIterator[T] {
	it := &DepthFirstIterator[T]{depthFirst[T]{world: w}}
	it.pushChildren(root)

	return it
}

func newDepthFirstVisitor[T any](w *table.World, root table.Entity, accept AcceptFunc) *DepthFirstVisitor[T] {
	it := &DepthFirstVisitor[T]{depthFirst[T]{world: w, accept: accept}}
	it.pushChildren(root)

	return it
}

// pushChildren adds a frame for the children of e, if any.
func (d *depthFirst[T]) pushChildren(e table.Entity) {
	if children := childrenOf[T](d.world, e); children.Len() > 0 {
		d.stack.Push(frame{current: children.current, remaining: children.remaining})
	}
}

// Next yields the next descendant.
func (d *depthFirst[T]) Next() (e table.Entity, ok bool) {
	for d.stack.Len() > 0 {
		top := d.stack.Top()
		if top.remaining < 1 {
			d.stack.Pop()
			continue
		}

		current := top.current
		c, err := table.Get[Child[T]](d.world, current)
		if err != nil {
			// Only the broken sibling list is abandoned.
			d.stack.Pop()
			continue
		}
		top.current = c.next
		top.remaining--

		if d.accept != nil && !d.accept(d.world, current) {
			continue
		}

		// top is invalid past this point.
		d.pushChildren(current)

		return current, true
	}

	return
}

// Collect drains the iterator.
func (d *depthFirst[T]) Collect() (entities []table.Entity) {
	for e, ok := d.Next(); ok; e, ok = d.Next() {
		entities = append(entities, e)
	}

	return
}

func newBreadthFirstIterator[T any](w *table.World, root table.Entity) *BreadthFirstIterator[T] {
	it := &BreadthFirstIterator[T]{world: w}
	it.enqueueChildren(root)

	return it
}

func (it *BreadthFirstIterator[T]) enqueueChildren(e table.Entity) {
	children := childrenOf[T](it.world, e)
	for child, ok := children.Next(); ok; child, ok = children.Next() {
		it.queue.Push(child)
	}
}

// Next yields the next descendant.
func (it *BreadthFirstIterator[T]) Next() (e table.Entity, ok bool) {
	if e, ok = it.queue.Pop(); !ok {
		return
	}
	it.enqueueChildren(e)

	return
}

// Collect drains the iterator.
func (it *BreadthFirstIterator[T]) Collect() (entities []table.Entity) {
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		entities = append(entities, e)
	}

	return
}
