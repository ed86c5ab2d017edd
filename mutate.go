// SPDX-License-Identifier: MIT
package hierarchy

import (
	"errors"
	"fmt"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

// NOTE: Column references returned by table.Get are invalidated by any insertion or removal of the
// same component type. Every mutation resolves all of its references first, rewires them, then
// performs the structural table calls last.

const (
	attachErrFmt = "attach (%v) to (%v): %w"
	detachErrFmt = "detach (%v): %w"
)

// Attach child as the last child of parent, returning child.
//
// child must not already be attached in this hierarchy & must not be an ancestor of parent; neither
// is checked. A failed Attach leaves the World unchanged.
func (h *Hierarchy[T]) Attach(child, parent table.Entity) (table.Entity, error) {
	if !h.world.Alive(child) {
		return child, fmt.Errorf(attachErrFmt, child, parent, fmt.Errorf("(%v) %w", child, ErrNoSuchEntity))
	}

	p, err := table.Get[Parent[T]](h.world, parent)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingComponent):
		// First child; the sibling list is child alone.
		if err = h.world.Insert(parent, table.Value(NewParent[T](1, child))); err != nil {
			return child, fmt.Errorf(attachErrFmt, child, parent, err)
		}
		if err = h.world.Insert(child, table.Value(NewChild[T](parent, child, child))); err != nil {
			return child, fmt.Errorf(attachErrFmt, child, parent, err)
		}

		return child, nil
	default:
		return child, fmt.Errorf(attachErrFmt, child, parent, err)
	}

	prev := p.lastChild
	prevData, err := table.Get[Child[T]](h.world, prev)
	if err != nil {
		return child, fmt.Errorf(attachErrFmt, child, parent, err)
	}
	next := prevData.next
	nextData, err := table.Get[Child[T]](h.world, next)
	if err != nil {
		return child, fmt.Errorf(attachErrFmt, child, parent, err)
	}

	// prevData & nextData alias when parent has a single child.
	prevData.next = child
	nextData.prev = child
	p.numChildren++
	p.lastChild = child

	if err = h.world.Insert(child, table.Value(NewChild[T](parent, next, prev))); err != nil {
		return child, fmt.Errorf(attachErrFmt, child, parent, err)
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("attached (%v) to (%v) between (%v) & (%v)", child, parent, prev, next)
	}

	return child, nil
}

// AttachNew spawns an entity holding components & attaches it to parent.
//
// The entity is despawned when parent is invalid.
func (h *Hierarchy[T]) AttachNew(parent table.Entity, components ...table.Component) (child table.Entity, err error) {
	if !h.world.Alive(parent) {
		return child, fmt.Errorf(attachErrFmt, child, parent, fmt.Errorf("(%v) %w", parent, ErrNoSuchEntity))
	}

	child = h.world.Spawn(components...)
	if _, err = h.Attach(child, parent); err != nil {
		_ = h.world.Despawn(child)
		return table.Entity{}, err
	}

	return
}

// Detach child from its parent.
//
// The children of child remain attached to it, the subtree moves as a unit. The parent loses its
// Parent component along with its last child.
func (h *Hierarchy[T]) Detach(child table.Entity) (err error) {
	c, err := table.Get[Child[T]](h.world, child)
	if err != nil {
		return fmt.Errorf(detachErrFmt, child, err)
	}
	parent, prev, next := c.parent, c.prev, c.next

	prevData, err := table.Get[Child[T]](h.world, prev)
	if err != nil {
		return fmt.Errorf(detachErrFmt, child, err)
	}
	nextData, err := table.Get[Child[T]](h.world, next)
	if err != nil {
		return fmt.Errorf(detachErrFmt, child, err)
	}
	p, err := table.Get[Parent[T]](h.world, parent)
	if err != nil {
		return fmt.Errorf(detachErrFmt, child, err)
	}

	prevData.next = next
	nextData.prev = prev
	p.numChildren--
	if p.lastChild == child {
		p.lastChild = prev
	}
	empty := p.numChildren < 1

	if _, err = table.Remove[Child[T]](h.world, child); err != nil {
		return fmt.Errorf(detachErrFmt, child, err)
	}
	if empty {
		if _, err = table.Remove[Parent[T]](h.world, parent); err != nil {
			return fmt.Errorf(detachErrFmt, child, err)
		}
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("detached (%v) from (%v)", child, parent)
	}

	return
}

// DetachChildren detaches every direct child of parent, returning them in order.
//
// Each former child keeps its own subtree. A parent without children yields nil.
func (h *Hierarchy[T]) DetachChildren(parent table.Entity) (children []table.Entity, err error) {
	if !h.world.Alive(parent) {
		err = fmt.Errorf("detach children of (%v): %w", parent, fmt.Errorf("(%v) %w", parent, ErrNoSuchEntity))
		return
	}
	if !table.Has[Parent[T]](h.world, parent) {
		return
	}

	children = h.Children(parent).Collect()
	for _, child := range children {
		if _, err = table.Remove[Child[T]](h.world, child); err != nil {
			err = fmt.Errorf("detach children of (%v): %w", parent, err)
			return
		}
	}

	if _, err = table.Remove[Parent[T]](h.world, parent); err != nil {
		err = fmt.Errorf("detach children of (%v): %w", parent, err)
	}

	return
}

// DetachAll detaches the children of entity & entity from its parent, leaving it loose.
//
// An entity without a parent is not an error, only its children are detached.
func (h *Hierarchy[T]) DetachAll(entity table.Entity) (err error) {
	if _, err = h.DetachChildren(entity); err != nil {
		return
	}

	if !table.Has[Child[T]](h.world, entity) {
		return
	}

	return h.Detach(entity)
}

// DespawnChildren despawns the subtrees of every direct child of parent.
func (h *Hierarchy[T]) DespawnChildren(parent table.Entity) (err error) {
	if !h.world.Alive(parent) {
		return fmt.Errorf("despawn children of (%v): %w", parent, fmt.Errorf("(%v) %w", parent, ErrNoSuchEntity))
	}

	for _, child := range h.Children(parent).Collect() {
		h.DespawnAll(child)
	}

	return
}

// DespawnAll despawns parent & its descendants, detaching parent first.
//
// This is a best-effort cleanup: dangling or already despawned entities are skipped.
func (h *Hierarchy[T]) DespawnAll(parent table.Entity) {
	descendants := h.DescendantsDepthFirst(parent).Collect()

	if err := h.Detach(parent); err != nil && h.cfg.Debug {
		h.cfg.Logger.Debugf("despawn all: %v", err)
	}

	for _, e := range descendants {
		if err := h.world.Despawn(e); err != nil && h.cfg.Debug {
			h.cfg.Logger.Debugf("despawn all: %v", err)
		}
	}

	if err := h.world.Despawn(parent); err != nil && h.cfg.Debug {
		h.cfg.Logger.Debugf("despawn all: %v", err)
	}
}
