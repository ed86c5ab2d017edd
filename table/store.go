// SPDX-License-Identifier: MIT
package table

import "reflect"

type (
	// column is the type-erased view of a store used for bulk operations.
	column interface {
		remove(e Entity) bool
		has(e Entity) bool
		len() int
		name() string
	}

	// store is a sparse set holding the components of type C.
	//
	// Removal swaps the last dense entry into the vacated slot, relocating that entity.
	store[C any] struct {
		typ    reflect.Type
		sparse map[uint32]int
		dense  []C
		owners []Entity
	}

	// Component is a value queued for insertion into a World.
	Component interface {
		insertInto(w *World, e Entity)
		typeOf() reflect.Type
	}

	value[C any] struct{ c C }
)

// Value wraps a component for Spawn & Insert.
func Value[C any](c C) Component { return value[C]{c: c} }

func (v value[C]) insertInto(w *World, e Entity) { storeFor[C](w).set(e, v.c) }

func (v value[C]) typeOf() reflect.Type { return reflect.TypeOf((*C)(nil)).Elem() }

func newStore[C any](capacity int) *store[C] {
	return &store[C]{
		typ:    reflect.TypeOf((*C)(nil)).Elem(),
		sparse: make(map[uint32]int, capacity),
		dense:  make([]C, 0, capacity),
		owners: make([]Entity, 0, capacity),
	}
}

// lookupStore retrieves the store for C without creating it.
func lookupStore[C any](w *World) *store[C] {
	col, ok := w.columns[reflect.TypeOf((*C)(nil)).Elem()]
	if !ok {
		return nil
	}

	return col.(*store[C])
}

// storeFor retrieves the store for C, creating it on first use.
func storeFor[C any](w *World) *store[C] {
	if s := lookupStore[C](w); s != nil {
		return s
	}

	s := newStore[C](w.cfg.capacity)
	w.columns[s.typ] = s
	if w.cfg.debug {
		w.logger.Debugf("new column: %s", s.typ)
	}

	return s
}

// get retrieves a reference to the component of e, nil when absent.
func (s *store[C]) get(e Entity) *C {
	index, ok := s.sparse[e.ID]
	if !ok || s.owners[index] != e {
		return nil
	}

	return &s.dense[index]
}

// set inserts or overwrites the component of e.
func (s *store[C]) set(e Entity, c C) {
	if index, ok := s.sparse[e.ID]; ok {
		s.dense[index], s.owners[index] = c, e
		return
	}

	s.sparse[e.ID] = len(s.dense)
	s.dense = append(s.dense, c)
	s.owners = append(s.owners, e)
}

// take removes & returns the component of e.
func (s *store[C]) take(e Entity) (c C, ok bool) {
	index, found := s.sparse[e.ID]
	if !found || s.owners[index] != e {
		return
	}
	c, ok = s.dense[index], true

	last := len(s.dense) - 1
	if index != last {
		s.dense[index], s.owners[index] = s.dense[last], s.owners[last]
		s.sparse[s.owners[index].ID] = index
	}

	var zero C
	s.dense[last] = zero
	s.dense, s.owners = s.dense[:last], s.owners[:last]
	delete(s.sparse, e.ID)

	return
}

func (s *store[C]) remove(e Entity) bool {
	_, ok := s.take(e)
	return ok
}

func (s *store[C]) has(e Entity) bool { return s.get(e) != nil }

func (s *store[C]) len() int { return len(s.dense) }

func (s *store[C]) name() string { return s.typ.String() }
