// SPDX-License-Identifier: MIT

// Package table provides a sparse entity-component table.
//
// Entities are generational handles; components are stored per type in sparse sets whose dense
// arrays are compacted on removal, so references obtained through Get are only valid until the next
// mutation of the same component type.
package table

import "fmt"

type (
	// Entity is a handle to a row in a World.
	//
	// A Version of 0 is never issued; the zero Entity is therefore always dead.
	Entity struct {
		ID      uint32
		Version uint32
	}

	// entityRegistry tracks entity versions & recycled ids.
	entityRegistry struct {
		versions []uint32
		freeIDs  []uint32
		alive    int
	}
)

// String implements fmt.Stringer.
func (e Entity) String() string { return fmt.Sprintf("%dv%d", e.ID, e.Version) }

// IsZero reports whether e is the zero Entity.
func (e Entity) IsZero() bool { return e == Entity{} }

// Compare orders entities by ID then Version, for use with slices.SortFunc.
func Compare(a, b Entity) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	case a.Version < b.Version:
		return -1
	case a.Version > b.Version:
		return 1
	}

	return 0
}

func newEntityRegistry(capacity int) entityRegistry {
	return entityRegistry{
		versions: make([]uint32, 0, capacity),
		freeIDs:  make([]uint32, 0, capacity/4),
	}
}

// create issues a new Entity, recycling the most recently freed id.
func (r *entityRegistry) create() (e Entity) {
	r.alive++

	if last := len(r.freeIDs) - 1; last >= 0 {
		e.ID = r.freeIDs[last]
		r.freeIDs = r.freeIDs[:last]

		// Versions are bumped on destroy; skip 0 on overflow.
		if r.versions[e.ID] == 0 {
			r.versions[e.ID] = 1
		}
		e.Version = r.versions[e.ID]

		return
	}

	e.ID = uint32(len(r.versions))
	e.Version = 1
	r.versions = append(r.versions, e.Version)

	return
}

// isAlive checks e against the current version of its id.
func (r *entityRegistry) isAlive(e Entity) bool {
	return e.Version != 0 && int(e.ID) < len(r.versions) && r.versions[e.ID] == e.Version
}

// destroy invalidates e, returning false for a stale handle.
func (r *entityRegistry) destroy(e Entity) bool {
	if !r.isAlive(e) {
		return false
	}

	r.versions[e.ID]++
	r.freeIDs = append(r.freeIDs, e.ID)
	r.alive--

	return true
}
