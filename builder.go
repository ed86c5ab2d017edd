// SPDX-License-Identifier: MIT
package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

// Constraint is a wrapper interface containing comparable & constraints.Ordered.
type Constraint interface {
	comparable
	constraints.Ordered
}

type (
	// Builder defines an interface for records that can be loaded into a Hierarchy.
	//
	// A record whose Parent is the zero value is a root.
	Builder[K Constraint] interface {
		// Value obtains the value stored by the Builder.
		Value() K
		// Parent obtains the parent stored by the Builder
		Parent() K
	}

	// BuildSource is a wrapper type for []Builder used to populate a Hierarchy.
	BuildSource[T any, K Constraint] struct {
		debug  bool
		logger logrus.FieldLogger

		list      []Builder[K]
		isOrdered bool
	}

	// DefaultBuilder is a sample Builder interface implementation.
	DefaultBuilder[K Constraint] struct {
		value  K
		parent K
	}

	// Key is the component holding the value of a loaded record.
	Key[K Constraint] struct {
		Value K
	}

	// BuildOption defines the BuildSource functional option type.
	BuildOption[T any, K Constraint] func(*BuildSource[T, K])
)

// Hierarchy building errors.
var (
	ErrBuildHierarchy = errors.New("failed to build hierarchy")

	ErrMissingRootNode = errors.New("missing root node")
	ErrDuplicateValue  = errors.New("duplicate value")

	ErrEmptyHierarchySrc   = errors.New("empty hierarchy source")
	ErrInvalidHierarchySrc = errors.New("invalid hierarchy source")

	ErrLocateParents = errors.New("unable to locate parents(s)")

	ErrPanicked = errors.New("recovery from panic")
)

// NewDefaultBuilder instantiates a DefaultBuilder.
func NewDefaultBuilder[K Constraint](value, parent K) *DefaultBuilder[K] {
	return &DefaultBuilder[K]{value: value, parent: parent}
}

// Value obtains the value stored by the DefaultBuilder.
func (d *DefaultBuilder[K]) Value() K { return d.value }

// Parent obtains the parent stored by the DefaultBuilder
func (d *DefaultBuilder[K]) Parent() K { return d.parent }

// NewBuildSource instantiates a BuildSource.
func NewBuildSource[T any, K Constraint](options ...BuildOption[T, K]) *BuildSource[T, K] {
	b := &BuildSource[T, K]{
		list:   []Builder[K]{},
		logger: logrus.New(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// WithBuilders configures the underlying list, copying it; Build consumes the copy.
func WithBuilders[T any, K Constraint](list []Builder[K]) BuildOption[T, K] {
	return func(b *BuildSource[T, K]) { b.list = slices.Clone(list) }
}

// WithBuildLogger configures the logger option.
func WithBuildLogger[T any, K Constraint](logger logrus.FieldLogger) BuildOption[T, K] {
	return func(b *BuildSource[T, K]) { b.logger = logger }
}

// WithBuildDebug configures the debug option
func WithBuildDebug[T any, K Constraint](debug bool) BuildOption[T, K] {
	return func(b *BuildSource[T, K]) { b.debug = debug }
}

// WithOrdered declares that every record follows its parent, allowing a single pass.
func WithOrdered[T any, K Constraint](ordered bool) BuildOption[T, K] {
	return func(b *BuildSource[T, K]) { b.isOrdered = ordered }
}

// Len retrieves the length of the BuildSource.
func (b *BuildSource[T, K]) Len() int { return len(b.list) }

// Cut a value at some index from the BuildSource.
func (b *BuildSource[T, K]) Cut(index int) {
	if index == 0 {
		b.list = b.list[1:]
		return
	}

	upper := index + 1
	// Cut upto (excluding) `index`, cut from (including) `index+1`.
	b.list = append(b.list[:index], b.list[upper:]...)
}

// pending lists the values left in the BuildSource, sorted.
func (b *BuildSource[T, K]) pending() (values []K) {
	values = make([]K, len(b.list))
	for index := range b.list {
		values[index] = b.list[index].Value()
	}
	slices.Sort(values)

	return
}

// Build spawns an entity holding a [Key] per record & attaches it under its parent's entity.
//
// Several roots are allowed. The BuildSource is consumed; the returned index maps every value to its
// entity. A failed Build despawns whatever it had loaded & returns a nil index.
func (b *BuildSource[T, K]) Build(ctx context.Context, h *Hierarchy[T]) (index map[K]table.Entity, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrBuildHierarchy, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		if err != nil {
			// Skip expensive operation if not debug.
			if b.debug {
				b.logger.Debugf("built: %s \nsource remnants: %s", spew.Sprint(index), spew.Sprint(b.list))
			}

			err = fmt.Errorf("%w: %w", ErrInvalidHierarchySrc, err)

			// Loaded entities only link to each other.
			for _, e := range index {
				_ = h.World().Despawn(e)
			}
			index = nil
		}
	}()

	if b.Len() < 1 {
		err = ErrEmptyHierarchySrc
		return
	}

	var rootValue K
	index = make(map[K]table.Entity, b.Len())

	spawn := func(value K) (e table.Entity, sErr error) {
		if value == rootValue {
			return e, fmt.Errorf("(%v) %w", value, ErrInvalidHierarchySrc)
		}
		if _, ok := index[value]; ok {
			return e, fmt.Errorf("(%v) %w", value, ErrDuplicateValue)
		}

		return h.World().Spawn(table.Value(Key[K]{Value: value})), nil
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return
	default:
	}

	for pos := 0; pos < b.Len(); {
		node := b.list[pos]
		if node.Parent() != rootValue {
			pos++
			continue
		}

		var e table.Entity
		if e, err = spawn(node.Value()); err != nil {
			return
		}
		index[node.Value()] = e
		b.Cut(pos)
	}
	if len(index) < 1 {
		err = ErrMissingRootNode
		return
	}

	if b.debug {
		b.logger.Debugf("roots: %+v, source (without roots): %+v", index, b.pending())
	}

	for b.Len() > 0 {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		prevLen := b.Len()
		for pos := 0; pos < b.Len(); {
			node := b.list[pos]

			// Parent not in hierarchy.
			parent, ok := index[node.Parent()]
			if !ok {
				if b.isOrdered {
					err = fmt.Errorf("(%v) %w", node.Value(), ErrLocateParents)
					return
				}

				pos++
				continue
			}

			var child table.Entity
			if child, err = spawn(node.Value()); err != nil {
				return
			}
			if _, err = h.Attach(child, parent); err != nil {
				_ = h.World().Despawn(child)
				return
			}
			index[node.Value()] = child

			// Remove added node from the build source.
			b.Cut(pos)
		}

		if b.Len() == prevLen {
			err = fmt.Errorf("%w for: %v", ErrLocateParents, b.pending())
			return
		}
	}

	return
}
