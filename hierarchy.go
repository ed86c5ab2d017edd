// SPDX-License-Identifier: MIT

// Package hierarchy maintains parent/child trees over the entities of a [table.World].
//
// The linkage lives entirely in two components, [Parent] & [Child], so no entity owns child
// storage. The tag type T selects the tree; an entity may belong to several trees at once.
//
// Children are kept in attach order: [Hierarchy.Attach] appends after the last child &
// [Hierarchy.Children] starts from the first.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/ecshierarchy/table"
)

type (
	// Hierarchy binds the tree tagged T to a World.
	//
	// Synchronization is left to the caller: mutations need exclusive access to the World, traversals
	// only shared access. Hierarchies with different tags are independent.
	Hierarchy[T any] struct {
		// cfg contains a pointer to a [Config] that may be shared by several Hierarchy(ies).
		cfg *Config

		world *table.World
	}

	// Config defines configuration options for the [Hierarchy]'s operations.
	Config struct {
		// Logger for [Hierarchy] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool

		// PoolSize bounds the goroutines used by [Hierarchy.CollectDescendants].
		PoolSize int
	}

	// LevelList holds descendants grouped by depth.
	LevelList [][]table.Entity

	// Option defines the Hierarchy functional option type.
	Option[T any] func(*Hierarchy[T])
)

const defPoolSize = 8

// Errors encountered when handling a Hierarchy.
var (
	ErrNoSuchEntity     = table.ErrNoSuchEntity
	ErrMissingComponent = table.ErrMissingComponent
)

var defConfig = DefConfig()

// DefConfig obtains the package's [Hierarchy] default options.
func DefConfig() *Config {
	return &Config{
		Logger:   logrus.New(),
		Debug:    false,
		PoolSize: defPoolSize,
	}
}

// New binds the hierarchy tagged T to a World.
func New[T any](w *table.World, options ...Option[T]) *Hierarchy[T] {
	h := &Hierarchy[T]{
		cfg:   defConfig,
		world: w,
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

// WithConfig configures the [Hierarchy] [Config].
func WithConfig[T any](cfg *Config) Option[T] {
	return func(h *Hierarchy[T]) { h.cfg = cfg }
}

// WithLogger configures the logger option, copying the current [Config].
func WithLogger[T any](logger logrus.FieldLogger) Option[T] {
	return func(h *Hierarchy[T]) {
		cfg := *h.cfg
		cfg.Logger = logger
		h.cfg = &cfg
	}
}

// WithDebug configures the debug option, copying the current [Config].
func WithDebug[T any](debug bool) Option[T] {
	return func(h *Hierarchy[T]) {
		cfg := *h.cfg
		cfg.Debug = debug
		h.cfg = &cfg
	}
}

// WithPoolSize configures the pool size option, copying the current [Config].
func WithPoolSize[T any](size int) Option[T] {
	return func(h *Hierarchy[T]) {
		cfg := *h.cfg
		cfg.PoolSize = size
		h.cfg = &cfg
	}
}

// Config retrieves the [Hierarchy]'s Config.
func (h *Hierarchy[T]) Config() *Config { return h.cfg }

// World retrieves the [Hierarchy]'s World.
func (h *Hierarchy[T]) World() *table.World { return h.world }

// Parent retrieves the parent of child.
func (h *Hierarchy[T]) Parent(child table.Entity) (parent table.Entity, err error) {
	c, err := table.Get[Child[T]](h.world, child)
	if err != nil {
		return
	}

	return c.parent, nil
}

// Root retrieves the topmost ancestor of entity, entity itself when it has no parent.
func (h *Hierarchy[T]) Root(entity table.Entity) (root table.Entity, err error) {
	if !h.world.Alive(entity) {
		err = fmt.Errorf("(%v) %w", entity, ErrNoSuchEntity)
		return
	}

	root = entity
	for {
		parent, pErr := h.Parent(root)
		switch {
		case pErr == nil:
			root = parent
		case errors.Is(pErr, ErrMissingComponent):
			return
		default:
			return root, pErr
		}
	}
}

// NumChildren retrieves the number of direct children of parent, 0 when it has none.
func (h *Hierarchy[T]) NumChildren(parent table.Entity) int {
	p, err := table.Get[Parent[T]](h.world, parent)
	if err != nil {
		return 0
	}

	return p.numChildren
}

// IsRoot checks whether entity has children but no parent.
func (h *Hierarchy[T]) IsRoot(entity table.Entity) bool {
	return table.Has[Parent[T]](h.world, entity) && !table.Has[Child[T]](h.world, entity)
}

// Children iterates the direct children of parent; empty when parent has none.
func (h *Hierarchy[T]) Children(parent table.Entity) *ChildrenIter[T] {
	return childrenOf[T](h.world, parent)
}

// Ancestors iterates from the parent of child up to the root; child itself is excluded.
func (h *Hierarchy[T]) Ancestors(child table.Entity) *AncestorIter[T] {
	return newAncestorIter[T](h.world, child)
}

// DescendantsDepthFirst iterates the subtree of root in pre-order; root itself is excluded.
func (h *Hierarchy[T]) DescendantsDepthFirst(root table.Entity) *DepthFirstIterator[T] {
	return newDepthFirstIterator[T](h.world, root)
}

// Visit iterates the subtree of root in pre-order, pruning the subtrees of entities rejected by
// accept.
func (h *Hierarchy[T]) Visit(root table.Entity, accept AcceptFunc) *DepthFirstVisitor[T] {
	return newDepthFirstVisitor[T](h.world, root, accept)
}

// DescendantsBreadthFirst iterates the subtree of root in level order; root itself is excluded.
func (h *Hierarchy[T]) DescendantsBreadthFirst(root table.Entity) *BreadthFirstIterator[T] {
	return newBreadthFirstIterator[T](h.world, root)
}

// DescendantsByLevel lists the subtree of root grouped by depth; root itself is excluded.
func (h *Hierarchy[T]) DescendantsByLevel(root table.Entity) (levels LevelList) {
	peers := h.Children(root).Collect()
	for len(peers) > 0 {
		levels = append(levels, peers)

		var next []table.Entity
		for _, e := range peers {
			next = append(next, h.Children(e).Collect()...)
		}
		peers = next
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("levels under (%v): %+v", root, levels)
	}

	return
}

// Roots lists the entities with children but no parent, in table order.
func (h *Hierarchy[T]) Roots() []table.Entity {
	return table.Without[Parent[T], Child[T]](h.world)
}

// Dump renders the subtree of root for debugging.
func (h *Hierarchy[T]) Dump(root table.Entity) string {
	return spew.Sdump(root, h.DescendantsByLevel(root))
}
