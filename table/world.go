// SPDX-License-Identifier: MIT
package table

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type (
	// World is a sparse entity-component table.
	//
	// Synchronization is left to the caller: one writer or many readers. Read operations never
	// allocate columns so concurrent readers do not race.
	World struct {
		id     uuid.UUID
		cfg    config
		logger logrus.FieldLogger

		entities entityRegistry
		columns  map[reflect.Type]column
	}

	config struct {
		logger   logrus.FieldLogger
		capacity int
		debug    bool
	}

	// Option defines the World functional option type.
	Option func(*config)
)

const defCapacity = 64

// Lookup errors.
var (
	ErrNoSuchEntity     = errors.New("no such entity")
	ErrMissingComponent = errors.New("missing component")
)

// New instantiates a World.
func New(options ...Option) *World {
	cfg := config{
		logger:   logrus.New(),
		capacity: defCapacity,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	id := uuid.New()

	return &World{
		id:       id,
		cfg:      cfg,
		logger:   cfg.logger.WithField("world", id.String()),
		entities: newEntityRegistry(cfg.capacity),
		columns:  make(map[reflect.Type]column),
	}
}

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithCapacity configures the initial capacity of the entity registry & of each column.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option {
	return func(c *config) { c.debug = debug }
}

// ID retrieves the World's identifier.
func (w *World) ID() uuid.UUID { return w.id }

// Logger retrieves the World's logger.
func (w *World) Logger() logrus.FieldLogger { return w.logger }

// Len retrieves the number of live entities.
func (w *World) Len() int { return w.entities.alive }

// Alive checks whether e refers to a live entity.
func (w *World) Alive(e Entity) bool { return w.entities.isAlive(e) }

// Spawn creates an entity holding components.
func (w *World) Spawn(components ...Component) (e Entity) {
	e = w.entities.create()
	for _, c := range components {
		c.insertInto(w, e)
	}

	return
}

// Insert adds components to e, overwriting those of the same type.
func (w *World) Insert(e Entity, components ...Component) (err error) {
	if !w.Alive(e) {
		return fmt.Errorf("(%v) %w", e, ErrNoSuchEntity)
	}

	for _, c := range components {
		if w.cfg.debug {
			w.logger.Debugf("insert %s into (%v)", c.typeOf(), e)
		}
		c.insertInto(w, e)
	}

	return
}

// Despawn removes e & all of its components.
func (w *World) Despawn(e Entity) (err error) {
	if !w.entities.destroy(e) {
		return fmt.Errorf("(%v) %w", e, ErrNoSuchEntity)
	}

	for _, col := range w.columns {
		col.remove(e)
	}

	return
}

// Columns lists the names of the component types stored in the World, sorted.
func (w *World) Columns() (names []string) {
	names = make([]string, 0, len(w.columns))
	for _, col := range w.columns {
		if col.len() > 0 {
			names = append(names, col.name())
		}
	}
	slices.Sort(names)

	return
}

// Get retrieves a reference to the component C of e.
//
// The reference is invalidated by the next insertion or removal of a C.
func Get[C any](w *World, e Entity) (c *C, err error) {
	if !w.Alive(e) {
		return nil, fmt.Errorf("(%v) %w", e, ErrNoSuchEntity)
	}

	if s := lookupStore[C](w); s != nil {
		if c = s.get(e); c != nil {
			return
		}
	}

	return nil, fmt.Errorf("(%v) %w: %s", e, ErrMissingComponent, reflect.TypeOf((*C)(nil)).Elem())
}

// Has checks whether e holds a C.
func Has[C any](w *World, e Entity) bool {
	s := lookupStore[C](w)
	return s != nil && w.Alive(e) && s.has(e)
}

// Remove detaches & returns the component C of e.
func Remove[C any](w *World, e Entity) (c C, err error) {
	if !w.Alive(e) {
		err = fmt.Errorf("(%v) %w", e, ErrNoSuchEntity)
		return
	}

	if s := lookupStore[C](w); s != nil {
		var ok bool
		if c, ok = s.take(e); ok {
			return
		}
	}

	err = fmt.Errorf("(%v) %w: %s", e, ErrMissingComponent, reflect.TypeOf((*C)(nil)).Elem())

	return
}

// Each calls fn for every entity holding a C, in storage order, until fn returns false.
//
// fn must not insert or remove components of type C.
func Each[C any](w *World, fn func(e Entity, c *C) bool) {
	s := lookupStore[C](w)
	if s == nil {
		return
	}

	for index := range s.dense {
		if !fn(s.owners[index], &s.dense[index]) {
			return
		}
	}
}

// Count retrieves the number of entities holding a C.
func Count[C any](w *World) int {
	if s := lookupStore[C](w); s != nil {
		return s.len()
	}

	return 0
}

// Without lists the entities holding an A but not a B, in the storage order of A.
func Without[A, B any](w *World) (entities []Entity) {
	include := lookupStore[A](w)
	if include == nil {
		return
	}
	exclude := lookupStore[B](w)

	entities = make([]Entity, 0, include.len())
	for _, e := range include.owners {
		if exclude != nil && exclude.has(e) {
			continue
		}
		entities = append(entities, e)
	}

	return
}
