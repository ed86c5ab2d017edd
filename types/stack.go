// SPDX-License-Identifier: MIT
package types

type (
	// Stack is a LIFO container storing its first InlineCap elements in place.
	//
	// Shallow hierarchies never touch the heap; deeper ones spill into a slice.
	Stack[E any] struct {
		inline [InlineCap]E
		spill  []E
		n      int
	}
)

// InlineCap is the number of Stack elements stored without allocation.
const InlineCap = 8

// Len retrieves the number of elements in the Stack.
func (s *Stack[E]) Len() int { return s.n }

// Push an element onto the Stack.
func (s *Stack[E]) Push(e E) {
	if s.n < InlineCap {
		s.inline[s.n] = e
	} else {
		s.spill = append(s.spill[:s.n-InlineCap], e)
	}
	s.n++
}

// Top retrieves a reference to the topmost element, nil for an empty Stack.
//
// The reference is invalidated by the next Push or Pop.
func (s *Stack[E]) Top() *E {
	switch {
	case s.n < 1:
		return nil
	case s.n <= InlineCap:
		return &s.inline[s.n-1]
	default:
		return &s.spill[s.n-1-InlineCap]
	}
}

// Pop removes the topmost element.
func (s *Stack[E]) Pop() (e E, ok bool) {
	top := s.Top()
	if top == nil {
		return
	}

	e, ok = *top, true

	var zero E
	*top = zero
	s.n--

	return
}
