// Package util holds small generic data-structure helpers shared across
// parsekit's core packages: the generic key-backed set KeySet embeds into
// internal/core/automaton.StateSet.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// KeySet is a map[E]bool with set operations added. Embedding it (rather
// than copying its methods) is how internal/core/automaton.StateSet gets
// Add/Has/Len/Empty/AddAll for free.
type KeySet[E comparable] map[E]bool

// NewKeySet builds an empty KeySet, optionally seeded with the keys of the
// given maps.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// KeySetOf builds a KeySet from a slice's elements. A nil slice yields a nil
// KeySet; callers that need a guaranteed non-nil empty set should use
// NewKeySet instead.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	if sl == nil {
		return nil
	}

	s := NewKeySet[E]()
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// Copy returns a duplicate of the set.
func (s KeySet[E]) Copy() KeySet[E] {
	newS := NewKeySet[E]()
	for k := range s {
		newS[k] = true
	}
	return newS
}

// Union returns a new set that is the union of s and o.
func (s KeySet[E]) Union(o KeySet[E]) KeySet[E] {
	newSet := NewKeySet[E]()
	newSet.AddAll(s)
	newSet.AddAll(o)
	return newSet
}

// Intersection returns a new set containing the elements in both s and o.
func (s KeySet[E]) Intersection(o KeySet[E]) KeySet[E] {
	newSet := NewKeySet[E]()
	for k := range s {
		if o.Has(k) {
			newSet.Add(k)
		}
	}
	return newSet
}

// Difference returns a new set containing the elements in s but not in o.
func (s KeySet[E]) Difference(o KeySet[E]) KeySet[E] {
	newSet := NewKeySet[E]()
	newSet.AddAll(s)
	for _, k := range o.Elements() {
		newSet.Remove(k)
	}
	return newSet
}

// DisjointWith returns whether s and o share no elements.
func (s KeySet[E]) DisjointWith(o KeySet[E]) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

// Empty returns whether the set has no elements.
func (s KeySet[E]) Empty() bool {
	return s.Len() == 0
}

// Any returns whether any element in the set meets predicate.
func (s KeySet[E]) Any(predicate func(v E) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

// Has returns whether value is in the set.
func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

// Add adds value to the set. No effect if it is already present.
func (s KeySet[E]) Add(value E) {
	s[value] = true
}

// Remove removes value from the set. No effect if it is not present.
func (s KeySet[E]) Remove(value E) {
	delete(s, value)
}

// Len returns the number of elements in the set.
func (s KeySet[E]) Len() int {
	return len(s)
}

// AddAll adds every element of o to s.
func (s KeySet[E]) AddAll(o KeySet[E]) {
	for _, element := range o.Elements() {
		s.Add(element)
	}
}

// StringOrdered renders the set's contents, ordered by their %v
// representation.
func (s KeySet[E]) StringOrdered() string {
	convs := make([]string, 0, len(s))
	for k := range s {
		convs = append(convs, fmt.Sprintf("%v", k))
	}
	sort.Strings(convs)

	var sb strings.Builder
	sb.WriteRune('{')
	for i := range convs {
		sb.WriteString(convs[i])
		if i+1 < len(convs) {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// String renders the set's contents in unspecified order.
func (s KeySet[E]) String() string {
	var sb strings.Builder
	total, written := s.Len(), 0

	sb.WriteRune('{')
	for k := range s {
		sb.WriteString(fmt.Sprintf("%v", k))
		written++
		if written < total {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// Equal returns whether s and o contain the same elements.
func (s KeySet[E]) Equal(o KeySet[E]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Elements returns the set's members as a slice, in unspecified order.
func (s KeySet[E]) Elements() []E {
	if s == nil {
		return nil
	}
	sl := make([]E, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}
	return sl
}
