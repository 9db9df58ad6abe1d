package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/parsekit/internal/util"
)

// StateSet is a set of NFA state indices: the cell value type for NFA
// transition tables, since every cell holds the set of states reachable on
// that column's input. It is backed by a generic KeySet rather
// than a hand-rolled map, so Add, Has, Len and Empty come from there; Union
// and Copy are redeclared here on top of KeySet.AddAll so that they return a
// StateSet; Sorted and Key are specific to subset construction's need for a
// canonical, orderable representation.
type StateSet struct {
	util.KeySet[int]
}

// NewStateSet builds a StateSet from the given states. Unlike
// util.KeySetOf, a no-argument call always yields an initialized empty set
// rather than a nil one, since callers rely on accumulating into it with
// Add.
func NewStateSet(states ...int) StateSet {
	s := util.NewKeySet[int]()
	for _, st := range states {
		s.Add(st)
	}
	return StateSet{KeySet: s}
}

// Union returns a new StateSet containing every member of s and o.
func (s StateSet) Union(o StateSet) StateSet {
	out := NewStateSet()
	out.AddAll(s.KeySet)
	out.AddAll(o.KeySet)
	return out
}

// Sorted returns the set's members in ascending order.
func (s StateSet) Sorted() []int {
	out := make([]int, 0, s.Len())
	for st := range s.KeySet {
		out = append(out, st)
	}
	sort.Ints(out)
	return out
}

// Key returns a canonical string representation of the set, suitable for use
// as a map key when registering DFA states during subset construction.
func (s StateSet) Key() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, st := range sorted {
		parts[i] = strconv.Itoa(st)
	}
	return strings.Join(parts, ",")
}

// Copy returns a duplicate of the set.
func (s StateSet) Copy() StateSet {
	out := NewStateSet()
	out.AddAll(s.KeySet)
	return out
}
